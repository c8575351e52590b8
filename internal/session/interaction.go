package session

import (
	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/physics"
)

// Target is the interaction state: TargetNone is Idle, otherwise the mass
// being dragged.
type Target int

const (
	TargetNone Target = iota
	TargetMass1
	TargetMass2
)

func (t Target) String() string {
	switch t {
	case TargetMass1:
		return "mass1"
	case TargetMass2:
		return "mass2"
	default:
		return "idle"
	}
}

func (s *Session) Dragging() Target { return s.drag }

// Pick returns the mass under p, if any. When both are in range the closer
// one wins and mass2 wins exact ties.
func (s *Session) Pick(p physics.Point) Target {
	j := physics.Positions(s.state, s.params, s.pivot)
	d1, d2 := p.Dist(j.Mass1()), p.Dist(j.Mass2())
	in1 := d1 <= physics.HitRadius(s.params.Mass1)
	in2 := d2 <= physics.HitRadius(s.params.Mass2)

	switch {
	case in1 && in2:
		if d2 <= d1 {
			return TargetMass2
		}
		return TargetMass1
	case in2:
		return TargetMass2
	case in1:
		return TargetMass1
	}
	return TargetNone
}

// PointerDown starts a drag when p lies within a mass's hit radius. It
// remembers whether playback was running, pauses it and clears every
// history buffer. Misses are ignored.
func (s *Session) PointerDown(p physics.Point) bool {
	if s.drag != TargetNone || s.err != nil {
		return false
	}
	target := s.Pick(p)
	if target == TargetNone {
		return false
	}

	s.drag = target
	s.wasRunning = s.running
	s.running = false
	s.clearHistory()
	s.log.Debug("drag started", zap.Stringer("target", target), zap.Bool("was_running", s.wasRunning))
	return true
}

// PointerMove aims the dragged link at p and zeroes both velocities. Mass2
// is aimed from the live position of mass1.
func (s *Session) PointerMove(p physics.Point) bool {
	switch s.drag {
	case TargetMass1:
		s.state.Angle1 = physics.AngleTo(s.pivot, p)
	case TargetMass2:
		j := physics.Positions(s.state, s.params, s.pivot)
		s.state.Angle2 = physics.AngleTo(j.Mass1(), p)
	default:
		return false
	}
	s.state.Velocity1 = 0
	s.state.Velocity2 = 0
	s.clearTrails()
	return true
}

// PointerUp ends a drag and resumes playback if it ran before the drag.
func (s *Session) PointerUp() {
	if s.drag == TargetNone {
		return
	}
	s.log.Debug("drag ended", zap.Stringer("target", s.drag))
	s.drag = TargetNone
	s.running = s.wasRunning
	s.wasRunning = false
}

// PointerLeave is treated as a release.
func (s *Session) PointerLeave() { s.PointerUp() }
