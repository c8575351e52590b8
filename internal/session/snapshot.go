package session

import (
	"time"

	"github.com/san-kum/pendulab/internal/history"
	"github.com/san-kum/pendulab/internal/physics"
)

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	State  physics.State
	Params physics.Params
	Pivot  physics.Point
	Joints physics.Joints

	Trail1 []history.FadedPoint
	Trail2 []history.FadedPoint
	Energy []float64

	Conservation   float64
	ConservationOK bool
	MaxDrift       float64

	Running  bool
	Dragging Target
	Err      error
	Time     float64
	Steps    int

	ShowTrails bool
	ShowEnergy bool
}

// Snapshot copies the session for drawing. Trail fade is computed against
// the single instant now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	percent, ok := s.Conservation()
	return Snapshot{
		State:          s.state,
		Params:         s.params,
		Pivot:          s.pivot,
		Joints:         physics.Positions(s.state, s.params, s.pivot),
		Trail1:         s.trail1.Faded(now),
		Trail2:         s.trail2.Faded(now),
		Energy:         s.energy.Values(),
		Conservation:   percent,
		ConservationOK: ok,
		MaxDrift:       s.drift.Value(),
		Running:        s.running,
		Dragging:       s.drag,
		Err:            s.err,
		Time:           s.elapsed,
		Steps:          s.steps,
		ShowTrails:     s.showTrails,
		ShowEnergy:     s.showEnergy,
	}
}
