package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/history"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
)

// MaxDt bounds a single integration step in seconds.
const MaxDt = 1.0 / 60

var (
	// ErrHalted is returned by Play after a computation fault until Reset.
	ErrHalted = errors.New("session: simulation halted")

	// ErrBusy is returned by operations that are only valid while Idle.
	ErrBusy = errors.New("session: pointer drag in progress")
)

type Options struct {
	Params         physics.Params
	Initial        physics.State
	Pivot          physics.Point
	TrailWindow    time.Duration
	EnergyCapacity int
	MaxDt          float64
	Paused         bool
	ShowTrails     bool
	ShowEnergy     bool
	Logger         *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Params:         physics.DefaultParams(),
		Initial:        physics.InitialState(),
		TrailWindow:    history.DefaultTrailWindow,
		EnergyCapacity: history.DefaultEnergyCapacity,
		MaxDt:          MaxDt,
		ShowTrails:     true,
		ShowEnergy:     true,
	}
}

type Session struct {
	params physics.Params
	state  physics.State
	pivot  physics.Point
	maxDt  float64

	trail1 *history.Trail
	trail2 *history.Trail
	energy *history.EnergyLog
	drift  *metrics.EnergyDrift

	running    bool
	wasRunning bool
	drag       Target
	err        error
	elapsed    float64
	steps      int

	showTrails bool
	showEnergy bool

	log *zap.Logger
}

// New validates opts.Params and returns a session at opts.Initial.
func New(opts Options) (*Session, error) {
	if err := checkParams(opts.Params); err != nil {
		return nil, err
	}
	if !opts.Initial.IsFinite() {
		return nil, fmt.Errorf("%w: initial state %+v", dynamo.ErrInvalidState, opts.Initial)
	}
	if opts.MaxDt <= 0 {
		opts.MaxDt = MaxDt
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		params:     opts.Params,
		state:      opts.Initial,
		pivot:      opts.Pivot,
		maxDt:      opts.MaxDt,
		trail1:     history.NewTrail(opts.TrailWindow),
		trail2:     history.NewTrail(opts.TrailWindow),
		energy:     history.NewEnergyLog(opts.EnergyCapacity),
		drift:      metrics.NewEnergyDrift(nil, opts.Params.EnergyScale()),
		running:    !opts.Paused,
		showTrails: opts.ShowTrails,
		showEnergy: opts.ShowEnergy,
		log:        log,
	}, nil
}

// ClampDt limits dt to [0, max]. NaN maps to 0.
func ClampDt(dt, max float64) float64 {
	if !(dt > 0) {
		return 0
	}
	return math.Min(dt, max)
}

// Advance performs one tick: integrate, derive positions, append trail
// points stamped now, evict expired trail points, then record energy.
// Nothing happens while paused, dragging or halted. A computation fault
// halts the session and is returned; no buffer is touched in that case.
func (s *Session) Advance(dt float64, now time.Time) error {
	if s.err != nil {
		return s.err
	}
	if !s.running || s.drag != TargetNone {
		return nil
	}
	dt = ClampDt(dt, s.maxDt)

	next, err := physics.Step(s.state, s.params, dt)
	if err != nil {
		return s.halt(err)
	}
	e := physics.Energy(next, s.params)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return s.halt(&dynamo.SimulationError{State: next.Vector(), Wrapped: dynamo.ErrInvalidState})
	}

	s.state = next
	s.elapsed += dt
	s.steps++

	j := physics.Positions(next, s.params, s.pivot)
	s.trail1.Push(j.X1, j.Y1, now)
	s.trail2.Push(j.X2, j.Y2, now)
	s.energy.Append(e)
	s.drift.ObserveEnergy(e)
	return nil
}

func (s *Session) halt(err error) error {
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		simErr.Step = s.steps
		simErr.Time = s.elapsed
	}
	s.err = err
	s.running = false
	s.log.Error("simulation halted",
		zap.Error(err),
		zap.Int("step", s.steps),
		zap.Float64("t", s.elapsed),
	)
	return err
}

// Reset returns to physics.InitialState whatever the session started from,
// and clears every buffer and any halt.
// The play/pause flag is kept, except that an in-progress drag is ended.
func (s *Session) Reset() {
	if s.drag != TargetNone {
		s.running = s.wasRunning
		s.drag = TargetNone
		s.wasRunning = false
	}
	s.state = physics.InitialState()
	s.err = nil
	s.elapsed = 0
	s.steps = 0
	s.clearHistory()
	s.log.Debug("session reset")
}

func (s *Session) clearTrails() {
	s.trail1.Clear()
	s.trail2.Clear()
}

func (s *Session) clearHistory() {
	s.clearTrails()
	s.energy.Clear()
	s.drift.Reset()
}

func (s *Session) Play() error {
	if s.err != nil {
		return fmt.Errorf("%w: %v", ErrHalted, s.err)
	}
	if s.drag != TargetNone {
		s.wasRunning = true
		return nil
	}
	s.running = true
	return nil
}

func (s *Session) Pause() {
	if s.drag != TargetNone {
		s.wasRunning = false
		return
	}
	s.running = false
}

// Toggle flips play/pause and reports the new running flag.
func (s *Session) Toggle() (bool, error) {
	if s.Running() {
		s.Pause()
		return false, nil
	}
	if err := s.Play(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) Running() bool          { return s.running }
func (s *Session) Err() error             { return s.err }
func (s *Session) State() physics.State   { return s.state }
func (s *Session) Params() physics.Params { return s.params }
func (s *Session) Pivot() physics.Point   { return s.pivot }
func (s *Session) Elapsed() float64       { return s.elapsed }
func (s *Session) Steps() int             { return s.steps }
func (s *Session) TrailLens() (int, int)  { return s.trail1.Len(), s.trail2.Len() }
func (s *Session) EnergyLen() int         { return s.energy.Len() }

// Energy returns the current total mechanical energy.
func (s *Session) Energy() float64 { return physics.Energy(s.state, s.params) }

// SetPivot moves the screen-space origin. Existing trails are cleared since
// they were recorded around the old origin.
func (s *Session) SetPivot(p physics.Point) {
	if p == s.pivot {
		return
	}
	s.pivot = p
	s.clearTrails()
}

// Conservation reports the percent of the first recorded energy still
// present. ok is false while damping is enabled or before any sample.
func (s *Session) Conservation() (percent float64, ok bool) {
	if s.params.DampingRate() > 0 || s.drift.Samples() == 0 {
		return 0, false
	}
	return s.drift.PercentConserved(), true
}
