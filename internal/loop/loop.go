// Package loop drives a stepper from frame ticks.
//
// It replaces a display-refresh callback with an explicit scheduler: each
// frame reads the clock once, turns the gap since the previous frame into a
// clamped dt and hands both to the stepper. Tests inject a [ManualClock]
// and call [Loop.Frame] directly; interactive front-ends feed ticks from a
// timer.
package loop

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Stepper is the per-frame transition, typically *session.Session.
type Stepper interface {
	Advance(dt float64, now time.Time) error
	Running() bool
}

type Loop struct {
	stepper Stepper
	clock   Clock
	maxDt   float64
	last    time.Time
	primed  bool
	frames  int
	log     *zap.Logger
}

func New(st Stepper, clock Clock, maxDt float64, log *zap.Logger) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{stepper: st, clock: clock, maxDt: maxDt, log: log}
}

// Frame runs one tick. While the stepper is paused the frame gap is
// forgotten, so resuming never produces a catch-up step.
func (l *Loop) Frame() error {
	now := l.clock.Now()
	if !l.stepper.Running() {
		l.primed = false
		return nil
	}

	dt := 0.0
	if l.primed {
		dt = now.Sub(l.last).Seconds()
	}
	l.last = now
	l.primed = true
	l.frames++

	if dt > l.maxDt {
		l.log.Debug("frame gap clamped", zap.Float64("dt", dt), zap.Float64("max_dt", l.maxDt))
		dt = l.maxDt
	}
	if dt < 0 {
		dt = 0
	}
	return l.stepper.Advance(dt, now)
}

// Frames counts frames that reached the stepper.
func (l *Loop) Frames() int { return l.frames }

// Run consumes ticks until ctx is done, the channel closes or a frame
// fails. Cancellation is checked before each frame so no step is started
// after ctx is done.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := l.Frame(); err != nil {
				return err
			}
		}
	}
}

// RunTicker drives the loop at the given rate until ctx is done.
func (l *Loop) RunTicker(ctx context.Context, rate time.Duration) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	return l.Run(ctx, ticker.C)
}
