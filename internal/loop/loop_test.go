package loop

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type recorder struct {
	running bool
	dts     []float64
	nows    []time.Time
	failAt  int
}

func (r *recorder) Running() bool { return r.running }

func (r *recorder) Advance(dt float64, now time.Time) error {
	r.dts = append(r.dts, dt)
	r.nows = append(r.nows, now)
	if r.failAt > 0 && len(r.dts) == r.failAt {
		return errBoom
	}
	return nil
}

var (
	errBoom = errors.New("boom")
	start   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestFrameClampsDt(t *testing.T) {
	rec := &recorder{running: true}
	clock := NewManualClock(start)
	l := New(rec, clock, 1.0/60, nil)

	steps := []time.Duration{0, 10 * time.Millisecond, 2 * time.Second, 5 * time.Millisecond}
	for _, d := range steps {
		clock.Advance(d)
		if err := l.Frame(); err != nil {
			t.Fatalf("Frame: %v", err)
		}
	}

	want := []float64{0, 0.01, 1.0 / 60, 0.005}
	for i, dt := range rec.dts {
		if math.Abs(dt-want[i]) > 1e-12 {
			t.Errorf("frame %d dt = %v, want %v", i, dt, want[i])
		}
	}
	if !rec.nows[2].Equal(start.Add(2010 * time.Millisecond)) {
		t.Errorf("frame 2 now = %v", rec.nows[2])
	}
}

func TestFramePausedSkipsAndForgetsGap(t *testing.T) {
	rec := &recorder{running: true}
	clock := NewManualClock(start)
	l := New(rec, clock, 1.0, nil)

	l.Frame()
	rec.running = false
	clock.Advance(500 * time.Millisecond)
	l.Frame()
	rec.running = true
	clock.Advance(100 * time.Millisecond)
	l.Frame()
	clock.Advance(100 * time.Millisecond)
	l.Frame()

	if len(rec.dts) != 3 {
		t.Fatalf("expected 3 stepped frames, got %d", len(rec.dts))
	}
	if rec.dts[1] != 0 {
		t.Errorf("first frame after resume dt = %v, want 0", rec.dts[1])
	}
	if math.Abs(rec.dts[2]-0.1) > 1e-12 {
		t.Errorf("dt = %v, want 0.1", rec.dts[2])
	}
	if l.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", l.Frames())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &recorder{running: true}
	l := New(rec, NewManualClock(start), 1.0/60, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time, 4)
	ticks <- start
	ticks <- start

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, ticks) }()

	for len(ticks) > 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	n := len(rec.dts)
	ticks <- start
	time.Sleep(5 * time.Millisecond)
	if len(rec.dts) != n {
		t.Error("frames ran after cancellation")
	}
}

func TestRunStopsOnClosedChannelAndError(t *testing.T) {
	rec := &recorder{running: true}
	l := New(rec, NewManualClock(start), 1.0/60, nil)

	ticks := make(chan time.Time, 2)
	ticks <- start
	close(ticks)
	if err := l.Run(context.Background(), ticks); err != nil {
		t.Fatalf("Run() = %v, want nil on closed channel", err)
	}

	rec = &recorder{running: true, failAt: 2}
	l = New(rec, NewManualClock(start), 1.0/60, nil)
	ticks = make(chan time.Time, 5)
	for i := 0; i < 5; i++ {
		ticks <- start
	}
	if err := l.Run(context.Background(), ticks); !errors.Is(err, errBoom) {
		t.Fatalf("Run() = %v, want errBoom", err)
	}
	if len(rec.dts) != 2 {
		t.Errorf("expected loop to stop after failing frame, ran %d", len(rec.dts))
	}
}
