package dynamo

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0, 4.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_NormAndSub(t *testing.T) {
	a := State{4, 6, 1, 1}
	b := State{1, 2, 1, 1}

	if got := a.Sub(b).Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Sub().Norm() = %v, want 5", got)
	}
	if a.Half() != 2 {
		t.Errorf("Half() = %d, want 2", a.Half())
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}

func TestRunAll(t *testing.T) {
	var calls int32
	err := RunAll(context.Background(), 8, func(ctx context.Context, idx int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if calls != 8 {
		t.Errorf("expected 8 calls, got %d", calls)
	}

	err = RunAll(context.Background(), 3, func(ctx context.Context, idx int) error {
		if idx == 1 {
			return ErrUnstable
		}
		return nil
	})
	if !errors.Is(err, ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}
