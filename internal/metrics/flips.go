package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Flips counts how often any link passes over the top of its pivot, i.e.
// how often an angle crosses an odd multiple of π. The time of the first
// flip is a common chaos observable for the double pendulum.
type Flips struct {
	name    string
	winding []int
	count   int
	first   float64
	primed  bool
}

func NewFlips() *Flips {
	return &Flips{name: "flips", first: -1}
}

func (f *Flips) Name() string { return f.name }

func (f *Flips) Observe(x dynamo.State, t float64) {
	n := x.Half()
	if !f.primed {
		f.winding = make([]int, n)
		for i := 0; i < n; i++ {
			f.winding[i] = winding(x[i])
		}
		f.primed = true
		return
	}
	for i := 0; i < n && i < len(f.winding); i++ {
		w := winding(x[i])
		if w != f.winding[i] {
			f.count += absInt(w - f.winding[i])
			if f.first < 0 {
				f.first = t
			}
			f.winding[i] = w
		}
	}
}

// winding is the index of the 2π band centred on the hanging position.
func winding(angle float64) int {
	return int(math.Floor((angle + math.Pi) / (2 * math.Pi)))
}

func (f *Flips) Value() float64 { return float64(f.count) }

// FirstFlip returns the time of the first flip, or -1 if none occurred.
func (f *Flips) FirstFlip() float64 { return f.first }

func (f *Flips) Reset() {
	f.winding = nil
	f.count = 0
	f.first = -1
	f.primed = false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
