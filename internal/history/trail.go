package history

import "time"

const DefaultTrailWindow = 3 * time.Second

type TrailPoint struct {
	X, Y float64
	At   time.Time
}

// FadedPoint is a trail point with an opacity in [0, 1]; 1 is newest.
type FadedPoint struct {
	X, Y  float64
	Alpha float64
}

type Trail struct {
	window time.Duration
	points []TrailPoint
}

func NewTrail(window time.Duration) *Trail {
	if window <= 0 {
		window = DefaultTrailWindow
	}
	return &Trail{
		window: window,
		points: make([]TrailPoint, 0, 256),
	}
}

func (t *Trail) Window() time.Duration { return t.window }
func (t *Trail) Len() int              { return len(t.points) }

// Push appends a point stamped now and evicts against the same instant.
func (t *Trail) Push(x, y float64, now time.Time) {
	t.points = append(t.points, TrailPoint{X: x, Y: y, At: now})
	t.Evict(now)
}

// Evict removes every point with now - At >= window and reports how many
// were dropped. Points inside the window are never removed.
func (t *Trail) Evict(now time.Time) int {
	kept := t.points[:0]
	for _, p := range t.points {
		if now.Sub(p.At) < t.window {
			kept = append(kept, p)
		}
	}
	dropped := len(t.points) - len(kept)
	clear(t.points[len(kept):])
	t.points = kept
	return dropped
}

// Faded returns the live points oldest first with opacity derived from a
// single reading of now, so every point in one draw fades consistently.
func (t *Trail) Faded(now time.Time) []FadedPoint {
	out := make([]FadedPoint, 0, len(t.points))
	w := float64(t.window)
	for _, p := range t.points {
		age := float64(now.Sub(p.At))
		if age >= w {
			continue
		}
		alpha := 1 - age/w
		if alpha > 1 {
			alpha = 1
		}
		out = append(out, FadedPoint{X: p.X, Y: p.Y, Alpha: alpha})
	}
	return out
}

// Points returns a copy of the stored points oldest first.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, len(t.points))
	copy(out, t.points)
	return out
}

func (t *Trail) Clear() {
	clear(t.points)
	t.points = t.points[:0]
}
