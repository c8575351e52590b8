package physics

import "math"

// Point is a screen-space position in pixels; y grows downward.
type Point struct {
	X, Y float64
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Joints holds the rendered positions of both masses.
type Joints struct {
	X1, Y1 float64
	X2, Y2 float64
}

func (j Joints) Mass1() Point { return Point{j.X1, j.Y1} }
func (j Joints) Mass2() Point { return Point{j.X2, j.Y2} }

// Positions maps angles to pixel coordinates around pivot. Angle2 is
// absolute, not relative to the first link.
func Positions(s State, p Params, pivot Point) Joints {
	x1 := pivot.X + p.Length1*math.Sin(s.Angle1)
	y1 := pivot.Y + p.Length1*math.Cos(s.Angle1)
	return Joints{
		X1: x1,
		Y1: y1,
		X2: x1 + p.Length2*math.Sin(s.Angle2),
		Y2: y1 + p.Length2*math.Cos(s.Angle2),
	}
}

// AngleTo is the link angle that points from at towards target, using the
// same convention as Positions: straight down is 0, straight right is π/2.
func AngleTo(from, target Point) float64 {
	return math.Atan2(target.X-from.X, target.Y-from.Y)
}
