package analysis

import (
	"fmt"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// GeneratePhasePortrait runs a simulation and records phase space trajectory
func GeneratePhasePortrait(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	xIdx, yIdx int,
	dt, duration float64,
) (*PhasePortrait2D, error) {
	if xIdx < 0 || yIdx < 0 || xIdx >= len(x0) || yIdx >= len(x0) {
		return nil, fmt.Errorf("%w: indices %d,%d for state of length %d", dynamo.ErrDimensionMismatch, xIdx, yIdx, len(x0))
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, int(duration/dt)+1),
	}

	x := x0.Clone()
	t := 0.0
	for t < duration {
		x = integ.Step(dyn, x, t, dt)
		t += dt
		if !x.IsValid() {
			return portrait, &dynamo.SimulationError{Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}
		portrait.Points = append(portrait.Points, Point{X: x[xIdx], Y: x[yIdx]})
	}

	return portrait, nil
}

// PhasePortraitToASCII plots the portrait with 10% margins and draws the
// axes where they fall inside the plot.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	xs, ys := spanAt(portrait.Points[0].X), spanAt(portrait.Points[0].Y)
	for _, p := range portrait.Points {
		xs.include(p.X)
		ys.include(p.Y)
	}
	xs, ys = xs.pad(0.1), ys.pad(0.1)

	g := newGrid(width, height)
	for _, p := range portrait.Points {
		col, okX := xs.cell(p.X, width)
		row, okY := ys.cell(p.Y, height)
		if okX && okY {
			g.set(col, row, dot)
		}
	}

	if xs.contains(0) {
		col, _ := xs.cell(0, width)
		for row := 0; row < height; row++ {
			g.under(col, row, '│')
		}
	}
	if ys.contains(0) {
		row, _ := ys.cell(0, height)
		for col := 0; col < width; col++ {
			g.under(col, row, '─')
		}
	}
	return g.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Points []Point
}

// GeneratePoincareSection records (x[recordX], x[recordY]) each time
// x[crossIdx] crosses threshold upwards, linearly interpolated to the
// crossing.
func GeneratePoincareSection(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	crossIdx int,
	threshold float64,
	recordX, recordY int,
	dt, duration float64,
) (*PoincareSection, error) {
	n := len(x0)
	for _, idx := range []int{crossIdx, recordX, recordY} {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d for state of length %d", dynamo.ErrDimensionMismatch, idx, n)
		}
	}

	section := &PoincareSection{}
	x := x0.Clone()
	t := 0.0

	for t < duration {
		prev := x
		x = integ.Step(dyn, x, t, dt)
		t += dt
		if !x.IsValid() {
			return section, &dynamo.SimulationError{Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}

		before, after := prev[crossIdx], x[crossIdx]
		if before < threshold && after >= threshold {
			frac := (threshold - before) / (after - before)
			section.Points = append(section.Points, Point{
				X: prev[recordX] + frac*(x[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(x[recordY]-prev[recordY]),
			})
		}
	}

	return section, nil
}

// PoincareSectionToASCII plots the crossings like a phase portrait.
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
