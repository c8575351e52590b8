package viz

import (
	"math"

	"github.com/san-kum/pendulab/internal/physics"
)

// Viewport maps simulation pixels onto a canvas placed at (Left, Top)
// terminal cells. The pivot sits at the canvas centre and the scale fits the
// full reach of both links.
type Viewport struct {
	Left, Top  int
	Cols, Rows int
	Scale      float64 // sub-pixels per simulation pixel
	Pivot      physics.Point
}

const reachMargin = 1.08

func NewViewport(left, top, cols, rows int, pivot physics.Point, reach float64) Viewport {
	v := Viewport{Left: left, Top: top, Cols: max(cols, 1), Rows: max(rows, 1), Pivot: pivot}
	half := float64(min(v.Cols*2, v.Rows*4)) / 2
	if reach <= 0 {
		reach = 1
	}
	v.Scale = half / (reach * reachMargin)
	return v
}

func (v Viewport) center() (float64, float64) {
	return float64(v.Cols), float64(v.Rows * 2)
}

// ToSub projects a simulation point to canvas sub-pixels.
func (v Viewport) ToSub(p physics.Point) (int, int) {
	cx, cy := v.center()
	x := cx + (p.X-v.Pivot.X)*v.Scale
	y := cy + (p.Y-v.Pivot.Y)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// ToSim maps a terminal cell to the simulation point under its centre.
func (v Viewport) ToSim(col, row int) physics.Point {
	cx, cy := v.center()
	sx := float64((col-v.Left)*2) + 1
	sy := float64((row-v.Top)*4) + 2
	return physics.Point{
		X: v.Pivot.X + (sx-cx)/v.Scale,
		Y: v.Pivot.Y + (sy-cy)/v.Scale,
	}
}

// Cell returns the terminal cell containing a simulation point.
func (v Viewport) Cell(p physics.Point) (col, row int) {
	x, y := v.ToSub(p)
	return v.Left + floorDiv(x, 2), v.Top + floorDiv(y, 4)
}

func (v Viewport) Contains(col, row int) bool {
	return col >= v.Left && col < v.Left+v.Cols && row >= v.Top && row < v.Top+v.Rows
}

// Snap returns the mass position when the cell at (col, row) is the mass's
// own cell or a neighbour. Terminal cells are much coarser than the pick
// radius, so a press is matched by cell before falling back to ToSim.
func (v Viewport) Snap(col, row int, j physics.Joints) physics.Point {
	best, bestD := v.ToSim(col, row), math.MaxInt
	for _, m := range []physics.Point{j.Mass1(), j.Mass2()} {
		mc, mr := v.Cell(m)
		dc, dr := absInt(mc-col), absInt(mr-row)
		if dc > 1 || dr > 1 {
			continue
		}
		if d := dc + dr; d <= bestD {
			best, bestD = m, d
		}
	}
	return best
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
