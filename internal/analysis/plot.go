package analysis

import "strings"

const dot = '•'

// span is a closed value interval mapped onto a row or column of cells.
type span struct{ lo, hi float64 }

func spanAt(v float64) span { return span{v, v} }

func (s *span) include(v float64) { s.lo, s.hi = min(s.lo, v), max(s.hi, v) }

func (s span) contains(v float64) bool { return s.lo <= v && v <= s.hi }

// nonEmpty gives a degenerate span unit width.
func (s span) nonEmpty() span {
	if s.hi == s.lo {
		s.hi = s.lo + 1
	}
	return s
}

// pad widens s by frac of its width on both sides.
func (s span) pad(frac float64) span {
	w := s.hi - s.lo
	if w == 0 {
		w = 1
	}
	return span{s.lo - w*frac, s.hi + w*frac}
}

// cell maps v onto [0, n). ok is false when v falls outside.
func (s span) cell(v float64, n int) (i int, ok bool) {
	i = int((v - s.lo) / (s.hi - s.lo) * float64(n-1))
	return i, i >= 0 && i < n
}

// grid is a character plot with row 0 at the bottom.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g *grid) set(col, row int, r rune) {
	if col < 0 || col >= g.w || row < 0 || row >= g.h {
		return
	}
	g.cells[g.h-1-row][col] = r
}

// under draws r only on blank cells, so axes stay behind data.
func (g *grid) under(col, row int, r rune) {
	if col < 0 || col >= g.w || row < 0 || row >= g.h || g.cells[g.h-1-row][col] != ' ' {
		return
	}
	g.cells[g.h-1-row][col] = r
}

func (g *grid) String() string {
	var sb strings.Builder
	for _, row := range g.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
