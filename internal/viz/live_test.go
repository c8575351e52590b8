package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pendulab/internal/loop"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/session"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func newTestModel(t *testing.T) (Model, *loop.ManualClock) {
	t.Helper()
	opts := session.DefaultOptions()
	opts.Pivot = physics.Point{X: 400, Y: 300}
	sess, err := session.New(opts)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	clock := loop.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	m := NewModel(sess, Options{Clock: clock, Source: constSource(0.75)})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), clock
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelResize(t *testing.T) {
	m, _ := newTestModel(t)
	if m.canvas.Width != 120-statsWidth-1-2*canvasLeft || m.canvas.Height != 40-2*canvasTop {
		t.Errorf("canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	m, _ = send(m, tea.WindowSizeMsg{Width: 10, Height: 4})
	if m.canvas.Width != minCols || m.canvas.Height != minRows {
		t.Errorf("small terminal canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelTickAdvances(t *testing.T) {
	m, clock := newTestModel(t)
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second / 60)
		var cmd tea.Cmd
		m, cmd = send(m, TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	sess := m.Session()
	// the first frame only primes the loop
	if sess.Steps() != 10 || math.Abs(sess.Elapsed()-9.0/60) > 1e-6 {
		t.Errorf("steps=%d elapsed=%v", sess.Steps(), sess.Elapsed())
	}
	if sess.State() == physics.InitialState() {
		t.Error("state did not move")
	}
	if !m.now.Equal(clock.Now()) {
		t.Error("model time not synced to clock")
	}
}

func TestModelKeys(t *testing.T) {
	m, _ := newTestModel(t)
	sess := m.Session()

	m, _ = send(m, key(" "))
	if sess.Running() {
		t.Error("space should pause")
	}
	m, _ = send(m, key("d"))
	if !sess.Params().DampingEnabled {
		t.Error("d should enable damping")
	}
	m, _ = send(m, key("t"))
	m, _ = send(m, key("e"))
	if sess.ShowTrails() || sess.ShowEnergy() {
		t.Error("t/e should hide trails and energy")
	}

	m, _ = send(m, key("tab"))
	m, _ = send(m, key("up"))
	if got := sess.Params().Length2; got != physics.DefaultLength+10 {
		t.Errorf("length2 = %v", got)
	}
	m, _ = send(m, key("down"))
	m, _ = send(m, key("down"))
	if got := sess.Params().Length2; got != physics.DefaultLength-10 {
		t.Errorf("length2 = %v", got)
	}

	m, _ = send(m, key("n"))
	want := math.Pi/2 + 0.025
	if s := sess.State(); math.Abs(s.Angle1-want) > 1e-12 || math.Abs(s.Angle2-want) > 1e-12 {
		t.Errorf("randomized state %+v", s)
	}

	m, _ = send(m, key("c"))
	if m.theme.Name == ThemeNeon.Name {
		t.Error("c should cycle theme")
	}

	_, cmd := send(m, key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelNudgeClamps(t *testing.T) {
	m, _ := newTestModel(t)
	// mass1 is selected after two tabs; 50 is the top of its range
	m, _ = send(m, key("tab"))
	m, _ = send(m, key("tab"))
	for i := 0; i < 60; i++ {
		m, _ = send(m, key("up"))
	}
	if got := m.Session().Params().Mass1; got != 50 {
		t.Errorf("mass1 = %v, want clamped to 50", got)
	}
}

func TestModelMouseDrag(t *testing.T) {
	m, clock := newTestModel(t)
	sess := m.Session()
	vp := m.viewport()
	j := physics.Positions(sess.State(), sess.Params(), sess.Pivot())

	col, row := vp.Cell(j.Mass2())
	m, _ = send(m, tea.MouseMsg{X: col, Y: row, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if sess.Dragging() != session.TargetMass2 {
		t.Fatalf("dragging %v, want mass2", sess.Dragging())
	}
	if sess.Running() {
		t.Error("drag should pause")
	}

	// straight below mass1
	below := j.Mass1()
	below.Y += 150
	col, row = vp.Cell(below)
	m, _ = send(m, tea.MouseMsg{X: col, Y: row, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	if s := sess.State(); math.Abs(s.Angle2) > 0.2 || s.Velocity1 != 0 || s.Velocity2 != 0 {
		t.Errorf("after drag state %+v", s)
	}

	clock.Advance(time.Second)
	m, _ = send(m, TickMsg{})
	if sess.Steps() != 0 {
		t.Error("no steps while dragging")
	}

	m, _ = send(m, tea.MouseMsg{X: col, Y: row, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if sess.Dragging() != session.TargetNone || !sess.Running() {
		t.Error("release should end the drag and resume")
	}
}

func TestModelBlurEndsDrag(t *testing.T) {
	m, _ := newTestModel(t)
	sess := m.Session()
	vp := m.viewport()
	col, row := vp.Cell(physics.Positions(sess.State(), sess.Params(), sess.Pivot()).Mass1())

	m, _ = send(m, tea.MouseMsg{X: col, Y: row, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if sess.Dragging() != session.TargetMass1 {
		t.Fatalf("dragging %v, want mass1", sess.Dragging())
	}
	send(m, tea.BlurMsg{})
	if sess.Dragging() != session.TargetNone {
		t.Error("blur should release the drag")
	}
}

func TestModelView(t *testing.T) {
	m, clock := newTestModel(t)
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second / 60)
		m, _ = send(m, TickMsg{})
	}
	view := m.View()
	for _, want := range []string{"RUNNING", "PARAMETERS", "length1", "Energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}
