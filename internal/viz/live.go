package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/history"
	"github.com/san-kum/pendulab/internal/loop"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/session"
)

const (
	fps        = 60
	statsWidth = 46
	minCols    = 20
	minRows    = 8

	// canvasStyle padding
	canvasLeft = 2
	canvasTop  = 1
)

type TickMsg time.Time

type Options struct {
	Clock  loop.Clock
	Theme  Theme
	Source session.Source
	MaxDt  float64
	Logger *zap.Logger
}

// Model is a thin bubbletea front-end over a session. Each tick runs one
// loop frame; the view is drawn from a snapshot taken at the tick instant.
type Model struct {
	sess  *session.Session
	loop  *loop.Loop
	clock loop.Clock
	src   session.Source
	log   *zap.Logger
	theme Theme

	width, height int
	canvas        *Canvas
	now           time.Time

	gauge              harmonica.Spring
	gaugePos, gaugeVel float64

	selected int
	showHelp bool
	notice   string
}

func NewModel(sess *session.Session, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = loop.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Source == nil {
		opts.Source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Theme.Name == "" {
		opts.Theme = ThemeNeon
	}
	if opts.MaxDt <= 0 {
		opts.MaxDt = session.MaxDt
	}

	m := Model{
		sess:     sess,
		loop:     loop.New(sess, opts.Clock, opts.MaxDt, opts.Logger),
		clock:    opts.Clock,
		src:      opts.Source,
		log:      opts.Logger,
		theme:    opts.Theme,
		gauge:    harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		gaugePos: 100,
		now:      opts.Clock.Now(),
	}
	m.resize(80, 24)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Session() *session.Session { return m.sess }

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(minCols, w-statsWidth-1-2*canvasLeft)
	rows := max(minRows, h-2*canvasTop)
	m.canvas = NewCanvas(cols, rows)
}

// viewport is recomputed per use since the fitted scale follows the
// current link lengths.
func (m Model) viewport() Viewport {
	p := m.sess.Params()
	return NewViewport(canvasLeft, canvasTop, m.canvas.Width, m.canvas.Height, m.sess.Pivot(), p.Length1+p.Length2)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.BlurMsg:
		m.sess.PointerLeave()
	case TickMsg:
		if err := m.loop.Frame(); err != nil {
			m.notice = err.Error()
		}
		m.now = m.clock.Now()
		m.stepGauge()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	var err error
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		_, err = m.sess.Toggle()
	case "r":
		m.sess.Reset()
	case "n":
		err = m.sess.Randomize(m.src)
	case "d":
		m.sess.SetDampingEnabled(!m.sess.Params().DampingEnabled)
	case "t":
		m.sess.SetShowTrails(!m.sess.ShowTrails())
	case "e":
		m.sess.SetShowEnergy(!m.sess.ShowEnergy())
	case "tab":
		m.selected = (m.selected + 1) % len(physics.ParamNames)
	case "shift+tab":
		m.selected = (m.selected + len(physics.ParamNames) - 1) % len(physics.ParamNames)
	case "up", "k":
		err = m.sess.NudgeParam(physics.ParamNames[m.selected], 1)
	case "down", "j":
		err = m.sess.NudgeParam(physics.ParamNames[m.selected], -1)
	case "c":
		m.theme = NextTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	if err != nil {
		m.notice = err.Error()
		m.log.Debug("control rejected", zap.String("key", msg.String()), zap.Error(err))
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	vp := m.viewport()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !vp.Contains(msg.X, msg.Y) {
			return
		}
		joints := physics.Positions(m.sess.State(), m.sess.Params(), m.sess.Pivot())
		m.sess.PointerDown(vp.Snap(msg.X, msg.Y, joints))
	case tea.MouseActionMotion:
		if m.sess.Dragging() != session.TargetNone {
			m.sess.PointerMove(vp.ToSim(msg.X, msg.Y))
		}
	case tea.MouseActionRelease:
		m.sess.PointerUp()
	}
}

func (m *Model) stepGauge() {
	target := m.gaugePos
	if pct, ok := m.sess.Conservation(); ok {
		target = math.Max(0, math.Min(100, pct))
	}
	m.gaugePos, m.gaugeVel = m.gauge.Update(m.gaugePos, m.gaugeVel, target)
}

func (m Model) draw(snap session.Snapshot) {
	vp := m.viewport()
	c := m.canvas
	c.Clear()

	if snap.ShowTrails {
		drawTrail(c, vp, snap.Trail1, toneTrail1)
		drawTrail(c, vp, snap.Trail2, toneTrail2)
	}

	px, py := vp.ToSub(snap.Pivot)
	x1, y1 := vp.ToSub(snap.Joints.Mass1())
	x2, y2 := vp.ToSub(snap.Joints.Mass2())
	c.DrawLine(px, py, x1, y1, toneRod)
	c.DrawLine(x1, y1, x2, y2, toneRod)
	c.Disc(px, py, 1, toneRod)

	for _, b := range []struct {
		x, y   int
		mass   float64
		target session.Target
	}{
		{x1, y1, snap.Params.Mass1, session.TargetMass1},
		{x2, y2, snap.Params.Mass2, session.TargetMass2},
	} {
		tone := toneMass
		if snap.Dragging == b.target {
			tone = toneDrag
		}
		r := int(math.Max(1, math.Round(math.Max(physics.MinHitRadius, b.mass)*vp.Scale)))
		c.Disc(b.x, b.y, r, tone)
	}
}

func drawTrail(c *Canvas, vp Viewport, pts []history.FadedPoint, base uint8) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := vp.ToSub(physics.Point{X: pts[i-1].X, Y: pts[i-1].Y})
		x1, y1 := vp.ToSub(physics.Point{X: pts[i].X, Y: pts[i].Y})
		c.DrawLine(x0, y0, x1, y1, trailTone(base, pts[i].Alpha))
	}
}

func (m Model) View() string {
	snap := m.sess.Snapshot(m.now)
	m.draw(snap)
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme.Palette()))
	stats := statsStyle.Render(m.stats(snap))
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func (m Model) stats(snap session.Snapshot) string {
	var s strings.Builder
	s.WriteString(GradientText("PENDULAB", m.theme.Arm2, m.theme.Arm1) + "\n")
	s.WriteString(statusLine(snap) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Steps", fmt.Sprintf("%d", snap.Steps))
	if n := len(snap.Energy); n > 0 {
		row("Energy", fmt.Sprintf("%.2f J", snap.Energy[n-1]))
	} else {
		row("Energy", "--")
	}
	switch {
	case snap.Params.DampingEnabled:
		row("Conserved", "damped")
	case snap.ConservationOK:
		row("Conserved", fmt.Sprintf("%.2f%%", snap.Conservation))
		s.WriteString(strings.Repeat(" ", 12) + ProgressBar(m.gaugePos/100, 20) + "\n")
	default:
		row("Conserved", "--")
	}

	if snap.ShowEnergy && len(snap.Energy) > 1 {
		chart := asciigraph.Plot(snap.Energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	values := snap.Params.GetParams()
	for i, name := range physics.ParamNames {
		r := physics.Ranges[name]
		line := fmt.Sprintf("%-8s %s %6.2f", name, RangeBar(values[name], r.Min, r.Max, 10), values[name])
		if name == physics.ParamDamping && !snap.Params.DampingEnabled {
			line += " off"
		}
		if i == m.selected {
			s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Bob).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Grab).Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Play R:Reset N:Random Q:Quit\nD:Damping T:Trails E:Energy\nTab ↑↓:Tune C:Theme ?:Help"))
	return s.String()
}

func statusLine(snap session.Snapshot) string {
	switch {
	case snap.Err != nil:
		return StatusHalted.Render("HALTED") + " " + snap.Err.Error()
	case snap.Dragging != session.TargetNone:
		return StatusPaused.Render("DRAGGING " + strings.ToUpper(snap.Dragging.String()))
	case snap.Running:
		return StatusRunning.Render("RUNNING")
	}
	return StatusPaused.Render("PAUSED")
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  R        - Reset to horizontal rest ║
║  N        - Randomize angles         ║
║  D        - Toggle damping           ║
║  T / E    - Toggle trails / energy   ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  C        - Cycle themes             ║
║  Mouse    - Drag either mass         ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
