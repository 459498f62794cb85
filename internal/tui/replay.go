package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/viz"
)

const (
	frameInterval = 16 * time.Millisecond
	// a full replay at speed 1x takes about this many frames
	replayFrames = 300
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Replay steps through a finished trajectory. It never modifies the states
// it is given.
type Replay struct {
	title  string
	states []dynamo.State
	bounds viz.Bounds

	idx    int
	paused bool
	step   int // samples advanced per frame
	scrub  int // samples moved by [ and ]

	width  int
	height int
}

func NewReplay(title string, states []dynamo.State) Replay {
	step := max(1, len(states)/replayFrames)
	return Replay{
		title:  title,
		states: states,
		bounds: viz.TrajectoryBounds(states),
		step:   step,
		scrub:  max(1, len(states)/100),
		width:  80,
		height: 24,
	}
}

func (m Replay) Index() int    { return m.idx }
func (m Replay) Paused() bool  { return m.paused }
func (m Replay) Done() bool    { return len(m.states) == 0 || m.idx >= len(m.states)-1 }
func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Current() (dynamo.State, bool) {
	if len(m.states) == 0 {
		return dynamo.State{}, false
	}
	return m.states[m.idx], true
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && !m.Done() {
			m.seek(m.idx + m.step)
		}
		return m, tick()
	}
	return m, nil
}

func (m Replay) handleKey(msg tea.KeyMsg) (Replay, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "[":
		m.seek(m.idx - m.scrub)
	case "]":
		m.seek(m.idx + m.scrub)
	case "r":
		m.idx = 0
		m.paused = false
	case "+", "=":
		m.step = min(m.step*2, max(1, len(m.states)))
	case "-", "_":
		m.step = max(m.step/2, 1)
	}
	return m, nil
}

func (m *Replay) seek(i int) {
	m.idx = max(0, min(i, len(m.states)-1))
}

func (m Replay) View() string {
	var b strings.Builder

	status := viz.StatusRunning.Render("● playing")
	switch {
	case m.Done():
		status = viz.Subtle.Render("■ finished")
	case m.paused:
		status = viz.StatusPaused.Render("○ paused")
	}
	fmt.Fprintf(&b, "\n  %s  %s  %s\n", viz.Title.Render(m.title), status,
		viz.Subtle.Render(fmt.Sprintf("%dx", m.step)))

	s, ok := m.Current()
	if !ok {
		b.WriteString("\n  " + viz.Subtle.Render("no samples") + "\n")
		return b.String()
	}

	progress := 1.0
	if len(m.states) > 1 {
		progress = float64(m.idx) / float64(len(m.states)-1)
	}
	fmt.Fprintf(&b, "  %s %s\n\n", viz.ProgressBar(progress, 36),
		viz.Subtle.Render(fmt.Sprintf("%d/%d", m.idx+1, len(m.states))))

	cw := max(m.width-6, 20)
	ch := max(m.height-12, 6)
	canvas := viz.NewCanvas(cw, ch)
	viz.DrawTrajectory(canvas, m.bounds, m.states[:m.idx+1])
	px, py := m.bounds.Project(canvas, s.X, s.Y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			canvas.Set(px+dx, py+dy)
		}
	}
	for _, line := range strings.Split(strings.TrimRight(canvas.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n  " + viz.Metric("t", s.T, "s") + "   " + viz.Metric("speed", s.Speed, "m/s") + "\n")
	b.WriteString("  " + viz.Metric("x", s.X, "m") + "   " + viz.Metric("y", s.Y, "m") + "\n")
	b.WriteString("  " + viz.Metric("mass", s.Mass, "kg") + "   " + viz.MetricLabel.Render(s.Contact.String()) + "\n\n")
	b.WriteString("  " + viz.KeyHint.Render("space pause  [ ] scrub  +/- speed  r restart  q quit") + "\n")

	return b.String()
}

// RunReplay opens the replay full screen and blocks until the user quits.
func RunReplay(title string, states []dynamo.State) error {
	p := tea.NewProgram(NewReplay(title, states), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
