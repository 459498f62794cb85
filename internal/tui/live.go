package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/viz"
)

const (
	liveWidth   = 70
	liveHeight  = 18
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the trajectory as samples are produced. It implements
// dynamo.Observer.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	lastFrame time.Time

	// Pace > 0 sleeps so that simulated time runs Pace times faster than
	// wall time.
	Pace float64

	started time.Time
	t0      float64
	trail   []dynamo.State
	bounds  viz.Bounds
}

func NewLiveRenderer(out io.Writer, title string, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		title:     title,
		frameRate: max(frameRate, 1),
		bounds:    viz.Bounds{MaxX: 1, MaxY: 1},
	}
}

func (r *LiveRenderer) OnStep(s dynamo.State) {
	if len(r.trail) == 0 {
		r.started = time.Now()
		r.t0 = s.T
	}
	r.trail = append(r.trail, s)
	r.bounds = r.bounds.Extend(s.X, s.Y)

	if r.Pace > 0 {
		due := r.started.Add(time.Duration((s.T - r.t0) / r.Pace * float64(time.Second)))
		if wait := time.Until(due); wait > 0 {
			time.Sleep(wait)
		}
	}

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render()
}

// Flush draws the final frame regardless of the frame rate.
func (r *LiveRenderer) Flush() {
	if len(r.trail) > 0 {
		r.render()
	}
}

func (r *LiveRenderer) render() {
	s := r.trail[len(r.trail)-1]
	canvas := viz.NewCanvas(liveWidth, liveHeight)
	viz.DrawTrajectory(canvas, r.bounds, r.trail)

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs\n", r.title, s.T)
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	for _, row := range canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	fmt.Fprintf(&b, "  x=%.2f y=%.2f vx=%.2f vy=%.2f %s\n", s.X, s.Y, s.Vx, s.Vy, s.Contact)

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
