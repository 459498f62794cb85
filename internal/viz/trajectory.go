package viz

import (
	"math"

	"github.com/san-kum/projsim/internal/dynamo"
)

// Bounds is a world-space rectangle in metres.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// TrajectoryBounds covers every sample plus the ground line, padded by 5%.
func TrajectoryBounds(states []dynamo.State) Bounds {
	b := Bounds{}
	for _, s := range states {
		b.MinX, b.MaxX = math.Min(b.MinX, s.X), math.Max(b.MaxX, s.X)
		b.MinY, b.MaxY = math.Min(b.MinY, s.Y), math.Max(b.MaxY, s.Y)
	}
	if b.MaxX-b.MinX == 0 {
		b.MaxX = b.MinX + 1
	}
	if b.MaxY-b.MinY == 0 {
		b.MaxY = b.MinY + 1
	}
	padX := (b.MaxX - b.MinX) * 0.05
	padY := (b.MaxY - b.MinY) * 0.05
	return Bounds{b.MinX - padX, b.MaxX + padX, b.MinY, b.MaxY + padY}
}

// Extend grows b to include (x, y).
func (b Bounds) Extend(x, y float64) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, x), MaxX: math.Max(b.MaxX, x),
		MinY: math.Min(b.MinY, y), MaxY: math.Max(b.MaxY, y),
	}
}

// Project maps a world point to canvas sub-pixels, y up.
func (b Bounds) Project(c *Canvas, x, y float64) (int, int) {
	pw, ph := c.PixelSize()
	px := (x - b.MinX) / (b.MaxX - b.MinX) * float64(pw-1)
	py := float64(ph-1) - (y-b.MinY)/(b.MaxY-b.MinY)*float64(ph-1)
	return int(math.Round(px)), int(math.Round(py))
}

// DrawTrajectory connects consecutive samples and draws the ground line
// when it is in view.
func DrawTrajectory(c *Canvas, b Bounds, states []dynamo.State) {
	if b.MinY <= 0 && b.MaxY >= 0 {
		x0, gy := b.Project(c, b.MinX, 0)
		x1, _ := b.Project(c, b.MaxX, 0)
		for x := x0; x <= x1; x += 2 {
			c.Set(x, gy)
		}
	}
	for i := 1; i < len(states); i++ {
		x0, y0 := b.Project(c, states[i-1].X, states[i-1].Y)
		x1, y1 := b.Project(c, states[i].X, states[i].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(states) == 1 {
		c.Set(b.Project(c, states[0].X, states[0].Y))
	}
}

// TrajectoryCanvas renders the x/y path of states on a w x h cell canvas.
func TrajectoryCanvas(states []dynamo.State, w, h int) *Canvas {
	c := NewCanvas(w, h)
	if len(states) == 0 {
		return c
	}
	DrawTrajectory(c, TrajectoryBounds(states), states)
	return c
}
