package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/physics"
)

// Glyphs drawn by the terminal renderer.
const (
	bodyGlyph   = '█'
	ropeGlyph   = '·'
	liveGlyph   = '*'
	anchorGlyph = 'o'
)

// TerminalRenderer draws bodies as filled cells on a tcell screen. The world
// rectangle [0,width]x[0,height] is stretched over the whole screen.
type TerminalRenderer struct {
	screen tcell.Screen
	world  physics.Vector2D

	bodyStyle   tcell.Style
	ropeStyle   tcell.Style
	liveStyle   tcell.Style
	anchorStyle tcell.Style
}

// NewTerminalRenderer creates a renderer for an initialised screen.
func NewTerminalRenderer(screen tcell.Screen, worldWidth, worldHeight float64) *TerminalRenderer {
	return &TerminalRenderer{
		screen:      screen,
		world:       physics.Vector2D{X: worldWidth, Y: worldHeight},
		bodyStyle:   tcell.StyleDefault.Foreground(tcell.ColorWhite),
		ropeStyle:   tcell.StyleDefault.Foreground(tcell.ColorYellow),
		liveStyle:   tcell.StyleDefault.Foreground(tcell.ColorRed),
		anchorStyle: tcell.StyleDefault.Foreground(tcell.ColorGreen),
	}
}

// cellSize returns the world size of one screen cell
func (r *TerminalRenderer) cellSize() (float64, float64) {
	cols, rows := r.screen.Size()
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	return r.world.X / float64(cols), r.world.Y / float64(rows)
}

// worldToScreen converts world coordinates to a screen cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	sx, sy := r.cellSize()
	if sx == 0 || sy == 0 {
		return -1, -1
	}
	return int(math.Floor(pos.X / sx)), int(math.Floor(pos.Y / sy))
}

// ScreenToWorld returns the world coordinates of the centre of a cell.
func (r *TerminalRenderer) ScreenToWorld(x, y int) physics.Vector2D {
	sx, sy := r.cellSize()
	return physics.Vector2D{X: (float64(x) + 0.5) * sx, Y: (float64(y) + 0.5) * sy}
}

func (r *TerminalRenderer) inBounds(x, y int) bool {
	cols, rows := r.screen.Size()
	return x >= 0 && x < cols && y >= 0 && y < rows
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// RenderBody implements Renderer
func (r *TerminalRenderer) RenderBody(body engine.BodyView) {
	r.fillBody(body)
	for _, tug := range body.Tugs {
		style, glyph := r.ropeStyle, ropeGlyph
		if tug.Live {
			style, glyph = r.liveStyle, liveGlyph
		}
		r.drawSegment(tug.Anchor, tug.Target, glyph, style)
		if x, y := r.worldToScreen(tug.Anchor); r.inBounds(x, y) {
			r.screen.SetContent(x, y, anchorGlyph, nil, r.anchorStyle)
		}
	}
}

// fillBody marks every cell whose centre lies inside the rotated rectangle
func (r *TerminalRenderer) fillBody(body engine.BodyView) {
	half := body.Extent.Scale(0.5)
	reach := half.Length()
	minX, minY := r.worldToScreen(body.Pose.Position.Sub(physics.Vector2D{X: reach, Y: reach}))
	maxX, maxY := r.worldToScreen(body.Pose.Position.Add(physics.Vector2D{X: reach, Y: reach}))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !r.inBounds(x, y) {
				continue
			}
			local := r.ScreenToWorld(x, y).Sub(body.Pose.Position).Rotate(-body.Pose.Angle)
			if math.Abs(local.X) <= half.X && math.Abs(local.Y) <= half.Y {
				r.screen.SetContent(x, y, bodyGlyph, nil, r.bodyStyle)
			}
		}
	}
}

// drawSegment walks the cells between two world points
func (r *TerminalRenderer) drawSegment(from, to physics.Vector2D, glyph rune, style tcell.Style) {
	x0, y0 := r.worldToScreen(from)
	x1, y1 := r.worldToScreen(to)
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		if r.inBounds(x, y) {
			r.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
