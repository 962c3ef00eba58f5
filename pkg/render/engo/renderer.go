// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/physics"
)

// tugThickness is the drawn width of a tug line in world units
const tugThickness = 2

var (
	bodyColor = color.RGBA{90, 110, 140, 255}
	ropeColor = color.RGBA{160, 120, 60, 255}
	liveColor = color.RGBA{220, 40, 40, 255}
)

// shapeSink receives newly created shapes. *common.RenderSystem satisfies it.
type shapeSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
}

// shape is a rectangle entity owned by the renderer
type shape struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// SceneRenderer implements render.Renderer by positioning a pool of
// rectangle entities. Entities are created on demand and hidden when a
// frame does not need them, so the ECS world never shrinks.
type SceneRenderer struct {
	sink   shapeSink
	shapes []*shape
	used   int
}

// NewSceneRenderer creates a renderer that adds its shapes to sink.
func NewSceneRenderer(sink shapeSink) *SceneRenderer {
	return &SceneRenderer{sink: sink}
}

// Clear implements render.Renderer
func (r *SceneRenderer) Clear() {
	r.used = 0
}

// RenderBody implements render.Renderer
func (r *SceneRenderer) RenderBody(body engine.BodyView) {
	r.place(body.Pose.Position, body.Extent, body.Pose.Angle, bodyColor)
	for _, tug := range body.Tugs {
		c := ropeColor
		if tug.Live {
			c = liveColor
		}
		centre, extent, angle := segment(tug.Anchor, tug.Target)
		r.place(centre, extent, angle, c)
	}
}

// Present implements render.Renderer
func (r *SceneRenderer) Present() {
	for _, s := range r.shapes[r.used:] {
		s.Hidden = true
	}
}

// Visible returns the number of shapes drawn by the last frame.
func (r *SceneRenderer) Visible() int {
	return r.used
}

func (r *SceneRenderer) place(centre, extent physics.Vector2D, angle float64, c color.Color) {
	if r.used == len(r.shapes) {
		s := &shape{BasicEntity: ecs.NewBasic()}
		s.Drawable = common.Rectangle{}
		r.shapes = append(r.shapes, s)
		r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	s := r.shapes[r.used]
	r.used++

	s.Hidden = false
	s.Color = c
	s.Position, s.Rotation = placement(centre, extent, angle)
	s.Width = float32(extent.X)
	s.Height = float32(extent.Y)
}

// placement converts a centred, rotated rectangle to engo's convention of a
// top-left corner plus a rotation in degrees about that corner.
func placement(centre, extent physics.Vector2D, angle float64) (engo.Point, float32) {
	corner := centre.Add(physics.Vector2D{X: -extent.X / 2, Y: -extent.Y / 2}.Rotate(angle))
	return engo.Point{X: float32(corner.X), Y: float32(corner.Y)}, float32(angle * 180 / math.Pi)
}

// segment returns the rectangle covering the line from a to b
func segment(a, b physics.Vector2D) (physics.Vector2D, physics.Vector2D, float64) {
	d := b.Sub(a)
	return a.Add(d.Scale(0.5)), physics.Vector2D{X: d.Length(), Y: tugThickness}, d.Angle()
}
