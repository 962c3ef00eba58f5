package render

import (
	"context"

	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/logging"
	"github.com/opd-ai/torque2d/pkg/physics"
)

// Renderer draws body snapshots. Clear starts a frame and Present ends it.
type Renderer interface {
	Clear()
	RenderBody(body engine.BodyView)
	Present()
}

// Controller receives the input a frontend collects.
// *engine.Simulation implements it.
type Controller interface {
	OnPointerActivate(p physics.Vector2D)
	OnPointerMove(p physics.Vector2D)
	OnPointerRelease()
	OnCommand(name string) error
}

// KeyCommands maps keys to the simulation commands they trigger in every
// interactive frontend.
var KeyCommands = map[rune]string{
	'm': engine.CommandMirror,
	'r': engine.CommandRopes,
	'g': engine.CommandGravity,
	' ': engine.CommandReset,
}

// Frame draws one complete frame of views with r.
func Frame(r Renderer, views []engine.BodyView) {
	r.Clear()
	for _, v := range views {
		r.RenderBody(v)
	}
	r.Present()
}

// NullRenderer logs every call at debug level and draws nothing.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(body engine.BodyView) {
	d.logger.Debug(context.Background(), "body",
		"frame", d.frames,
		"body", body.Index,
		"x", body.Pose.Position.X,
		"y", body.Pose.Position.Y,
		"angle", body.Pose.Angle,
		"tugs", len(body.Tugs),
	)
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.frames++
}

// Frames returns the number of frames presented.
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}
