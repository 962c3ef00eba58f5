// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/physics"
	"github.com/opd-ai/torque2d/pkg/render"
)

const quitButton = "quit"

// commandKeys binds engo keys to simulation commands. It mirrors
// render.KeyCommands for the keyboard engo exposes.
var commandKeys = map[string]engo.Key{
	engine.CommandMirror:  engo.KeyM,
	engine.CommandRopes:   engo.KeyR,
	engine.CommandGravity: engo.KeyG,
	engine.CommandReset:   engo.KeySpace,
}

// SetupInputBindings registers the command and quit buttons with engo.
func SetupInputBindings() {
	for name, key := range commandKeys {
		engo.Input.RegisterButton(name, key)
	}
	engo.Input.RegisterButton(quitButton, engo.KeyEscape, engo.KeyQ)
}

// InputSystem forwards mouse and keyboard input to the scene's simulation.
type InputSystem struct {
	scene   *Scene
	pressed bool
}

// NewInputSystem creates an input system for scene.
func NewInputSystem(scene *Scene) *InputSystem {
	return &InputSystem{scene: scene}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads engo's input state once per frame.
func (is *InputSystem) Update(dt float32) {
	sim := is.scene.Simulation()
	m := engo.Input.Mouse
	is.handleMouse(m.Action, m.Button, physics.Vector2D{X: float64(m.X), Y: float64(m.Y)}, sim)

	for name := range commandKeys {
		if !engo.Input.Button(name).JustPressed() {
			continue
		}
		if err := sim.OnCommand(name); err != nil {
			is.scene.logger.Error(context.Background(), "command rejected", err, "command", name)
		}
	}
	if engo.Input.Button(quitButton).JustPressed() {
		engo.Exit()
	}
}

// handleMouse maps a single engo mouse action to the controller. Only the
// left button grabs; a release of any button ends a grab in progress.
func (is *InputSystem) handleMouse(action engo.Action, button engo.MouseButton, p physics.Vector2D, c render.Controller) {
	switch action {
	case engo.Press:
		if button == engo.MouseButtonLeft {
			c.OnPointerActivate(p)
			is.pressed = true
		}
	case engo.Move:
		if is.pressed {
			c.OnPointerMove(p)
		}
	case engo.Release:
		if is.pressed {
			c.OnPointerRelease()
			is.pressed = false
		}
	}
}
