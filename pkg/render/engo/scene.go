// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/logging"
	"github.com/opd-ai/torque2d/pkg/render"
)

// Scene runs a simulation inside an engo window. The world coordinates of
// the simulation are used as game coordinates unchanged.
type Scene struct {
	sim     *engine.Simulation
	clock   *engine.Clock
	logger  *logging.Logger
	replace chan replacement

	renderer *SceneRenderer
}

// NewScene creates a scene that advances sim with clock.
func NewScene(sim *engine.Simulation, clock *engine.Clock, logger *logging.Logger) *Scene {
	return &Scene{
		sim:     sim,
		clock:   clock,
		logger:  logger.Component("engo"),
		replace: make(chan replacement, 1),
	}
}

// Type returns the scene type (required by Engo)
func (scene *Scene) Type() string {
	return "TorqueScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *Scene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *Scene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.White)

	rs := &common.RenderSystem{}
	world.AddSystem(rs)
	scene.renderer = NewSceneRenderer(rs)

	SetupInputBindings()
	world.AddSystem(NewInputSystem(scene))
	world.AddSystem(&StepSystem{scene: scene})
}

// Exit is called when the window closes (required by Engo)
func (scene *Scene) Exit() {
	scene.logger.Info(context.Background(), "window closed", "tick", scene.sim.CurrentTick())
}

// Simulation returns the simulation currently shown.
func (scene *Scene) Simulation() *engine.Simulation {
	return scene.sim
}

// replacement is a simulation waiting to take over, with its clock
type replacement struct {
	sim   *engine.Simulation
	clock *engine.Clock
}

// Replace schedules sim, advanced by clock, to take over at the start of
// the next frame. It is safe to call from any goroutine; a later call
// supersedes a pending one.
func (scene *Scene) Replace(sim *engine.Simulation, clock *engine.Clock) {
	next := replacement{sim: sim, clock: clock}
	for {
		select {
		case scene.replace <- next:
			return
		default:
		}
		select {
		case <-scene.replace:
		default:
		}
	}
}

// swap installs a pending replacement, if any
func (scene *Scene) swap() {
	select {
	case next := <-scene.replace:
		scene.sim, scene.clock = next.sim, next.clock
		scene.logger.Info(context.Background(), "simulation replaced", "bodies", next.sim.Len())
	default:
	}
}

// StepSystem advances the simulation by the ticks the clock owes and
// redraws the scene.
type StepSystem struct {
	scene *Scene
}

// Remove satisfies the ecs.System interface
func (s *StepSystem) Remove(basic ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *StepSystem) Update(dt float32) {
	s.scene.swap()
	for n := s.scene.clock.Advance(float64(dt)); n > 0; n-- {
		s.scene.sim.Tick()
	}
	if s.scene.renderer != nil {
		render.Frame(s.scene.renderer, s.scene.sim.Views())
	}
}
