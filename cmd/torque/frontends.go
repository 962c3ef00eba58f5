// cmd/torque/frontends.go
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/torque2d/pkg/config"
	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/render"
	engorender "github.com/opd-ai/torque2d/pkg/render/engo"
)

// runHeadless advances sim a fixed number of ticks, drawing each one with
// the logging renderer, and logs the final poses.
func runHeadless(a *app, sim *engine.Simulation, ticks int) {
	r := render.NewNullRenderer(a.logger.Component("headless"))
	for i := 0; i < ticks; i++ {
		sim.Tick()
		render.Frame(r, sim.Views())
	}
	for _, v := range sim.Views() {
		a.logger.Info(a.ctx, "Final pose",
			"body", v.Index,
			"x", v.Pose.Position.X,
			"y", v.Pose.Position.Y,
			"angle", v.Pose.Angle,
		)
	}
	a.logger.Info(a.ctx, "Headless run complete", "ticks", sim.CurrentTick(), "frames", r.Frames())
}

// runTerminal drives the simulation from a single loop that owns the
// screen, the simulation and its event bus.
func runTerminal(a *app, sim *engine.Simulation, cfg *config.SceneConfig, watch bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	r := render.NewTerminalRenderer(screen, float64(cfg.Window.Width), float64(cfg.Window.Height))
	input := render.NewTerminalInput(r)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	var (
		reloads   chan string
		watchErrs chan error
	)
	if watch {
		if w := a.watch(); w != nil {
			defer w.Close()
			reloads, watchErrs = w.Events, w.Errors
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(tickPeriod(cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			done, err := input.HandleEvent(ev, sim)
			if err != nil {
				a.logger.Warn(a.ctx, "Command rejected", "error", err.Error())
			}
			if done {
				return nil
			}
		case <-ticker.C:
			sim.Tick()
			render.Frame(r, sim.Views())
		case _, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			next, nextCfg, err := a.reload()
			if err != nil {
				a.logger.Error(a.ctx, "Scene reload failed", err, "path", a.path)
				continue
			}
			sim = next
			r = render.NewTerminalRenderer(screen, float64(nextCfg.Window.Width), float64(nextCfg.Window.Height))
			input = render.NewTerminalInput(r)
			ticker.Reset(tickPeriod(nextCfg.TickRate))
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			a.logger.Warn(a.ctx, "Scene watcher error", "error", err.Error())
		case <-sigChan:
			return nil
		}
	}
}

// runEngo opens a window and blocks until it closes. Reloads are handed to
// the scene, which swaps them in on its own goroutine.
func runEngo(a *app, sim *engine.Simulation, cfg *config.SceneConfig, fullscreen, watch bool) {
	scene := engorender.NewScene(sim, engine.NewClock(cfg.TickRate), a.logger)

	if watch {
		if w := a.watch(); w != nil {
			defer w.Close()
			go func() {
				for range w.Events {
					next, nextCfg, err := a.reload()
					if err != nil {
						a.logger.Error(a.ctx, "Scene reload failed", err, "path", a.path)
						continue
					}
					scene.Replace(next, engine.NewClock(nextCfg.TickRate))
				}
			}()
		}
	}

	opts := engo.RunOptions{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: fullscreen,
		VSync:      true,
	}
	engo.Run(opts, scene)
}

// tickPeriod is the wall-clock length of one tick at rate ticks per second
func tickPeriod(rate int) time.Duration {
	return time.Duration(engine.NewClock(rate).Step() * float64(time.Second))
}
