// cmd/torque/app.go
package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/opd-ai/torque2d/pkg/config"
	"github.com/opd-ai/torque2d/pkg/engine"
	"github.com/opd-ai/torque2d/pkg/event"
	"github.com/opd-ai/torque2d/pkg/logging"
)

// app holds what every frontend shares: the scene source and the logger.
type app struct {
	path   string
	logger *logging.Logger
	ctx    context.Context
}

// loadScene reads the scene file, falling back to the default scene when it
// does not exist. With create set the default scene is also written to path
// so that it can be edited while watched.
func (a *app) loadScene(create bool) (*config.SceneConfig, error) {
	cfg, err := config.LoadConfig(a.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.logger.Info(a.ctx, "Scene file not found, using default scene", "path", a.path)
		cfg = config.DefaultConfig()
		if create {
			if err := config.SaveConfig(cfg, a.path); err != nil {
				return nil, err
			}
			a.logger.Info(a.ctx, "Created default scene file", "path", a.path)
		}
	case err != nil:
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, logging.WrapError(err, "apply environment")
	}
	return cfg, nil
}

// newSimulation builds a simulation for cfg with its own event bus whose
// events are logged.
func (a *app) newSimulation(cfg *config.SceneConfig) (*engine.Simulation, error) {
	bodies, err := cfg.BuildBodies()
	if err != nil {
		return nil, err
	}
	bus := event.NewEventBus()
	a.logEvents(bus)
	return engine.NewSimulation(bodies,
		engine.WithGravity(cfg.Gravity),
		engine.WithEventBus(bus),
		engine.WithLogger(a.logger.Component("simulation")),
		engine.WithContext(a.ctx),
	)
}

// reload loads the scene again and returns a fresh simulation with the
// scene it was built from. The reload is published on the new
// simulation's bus before anyone else sees it.
func (a *app) reload() (*engine.Simulation, *config.SceneConfig, error) {
	cfg, err := a.loadScene(false)
	if err != nil {
		return nil, nil, err
	}
	sim, err := a.newSimulation(cfg)
	if err != nil {
		return nil, nil, err
	}
	sim.EventBus().Publish(event.NewReloadEvent(a, a.path, sim.Len()))
	return sim, cfg, nil
}

// watch starts a scene file watcher, or returns nil when the file cannot be
// watched.
func (a *app) watch() *config.Watcher {
	w, err := config.NewWatcher(a.path)
	if err != nil {
		a.logger.Warn(a.ctx, "Scene hot reload disabled", "path", a.path, "error", err.Error())
		return nil
	}
	a.logger.Info(a.ctx, "Watching scene file", "path", a.path)
	return w
}

func (a *app) logEvents(bus *event.Bus) {
	logger := a.logger.Component("events")
	bus.Subscribe(event.TugAttached, func(e event.Event) {
		if te, ok := e.(*event.TugEvent); ok {
			logger.Debug(a.ctx, "Tug attached", "body", te.BodyIndex, "x", te.AnchorX, "y", te.AnchorY)
		}
	})
	bus.Subscribe(event.TugReleased, func(e event.Event) {
		if te, ok := e.(*event.TugEvent); ok {
			logger.Debug(a.ctx, "Tug released", "body", te.BodyIndex, "x", te.AnchorX, "y", te.AnchorY)
		}
	})
	bus.Subscribe(event.CommandApplied, func(e event.Event) {
		if ce, ok := e.(*event.CommandEvent); ok {
			logger.Info(a.ctx, "Command applied", "command", ce.Command, "tick", ce.Tick)
		}
	})
	bus.Subscribe(event.SceneReloaded, func(e event.Event) {
		if re, ok := e.(*event.ReloadEvent); ok {
			logger.Info(a.ctx, "Scene reloaded", "path", re.Path, "bodies", re.Bodies)
		}
	})
}
