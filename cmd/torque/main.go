// cmd/torque/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/opd-ai/torque2d/pkg/logging"
)

func main() {
	configPath := flag.String("config", "scene.yaml", "Path to scene file (.json, .yaml, .yml or .toml)")
	renderer := flag.String("renderer", "engo", "Renderer type: 'engo', 'terminal' or 'headless'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (engo only)")
	width := flag.Int("width", 0, "Window width, 0 uses the scene's (engo only)")
	height := flag.Int("height", 0, "Window height, 0 uses the scene's (engo only)")
	ticks := flag.Int("ticks", 600, "Number of ticks to run (headless only)")
	watch := flag.Bool("watch", false, "Reload the scene when its file changes")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), logging.GenerateRunID())
	a := &app{path: *configPath, logger: logger, ctx: ctx}

	cfg, err := a.loadScene(*watch)
	if err != nil {
		logger.Error(ctx, "Failed to load scene", err, "path", *configPath)
		os.Exit(1)
	}
	sim, err := a.newSimulation(cfg)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err, "path", *configPath)
		os.Exit(1)
	}

	logger.Info(ctx, "Starting torque2d",
		"renderer", *renderer,
		"scene", cfg.Name,
		"bodies", sim.Len(),
		"tick_rate", cfg.TickRate,
	)

	switch *renderer {
	case "headless":
		runHeadless(a, sim, *ticks)
	case "terminal":
		err = runTerminal(a, sim, cfg, *watch)
	case "engo":
		if *width > 0 {
			cfg.Window.Width = *width
		}
		if *height > 0 {
			cfg.Window.Height = *height
		}
		runEngo(a, sim, cfg, *fullscreen, *watch)
	default:
		logger.Error(ctx, "Unknown renderer", nil, "renderer", *renderer)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(ctx, "Frontend failed", err, "renderer", *renderer)
		os.Exit(1)
	}
}
