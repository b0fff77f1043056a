package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/config"
	"github.com/iburimskiy/floating-particles/internal/game"
	"github.com/iburimskiy/floating-particles/internal/logger"
)

var (
	configPath  = flag.String("config", "", "YAML config file")
	watch       = flag.Bool("watch", true, "Reload the config file when it changes")
	count       = flag.Int("count", config.DefaultCount, "Number of particles")
	colorName   = flag.String("color", config.DefaultColor, "Particle color: blue, purple, pink, green, red, or any CSS color (#hex, name, rgb(), hsl())")
	connections = flag.Bool("connections", config.DefaultConnections, "Draw lines between nearby particles")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g, err := game.New(game.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Watch:      *watch,
		Logger:     log,
	})
	if err != nil {
		log.Fatal("start", zap.Error(err))
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game loop", zap.Error(err))
	}
}

// loadConfig reads the config file, if any, then applies flags the user set
// explicitly on top of it.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			cfg.Particles.Count = *count
		case "color":
			cfg.Particles.Color = *colorName
		case "connections":
			cfg.Particles.Connections = *connections
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	return cfg, cfg.Validate()
}
