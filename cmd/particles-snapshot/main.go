// Command particles-snapshot runs the particle animation headless and writes
// frames as PNG files.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/config"
	"github.com/iburimskiy/floating-particles/internal/engine"
	"github.com/iburimskiy/floating-particles/internal/frame"
	"github.com/iburimskiy/floating-particles/internal/logger"
	"github.com/iburimskiy/floating-particles/internal/render/ggcanvas"
	"github.com/iburimskiy/floating-particles/internal/surface"
)

type options struct {
	configPath string
	particles  config.Particles
	width      int
	height     int
	frames     int
	every      int
	seed       int64
	out        string
	logLevel   string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "particles-snapshot: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: opts.logLevel, Service: "particles-snapshot"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	written, err := run(opts, log)
	if err != nil {
		log.Error("snapshot failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("snapshot done", zap.Int("files", len(written)), zap.String("out", opts.out))
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("particles-snapshot", flag.ContinueOnError)
	def := config.DefaultParticles()

	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	count := fs.Int("count", def.Count, "Number of particles")
	col := fs.String("color", def.Color, "Particle color")
	conn := fs.Bool("connections", def.Connections, "Draw connection lines")
	fs.IntVar(&o.width, "width", 800, "Surface width in pixels")
	fs.IntVar(&o.height, "height", 600, "Surface height in pixels")
	fs.IntVar(&o.frames, "frames", 120, "Number of frames to simulate")
	fs.IntVar(&o.every, "every", 0, "Write every Nth frame; 0 writes only the last one")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed; 0 uses the clock")
	fs.StringVar(&o.out, "out", "frames", "Output directory")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o.particles = def
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return options{}, err
		}
		o.particles = cfg.Particles
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			o.particles.Count = *count
		case "color":
			o.particles.Color = *col
		case "connections":
			o.particles.Connections = *conn
		}
	})

	if err := o.particles.Validate(); err != nil {
		return options{}, err
	}
	if o.width <= 0 || o.height <= 0 {
		return options{}, fmt.Errorf("%w: got %dx%d", config.ErrInvalidWindow, o.width, o.height)
	}
	if o.frames < 1 {
		return options{}, fmt.Errorf("frames must be at least 1, got %d", o.frames)
	}
	if o.every < 0 {
		return options{}, fmt.Errorf("every must not be negative, got %d", o.every)
	}
	return o, nil
}

// run drives the engine frame by frame and saves the selected frames. It
// returns the paths written.
func run(o options, log *zap.Logger) ([]string, error) {
	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	target := ggcanvas.New(log)
	defer target.Close()

	driven := frame.NewDriven()
	in, err := engine.Start(surface.Fixed{Width: o.width, Height: o.height}, o.particles,
		engine.WithScheduler(driven),
		engine.WithTarget(target),
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	defer in.Stop()

	var written []string
	for i := 1; i <= o.frames; i++ {
		driven.Pump()

		last := i == o.frames
		if !last && (o.every == 0 || i%o.every != 0) {
			continue
		}
		path := filepath.Join(o.out, fmt.Sprintf("frame-%05d.png", i))
		if err := target.SavePNG(path); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		log.Debug("frame written", zap.String("path", path))
		written = append(written, path)
	}
	return written, nil
}
