package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/floating-particles/internal/render"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
	WindowTitle  = "Floating Particles"

	// Particle defaults
	DefaultCount       = 50
	DefaultColor       = "blue"
	DefaultConnections = true

	// Demo host controls
	CountStep = 10
	MaxCount  = 1000

	// Frame statistics window
	FrameRingSize = 120
)

var (
	ErrInvalidCount  = errors.New("config: particle count must be between 0 and 1000")
	ErrInvalidWindow = errors.New("config: window size must be positive")
)

// Particles is the engine's creation-time configuration.
type Particles struct {
	Count       int    `yaml:"count"`
	Color       string `yaml:"color"`
	Connections bool   `yaml:"connections"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Config struct {
	Particles Particles `yaml:"particles"`
	Window    Window    `yaml:"window"`
	Log       Log       `yaml:"log"`
}

func DefaultParticles() Particles {
	return Particles{
		Count:       DefaultCount,
		Color:       DefaultColor,
		Connections: DefaultConnections,
	}
}

func Default() Config {
	return Config{
		Particles: DefaultParticles(),
		Window: Window{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  WindowTitle,
		},
		Log: Log{Level: "info"},
	}
}

// Validate checks the particle settings. Unknown colours are reported too,
// although the engine tolerates them.
func (p Particles) Validate() error {
	var errs []error
	if p.Count < 0 || p.Count > MaxCount {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidCount, p.Count))
	}
	if _, err := render.ResolveColor(p.Color); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Particles.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}

// Parse decodes YAML on top of the defaults, so absent keys keep their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}
