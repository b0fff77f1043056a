// Package engine mounts a floating-particle animation onto a surface.
//
// Start measures the container, registers for resize notifications and
// starts a frame loop; each tick advances the particle field and then
// renders it. Stop releases both the loop and the resize listener.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/config"
	"github.com/iburimskiy/floating-particles/internal/frame"
	"github.com/iburimskiy/floating-particles/internal/logger"
	"github.com/iburimskiy/floating-particles/internal/particle"
	"github.com/iburimskiy/floating-particles/internal/render"
	"github.com/iburimskiy/floating-particles/internal/surface"
)

// ErrNoTarget is returned when Start is given no render target.
var ErrNoTarget = errors.New("engine: no render target")

// fallbackColor is used for a colour that does not resolve, matching a
// canvas that ignores an invalid fill style.
var fallbackColor = color.NRGBA{A: 0xff}

type options struct {
	rng       *rand.Rand
	scheduler frame.Scheduler
	target    render.Target
	log       *zap.Logger
	surface   *surface.Manager
}

type Option func(*options)

// WithRand sets the random source used to seed the field.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithScheduler sets the frame scheduler. Defaults to a 60 Hz ticker.
func WithScheduler(s frame.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithTarget sets the canvas the engine paints on. Required.
func WithTarget(t render.Target) Option {
	return func(o *options) { o.target = t }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithSurface shares a surface manager with the host, which then feeds it
// viewport changes through Resize or Measure.
func WithSurface(m *surface.Manager) Option {
	return func(o *options) { o.surface = m }
}

// Instance is one mounted animation.
type Instance struct {
	log     *zap.Logger
	cfg     config.Particles
	opts    render.Options
	rng     *rand.Rand
	target  render.Target
	surface *surface.Manager

	handle     *frame.Handle
	deregister func()
	stopOnce   sync.Once

	// guarded by mu; resize notifications may arrive off the tick goroutine
	mu      sync.Mutex
	dims    surface.Dimensions
	field   *particle.Field
	painted surface.Dimensions

	frames atomic.Uint64
}

// Start mounts an animation configured by cfg on container. The returned
// instance runs until Stop. A container without area is not an error: the
// instance idles until a resize gives it a drawable surface.
func Start(container surface.Container, cfg config.Particles, opts ...Option) (*Instance, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.target == nil {
		return nil, ErrNoTarget
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("start engine: %w", particle.ErrNegativeCount)
	}
	log := logger.OrNop(o.log)

	col, err := render.ResolveColor(cfg.Color)
	if err != nil {
		log.Warn("unresolved particle color, using black", zap.String("color", cfg.Color), zap.Error(err))
		col = fallbackColor
	}

	if o.surface == nil {
		o.surface = surface.NewManager(log)
	}
	if o.scheduler == nil {
		o.scheduler = frame.NewTicker(frame.DefaultInterval)
	}

	in := &Instance{
		log:     log,
		cfg:     cfg,
		opts:    render.Options{Color: col, Connections: cfg.Connections},
		rng:     o.rng,
		target:  o.target,
		surface: o.surface,
	}

	if d, ok := o.surface.Initialize(container); ok {
		in.dims = d
	} else {
		in.dims = o.surface.Dimensions()
	}
	in.deregister = o.surface.OnResize(in.onResize)
	in.handle = o.scheduler.Start(in.tick)

	log.Info("particles mounted",
		zap.Int("count", cfg.Count),
		zap.String("color", cfg.Color),
		zap.Bool("connections", cfg.Connections),
		zap.Int("width", in.dims.Width),
		zap.Int("height", in.dims.Height))
	return in, nil
}

func (in *Instance) onResize(d surface.Dimensions) {
	in.mu.Lock()
	in.dims = d
	in.mu.Unlock()
}

func (in *Instance) tick() {
	in.mu.Lock()
	defer in.mu.Unlock()

	d := in.dims
	bounds := particle.Bounds{Width: float64(d.Width), Height: float64(d.Height)}
	if d.Empty() {
		// Nothing to paint, but an existing field keeps moving. A zero axis
		// never reflects.
		if in.field != nil {
			particle.Advance(in.field, bounds)
		}
		return
	}

	if in.field == nil {
		f, err := particle.New(in.cfg.Count, bounds, in.rng)
		if err != nil {
			in.log.Error("create field", zap.Error(err))
			return
		}
		in.field = f
		in.log.Debug("field created", zap.Int("count", f.Len()))
	}

	if d != in.painted {
		if err := in.target.Resize(d.Width, d.Height); err != nil {
			in.log.Debug("resize target", zap.Error(err))
			return
		}
		in.painted = d
	}

	particle.Advance(in.field, bounds)
	render.Render(in.target, in.field, in.opts)
	in.frames.Add(1)
}

// Stop cancels the frame loop and removes the resize listener. It may be
// called more than once and from inside a tick.
func (in *Instance) Stop() {
	in.stopOnce.Do(func() {
		in.handle.Cancel()
		in.deregister()
		in.log.Info("particles unmounted", zap.Uint64("frames", in.frames.Load()))
	})
}

// Done is closed once no further tick can run.
func (in *Instance) Done() <-chan struct{} {
	return in.handle.Done()
}

// State reports whether the frame loop is running.
func (in *Instance) State() frame.State {
	return in.handle.State()
}

// Frames returns the number of ticks that painted a frame.
func (in *Instance) Frames() uint64 {
	return in.frames.Load()
}

// Config returns the configuration the instance was started with.
func (in *Instance) Config() config.Particles {
	return in.cfg
}

// RenderOptions returns the resolved drawing options.
func (in *Instance) RenderOptions() render.Options {
	return in.opts
}

// Dimensions returns the surface size the next tick will use.
func (in *Instance) Dimensions() surface.Dimensions {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dims
}

// Snapshot returns a copy of the particles, nil before the first drawable
// tick created the field.
func (in *Instance) Snapshot() []particle.Particle {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.field == nil {
		return nil
	}
	out := make([]particle.Particle, in.field.Len())
	copy(out, in.field.Particles())
	return out
}
