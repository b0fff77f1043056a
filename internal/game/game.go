package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/config"
	"github.com/iburimskiy/floating-particles/internal/engine"
	"github.com/iburimskiy/floating-particles/internal/frame"
	"github.com/iburimskiy/floating-particles/internal/logger"
	"github.com/iburimskiy/floating-particles/internal/render"
	"github.com/iburimskiy/floating-particles/internal/render/ebitencanvas"
	"github.com/iburimskiy/floating-particles/internal/surface"
)

// Dark slate behind the particles.
var background = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}

type Options struct {
	Config     config.Config
	ConfigPath string
	Watch      bool
	Logger     *zap.Logger
}

// Game hosts one engine instance full-window. ebiten calls Update once per
// display refresh, which pumps the engine's frame loop.
type Game struct {
	log *zap.Logger

	particles config.Particles
	driven    *frame.Driven
	surface   *surface.Manager
	target    *ebitencanvas.Target
	instance  *engine.Instance
	mountedAt time.Time

	stats *frameStats

	// config hot reload
	watchEnabled bool
	watcher      *config.Watcher
	stopWatch    context.CancelFunc
	reloads      chan config.Particles

	colorButton  *button
	configButton *button

	lastErr error
}

func New(opts Options) (*Game, error) {
	log := logger.OrNop(opts.Logger)
	g := &Game{
		log:          log,
		driven:       frame.NewDriven(),
		surface:      surface.NewManager(log),
		target:       ebitencanvas.New(true),
		stats:        newFrameStats(config.FrameRingSize),
		watchEnabled: opts.Watch,
		reloads:      make(chan config.Particles, 1),
		colorButton:  newButton("Pick Color", 0),
		configButton: newButton("Open Config", 1),
	}

	if err := g.mount(opts.Config.Particles); err != nil {
		return nil, err
	}
	if g.watchEnabled && opts.ConfigPath != "" {
		if err := g.watch(opts.ConfigPath); err != nil {
			g.Close()
			return nil, err
		}
	}
	return g, nil
}

// mount replaces the running instance with a new one configured by p.
func (g *Game) mount(p config.Particles) error {
	if g.instance != nil {
		g.instance.Stop()
		g.instance = nil
	}

	in, err := engine.Start(surface.Fixed(g.surface.Dimensions()), p,
		engine.WithScheduler(g.driven),
		engine.WithTarget(g.target),
		engine.WithSurface(g.surface),
		engine.WithLogger(g.log),
	)
	if err != nil {
		return fmt.Errorf("mount particles: %w", err)
	}
	g.instance = in
	g.particles = p
	g.mountedAt = time.Now()
	g.stats.reset()
	return nil
}

func (g *Game) apply(p config.Particles) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return g.mount(p)
}

func (g *Game) watch(path string) error {
	g.unwatch()

	w, err := config.NewWatcher(g.log, path, config.DefaultDebounce, func(c config.Config) {
		// Keep only the newest pending reload.
		select {
		case <-g.reloads:
		default:
		}
		g.reloads <- c.Particles
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		_ = w.Stop()
		return err
	}
	g.watcher = w
	g.stopWatch = cancel
	return nil
}

func (g *Game) unwatch() {
	if g.watcher == nil {
		return
	}
	g.stopWatch()
	if err := g.watcher.Stop(); err != nil {
		g.log.Warn("stop config watcher", zap.Error(err))
	}
	g.watcher = nil
	g.stopWatch = nil
}

func (g *Game) Update() error {
	select {
	case p := <-g.reloads:
		g.setErr(g.apply(p))
	default:
	}

	mouseX, mouseY := ebiten.CursorPosition()
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	if g.colorButton.update(mouseX, mouseY, justPressed, justReleased) {
		g.setErr(g.handle(actionPickColor))
	}
	if g.configButton.update(mouseX, mouseY, justPressed, justReleased) {
		g.setErr(g.handle(actionOpenConfig))
	}

	for _, b := range keyBindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		if b.action == actionQuit {
			return ebiten.Termination
		}
		g.setErr(g.handle(b.action))
	}

	start := time.Now()
	g.driven.Pump()
	g.stats.record(time.Since(start))
	return nil
}

func (g *Game) handle(a action) error {
	switch a {
	case actionPickColor:
		return g.pickColor()
	case actionOpenConfig:
		return g.openConfig()
	}
	p, remount := applyAction(g.particles, a)
	if !remount {
		return nil
	}
	return g.apply(p)
}

func (g *Game) setErr(err error) {
	if err == nil {
		return
	}
	g.log.Warn("action failed", zap.Error(err))
	g.lastErr = err
}

func (g *Game) pickColor() error {
	current, err := render.ResolveColor(g.particles.Color)
	if err != nil {
		current = color.NRGBA{A: 0xff}
	}
	picked, err := zenity.SelectColor(
		zenity.Title("Particle Color"),
		zenity.Color(current),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	p := g.particles
	p.Color = render.FormatHex(picked)
	return g.apply(p)
}

func (g *Game) openConfig() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Particle Config"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}
	g.log.Info("config opened", zap.String("path", filename))
	if err := g.mount(cfg.Particles); err != nil {
		return err
	}
	if g.watchEnabled {
		return g.watch(filename)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if img := g.target.Image(); img != nil {
		screen.DrawImage(img, nil)
	}

	g.colorButton.draw(screen)
	g.configButton.draw(screen)

	status := fmt.Sprintf("particles: %d  color: %s  connections: %t | TPS %.0f  FPS %.0f | tick %s | up %s",
		g.particles.Count,
		g.particles.Color,
		g.particles.Connections,
		ebiten.ActualTPS(),
		ebiten.ActualFPS(),
		formatFrameTime(g.stats.mean()),
		formatDuration(time.Since(g.mountedAt)),
	)
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, helpText, 12, h-20)
}

// Layout follows the window size; every change is a viewport resize for
// the engine.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.surface.Resize(surface.Dimensions{Width: outsideWidth, Height: outsideHeight})
	return outsideWidth, outsideHeight
}

// Close tears down the engine and the config watcher.
func (g *Game) Close() {
	g.unwatch()
	if g.instance != nil {
		g.instance.Stop()
		g.instance = nil
	}
	g.target.Dispose()
}
