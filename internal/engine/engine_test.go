package engine

import (
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iburimskiy/floating-particles/internal/config"
	"github.com/iburimskiy/floating-particles/internal/frame"
	"github.com/iburimskiy/floating-particles/internal/particle"
	"github.com/iburimskiy/floating-particles/internal/surface"
)

// fakeTarget counts drawing calls and remembers its size.
type fakeTarget struct {
	width, height int
	resizes       int
	clears        int
	circles       int
	lines         int
}

func (f *fakeTarget) Resize(w, h int) error {
	f.width, f.height = w, h
	f.resizes++
	return nil
}

func (f *fakeTarget) Clear() { f.clears++ }
func (f *fakeTarget) FillCircle(x, y, r float64, c color.NRGBA) { f.circles++ }
func (f *fakeTarget) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA, alpha float64) {
	f.lines++
}

type fixture struct {
	driven  *frame.Driven
	target  *fakeTarget
	surface *surface.Manager
}

func newFixture() *fixture {
	return &fixture{
		driven:  frame.NewDriven(),
		target:  &fakeTarget{},
		surface: surface.NewManager(nil),
	}
}

func (fx *fixture) start(t *testing.T, c surface.Container, cfg config.Particles) *Instance {
	t.Helper()
	in, err := Start(c, cfg,
		WithScheduler(fx.driven),
		WithTarget(fx.target),
		WithSurface(fx.surface),
		WithRand(rand.New(rand.NewSource(1))),
	)
	require.NoError(t, err)
	return in
}

func TestStartValidation(t *testing.T) {
	_, err := Start(surface.Fixed{Width: 10, Height: 10}, config.DefaultParticles())
	assert.ErrorIs(t, err, ErrNoTarget)

	cfg := config.DefaultParticles()
	cfg.Count = -1
	_, err = Start(surface.Fixed{Width: 10, Height: 10}, cfg, WithTarget(&fakeTarget{}))
	assert.ErrorIs(t, err, particle.ErrNegativeCount)
}

func TestCountStableAcrossTicks(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 400, Height: 300}, config.DefaultParticles())
	defer in.Stop()

	for i := 0; i < 1000; i++ {
		fx.driven.Pump()
	}

	assert.Len(t, in.Snapshot(), config.DefaultCount)
	assert.Equal(t, uint64(1000), in.Frames())
	assert.Equal(t, 1, fx.target.resizes)
	assert.Equal(t, 1000, fx.target.clears)
	assert.Equal(t, 1000*config.DefaultCount, fx.target.circles)
}

func TestRadiusNeverChanges(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 200, Height: 200}, config.DefaultParticles())
	defer in.Stop()

	fx.driven.Pump()
	before := in.Snapshot()
	for i := 0; i < 500; i++ {
		fx.driven.Pump()
	}
	after := in.Snapshot()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Greater(t, after[i].Radius, 0.0)
		assert.Equal(t, before[i].Radius, after[i].Radius)
	}
}

func TestZeroSizeContainerIdles(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 0, Height: 0}, config.DefaultParticles())
	defer in.Stop()

	fx.driven.Pump()
	fx.driven.Pump()
	assert.Nil(t, in.Snapshot())
	assert.Zero(t, in.Frames())
	assert.Zero(t, fx.target.clears)

	fx.surface.Resize(surface.Dimensions{Width: 320, Height: 200})
	fx.driven.Pump()

	assert.Len(t, in.Snapshot(), config.DefaultCount)
	assert.Equal(t, uint64(1), in.Frames())
	assert.Equal(t, 320, fx.target.width)
	for _, p := range in.Snapshot() {
		assert.LessOrEqual(t, p.X, 320.25)
		assert.LessOrEqual(t, p.Y, 200.25)
	}
}

func TestResizeToZeroKeepsMoving(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 100, Height: 100}, config.Particles{Count: 1, Color: "blue"})
	defer in.Stop()

	fx.driven.Pump()
	in.mu.Lock()
	in.field = particle.FromParticles([]particle.Particle{{X: 50, Y: 50, VX: 1, VY: 0, Radius: 1}})
	in.mu.Unlock()

	fx.surface.Resize(surface.Dimensions{Width: 0, Height: 100})
	for i := 0; i < 5; i++ {
		fx.driven.Pump()
	}

	p := in.Snapshot()[0]
	assert.Equal(t, 55.0, p.X)
	assert.Equal(t, 50.0, p.Y)
	assert.Equal(t, 1.0, p.VX, "a zero-width axis never reflects")
	assert.Equal(t, uint64(1), in.Frames(), "nothing painted while empty")
	assert.Equal(t, 1, fx.target.clears)
	assert.Equal(t, 100, fx.target.width, "target keeps its last drawable size")

	fx.surface.Resize(surface.Dimensions{Width: 100, Height: 100})
	fx.driven.Pump()
	assert.Equal(t, 56.0, in.Snapshot()[0].X)
	assert.Equal(t, uint64(2), in.Frames())
}

func TestResizeAppliesOnNextTick(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 400, Height: 300}, config.Particles{Count: 1, Color: "blue"})
	defer in.Stop()

	fx.driven.Pump()
	in.mu.Lock()
	in.field = particle.FromParticles([]particle.Particle{{X: 399, Y: 299, VX: 2, VY: 2, Radius: 1}})
	in.mu.Unlock()

	fx.surface.Resize(surface.Dimensions{Width: 800, Height: 600})
	assert.Equal(t, surface.Dimensions{Width: 800, Height: 600}, in.Dimensions())

	fx.driven.Pump()

	p := in.Snapshot()[0]
	assert.Equal(t, 401.0, p.X)
	assert.Equal(t, 301.0, p.Y)
	assert.Equal(t, 2.0, p.VX, "old bounds would have reflected")
	assert.Equal(t, 2.0, p.VY, "old bounds would have reflected")
	assert.Equal(t, 800, fx.target.width)
	assert.Equal(t, 600, fx.target.height)
}

func TestStopIsIdempotent(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 100, Height: 100}, config.DefaultParticles())
	other := fx.surface.OnResize(func(surface.Dimensions) {})
	defer other()
	require.Equal(t, 2, fx.surface.Listeners())

	fx.driven.Pump()
	in.Stop()
	in.Stop()

	assert.Equal(t, 1, fx.surface.Listeners(), "only the engine's listener is removed")
	assert.Equal(t, frame.Idle, in.State())
	<-in.Done()

	fx.driven.Pump()
	assert.Equal(t, uint64(1), in.Frames())
	assert.Equal(t, 0, fx.driven.Active())
}

func TestStopFromInsideTick(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 100, Height: 100}, config.DefaultParticles())

	// A second loop on the same scheduler tears the instance down mid-pump.
	stopper := fx.driven.Start(func() { in.Stop() })
	defer stopper.Cancel()

	fx.driven.Pump()
	fx.driven.Pump()

	assert.Equal(t, uint64(1), in.Frames())
	assert.Equal(t, 0, fx.surface.Listeners())
}

func TestRemountCreatesNewField(t *testing.T) {
	fx := newFixture()
	container := surface.Fixed{Width: 300, Height: 300}

	first := fx.start(t, container, config.Particles{Count: 10, Color: "red", Connections: true})
	fx.driven.Pump()
	first.Stop()

	second := fx.start(t, container, config.Particles{Count: 25, Color: "green"})
	defer second.Stop()
	fx.driven.Pump()

	assert.Len(t, first.Snapshot(), 10)
	assert.Len(t, second.Snapshot(), 25)
	assert.Equal(t, 1, fx.surface.Listeners())
	assert.False(t, second.RenderOptions().Connections)
}

func TestConnectionsDrawn(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 50, Height: 50}, config.Particles{Count: 5, Color: "pink", Connections: true})
	defer in.Stop()

	fx.driven.Pump()

	// Every pair in a 50x50 box is closer than the threshold.
	assert.Equal(t, 10, fx.target.lines)
}

func TestUnknownColorFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fx := newFixture()

	in, err := Start(surface.Fixed{Width: 10, Height: 10}, config.Particles{Count: 1, Color: "blurple"},
		WithScheduler(fx.driven),
		WithTarget(fx.target),
		WithLogger(zap.New(core)),
	)
	require.NoError(t, err)
	defer in.Stop()

	assert.Equal(t, fallbackColor, in.RenderOptions().Color)
	assert.Equal(t, 1, logs.FilterMessage("unresolved particle color, using black").Len())
}

func TestResolvedColor(t *testing.T) {
	fx := newFixture()
	in := fx.start(t, surface.Fixed{Width: 10, Height: 10}, config.Particles{Count: 1, Color: "#102030"})
	defer in.Stop()

	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, in.RenderOptions().Color)
	assert.Equal(t, "#102030", in.Config().Color)
}

type chanSource chan time.Time

func (s chanSource) C() <-chan time.Time { return s }
func (s chanSource) Stop()               {}

func TestTickerTeardownRace(t *testing.T) {
	src := make(chanSource, 1)
	target := &fakeTarget{}
	in, err := Start(surface.Fixed{Width: 100, Height: 100}, config.DefaultParticles(),
		WithScheduler(frame.NewTickerWithSource(func() frame.Source { return src })),
		WithTarget(target),
	)
	require.NoError(t, err)

	src <- time.Now()
	require.Eventually(t, func() bool { return in.Frames() == 1 }, 2*time.Second, time.Millisecond)

	in.Stop()
	src <- time.Now()

	select {
	case <-in.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop outlived Stop")
	}
	assert.Equal(t, uint64(1), in.Frames())
}
