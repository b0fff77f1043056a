package particle

import (
	"errors"
	"math/rand"
	"time"
)

const (
	// MaxSpeed bounds each velocity component to [-MaxSpeed, MaxSpeed).
	MaxSpeed = 0.25

	// Radius range is [MinRadius, MinRadius+RadiusSpread).
	MinRadius    = 1.0
	RadiusSpread = 3.0
)

// ErrNegativeCount is returned by New for a count below zero.
var ErrNegativeCount = errors.New("particle: negative count")

// Particle is a single drifting dot.
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity, units per tick
	Radius float64
}

// Bounds is the extent particles move within.
type Bounds struct {
	Width, Height float64
}

// Field holds the particles of one running instance. Its length never
// changes after New.
type Field struct {
	particles []Particle
}

// New creates count particles spread uniformly over bounds.
// A nil rng falls back to a time-seeded source.
func New(count int, bounds Bounds, rng *rand.Rand) (*Field, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	f := &Field{particles: make([]Particle, count)}
	for i := range f.particles {
		f.particles[i] = Particle{
			X:      rng.Float64() * bounds.Width,
			Y:      rng.Float64() * bounds.Height,
			VX:     (rng.Float64() - 0.5) * 2 * MaxSpeed,
			VY:     (rng.Float64() - 0.5) * 2 * MaxSpeed,
			Radius: rng.Float64()*RadiusSpread + MinRadius,
		}
	}
	return f, nil
}

// FromParticles builds a field around an existing slice. The field takes
// ownership of ps.
func FromParticles(ps []Particle) *Field {
	return &Field{particles: ps}
}

// Len returns the number of particles.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.particles)
}

// Particles returns the live particle slice. Callers may mutate elements
// but must not append to or reslice it.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	return f.particles
}

// At returns a copy of particle i.
func (f *Field) At(i int) Particle {
	return f.particles[i]
}
