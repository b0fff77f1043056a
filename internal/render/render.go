package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/floating-particles/internal/particle"
)

// ConnectionDistance is the distance below which two particles are joined.
const ConnectionDistance = 100.0

// Canvas is a 2D drawing target.
type Canvas interface {
	// Clear wipes the whole surface to transparent.
	Clear()
	FillCircle(x, y, r float64, c color.NRGBA)
	// StrokeLine draws a one pixel line with c's alpha scaled by alpha.
	StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA, alpha float64)
}

// Target is a Canvas whose backing surface can be reallocated.
type Target interface {
	Canvas
	Resize(width, height int) error
}

// Options controls how a field is painted.
type Options struct {
	Color       color.NRGBA
	Connections bool
}

// ConnectionOpacity returns the stroke alpha for two particles d apart and
// whether they are connected at all.
func ConnectionOpacity(d float64) (float64, bool) {
	if d >= ConnectionDistance {
		return 0, false
	}
	return 1 - d/ConnectionDistance, true
}

// Render clears c and paints every particle of f. Particle i is drawn
// before its connections to particles i+1..n, so lines of later pairs
// overlap earlier dots.
func Render(c Canvas, f *particle.Field, opts Options) {
	c.Clear()

	ps := f.Particles()
	for i := range ps {
		p := &ps[i]
		c.FillCircle(p.X, p.Y, p.Radius, opts.Color)

		if !opts.Connections {
			continue
		}
		for j := i + 1; j < len(ps); j++ {
			q := &ps[j]
			d := math.Hypot(p.X-q.X, p.Y-q.Y)
			if alpha, ok := ConnectionOpacity(d); ok {
				c.StrokeLine(p.X, p.Y, q.X, q.Y, opts.Color, alpha)
			}
		}
	}
}
