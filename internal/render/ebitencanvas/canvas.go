// Package ebitencanvas draws onto an offscreen ebiten image that the host
// blits to the screen in Draw.
package ebitencanvas

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const lineWidth = 1

type Target struct {
	img       *ebiten.Image
	antialias bool
}

func New(antialias bool) *Target {
	return &Target{antialias: antialias}
}

// Image returns the backing image, nil before the first Resize.
func (t *Target) Image() *ebiten.Image {
	return t.img
}

func (t *Target) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ebitencanvas: invalid size %dx%d", width, height)
	}
	if t.img != nil {
		b := t.img.Bounds()
		if b.Dx() == width && b.Dy() == height {
			return nil
		}
		t.img.Deallocate()
	}
	t.img = ebiten.NewImage(width, height)
	return nil
}

func (t *Target) Clear() {
	if t.img != nil {
		t.img.Clear()
	}
}

func (t *Target) FillCircle(x, y, r float64, c color.NRGBA) {
	if t.img == nil {
		return
	}
	vector.DrawFilledCircle(t.img, float32(x), float32(y), float32(r), c, t.antialias)
}

func (t *Target) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA, alpha float64) {
	if t.img == nil {
		return
	}
	c.A = uint8(float64(c.A) * alpha)
	vector.StrokeLine(t.img, float32(x0), float32(y0), float32(x1), float32(y1), lineWidth, c, t.antialias)
}

// Dispose releases the backing image.
func (t *Target) Dispose() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}
