// Package ggcanvas renders onto a software gg.Context, for headless output.
package ggcanvas

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/logger"
)

const lineWidth = 1

type Target struct {
	dc  *gg.Context
	log *zap.Logger
}

func New(log *zap.Logger) *Target {
	return &Target{log: logger.OrNop(log)}
}

// Resize allocates the context on first use and resizes it afterwards.
func (t *Target) Resize(width, height int) error {
	if t.dc == nil {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("ggcanvas: invalid size %dx%d", width, height)
		}
		t.dc = gg.NewContext(width, height)
		return nil
	}
	if err := t.dc.Resize(width, height); err != nil {
		return fmt.Errorf("ggcanvas: %w", err)
	}
	return nil
}

func (t *Target) Clear() {
	if t.dc != nil {
		t.dc.Clear()
	}
}

func (t *Target) FillCircle(x, y, r float64, c color.NRGBA) {
	if t.dc == nil {
		return
	}
	setColor(t.dc, c, 1)
	t.dc.DrawCircle(x, y, r)
	if err := t.dc.Fill(); err != nil {
		t.log.Debug("fill failed", zap.Error(err))
	}
}

func (t *Target) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA, alpha float64) {
	if t.dc == nil {
		return
	}
	setColor(t.dc, c, alpha)
	t.dc.SetLineWidth(lineWidth)
	t.dc.DrawLine(x0, y0, x1, y1)
	if err := t.dc.Stroke(); err != nil {
		t.log.Debug("stroke failed", zap.Error(err))
	}
}

// Image returns a snapshot of the current frame, nil before the first Resize.
func (t *Target) Image() image.Image {
	if t.dc == nil {
		return nil
	}
	_ = t.dc.FlushGPU()
	return t.dc.Image()
}

func (t *Target) EncodePNG(w io.Writer) error {
	if t.dc == nil {
		return fmt.Errorf("ggcanvas: nothing rendered")
	}
	return t.dc.EncodePNG(w)
}

func (t *Target) SavePNG(path string) error {
	if t.dc == nil {
		return fmt.Errorf("ggcanvas: nothing rendered")
	}
	return t.dc.SavePNG(path)
}

func (t *Target) Close() error {
	if t.dc == nil {
		return nil
	}
	err := t.dc.Close()
	t.dc = nil
	return err
}

func setColor(dc *gg.Context, c color.NRGBA, alpha float64) {
	dc.SetRGBA(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255*alpha,
	)
}
