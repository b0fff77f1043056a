package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/mazznoer/csscolorparser"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned for a colour that is not a palette name and
// does not parse as a CSS colour.
var ErrUnknownColor = errors.New("render: unknown color")

// Palette maps the short colour names the component accepts to hex values.
var Palette = map[string]string{
	"blue":   "#3b82f6",
	"purple": "#8b5cf6",
	"pink":   "#ec4899",
	"green":  "#10b981",
	"red":    "#ef4444",
}

// ResolveColor turns a configured colour into an NRGBA value. Palette names
// win over CSS names, so "blue" is #3b82f6 rather than #0000ff. Anything
// else is taken as a literal CSS colour: hex, a named colour, rgb(), hsl(),
// hwb() or "transparent".
func ResolveColor(name string) (color.NRGBA, error) {
	s := strings.TrimSpace(name)
	if hex, ok := Palette[strings.ToLower(s)]; ok {
		s = hex
	}

	if strings.HasPrefix(s, "#") {
		if !validHex(s[1:]) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
		}
		return toNRGBA(gg.Hex(s)), nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// FormatHex renders c as #rrggbb, or #rrggbbaa when not opaque.
func FormatHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func validHex(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isHex := ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}

func toNRGBA(c gg.RGBA) color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
