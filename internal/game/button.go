package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// Button dimensions
	buttonWidth   = 120
	buttonHeight  = 32
	buttonX       = 12
	buttonY       = 32
	buttonSpacing = 8

	// Approximate debug font character width
	charWidth = 6
)

type button struct {
	label   string
	x, y    int
	hovered bool
	pressed bool
}

func newButton(label string, index int) *button {
	return &button{
		label: label,
		x:     buttonX + index*(buttonWidth+buttonSpacing),
		y:     buttonY,
	}
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+buttonWidth &&
		y >= b.y && y <= b.y+buttonHeight
}

// update tracks hover and press state for the current cursor and mouse
// edges, and reports a click when the button is released over itself.
func (b *button) update(mouseX, mouseY int, justPressed, justReleased bool) bool {
	b.hovered = b.contains(mouseX, mouseY)
	if b.hovered && justPressed {
		b.pressed = true
	}
	clicked := false
	if justReleased {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bgColor color.Color
	if b.pressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 230} // Pressed
	} else if b.hovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 230} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 200} // Normal
	}

	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), buttonWidth, buttonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), buttonWidth, buttonHeight, 1, borderColor, false)

	textWidth := len(b.label) * charWidth
	textX := b.x + (buttonWidth-textWidth)/2
	textY := b.y + (buttonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}
