package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/floating-particles/internal/config"
)

type action int

const (
	actionNone action = iota
	actionReplay
	actionToggleConnections
	actionMore
	actionFewer
	actionPickColor
	actionOpenConfig
	actionQuit
)

type keyBinding struct {
	key    ebiten.Key
	action action
}

var keyBindings = []keyBinding{
	{ebiten.KeyR, actionReplay},
	{ebiten.KeyC, actionToggleConnections},
	{ebiten.KeyEqual, actionMore},
	{ebiten.KeyNumpadAdd, actionMore},
	{ebiten.KeyMinus, actionFewer},
	{ebiten.KeyNumpadSubtract, actionFewer},
	{ebiten.KeyK, actionPickColor},
	{ebiten.KeyO, actionOpenConfig},
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyQ, actionQuit},
}

const helpText = "R replay  C connections  +/- count  K color  O config  Esc/Q quit"

// applyAction returns the configuration an action leads to and whether the
// engine has to be remounted for it. Dialog-driven actions are handled by
// the caller.
func applyAction(p config.Particles, a action) (config.Particles, bool) {
	switch a {
	case actionReplay:
		return p, true
	case actionToggleConnections:
		p.Connections = !p.Connections
		return p, true
	case actionMore, actionFewer:
		step := config.CountStep
		if a == actionFewer {
			step = -step
		}
		next := clampCount(p.Count+step, 0, config.MaxCount)
		if next == p.Count {
			return p, false
		}
		p.Count = next
		return p, true
	default:
		return p, false
	}
}
