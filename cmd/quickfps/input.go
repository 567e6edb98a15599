package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/quickfps/game"
)

var keyMap = map[game.Key]ebiten.Key{
	game.KeyA:     ebiten.KeyA,
	game.KeyS:     ebiten.KeyS,
	game.KeyW:     ebiten.KeyW,
	game.KeyD:     ebiten.KeyD,
	game.KeySpace: ebiten.KeySpace,
	game.KeyShift: ebiten.KeyShiftLeft,
	game.KeyCtrl:  ebiten.KeyControlLeft,
	game.KeyAlt:   ebiten.KeyAltLeft,
	game.KeyTab:   ebiten.KeyTab,
}

// ebitenInput polls ebiten's keyboard and mouse state.
type ebitenInput struct {
	lastX, lastY int
	primed       bool
	// suppressed is set while the debug overlay captures the mouse.
	suppressed func() bool
}

func (in *ebitenInput) IsKeyPressed(key game.Key) bool {
	k, ok := keyMap[key]
	return ok && ebiten.IsKeyPressed(k)
}

func (in *ebitenInput) MouseButtons() (left, right bool) {
	if in.suppressed != nil && in.suppressed() {
		return false, false
	}
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
}

func (in *ebitenInput) MouseDelta() (dx, dy float64) {
	x, y := ebiten.CursorPosition()
	if !in.primed {
		in.lastX, in.lastY, in.primed = x, y, true
		return 0, 0
	}
	dx, dy = float64(x-in.lastX), float64(y-in.lastY)
	in.lastX, in.lastY = x, y
	if in.suppressed != nil && in.suppressed() {
		return 0, 0
	}
	return dx, dy
}

func (in *ebitenInput) CursorPosition() (x, y float64) {
	cx, cy := ebiten.CursorPosition()
	w, h := ebiten.WindowSize()
	return float64(cx) - float64(w)/2, float64(cy) - float64(h)/2
}
