package game

import (
	"maps"

	"github.com/plus3/quickfps/ecs"
)

// Key is a keyboard key code.
type Key int

const (
	KeyTab   Key = 9
	KeyShift Key = 16
	KeyCtrl  Key = 17
	KeyAlt   Key = 18
	KeySpace Key = 32
	KeyA     Key = 65
	KeyD     Key = 68
	KeyS     Key = 83
	KeyW     Key = 87
)

// TrackedKeys are the keys sampled every frame.
var TrackedKeys = []Key{KeyA, KeyS, KeyW, KeyD, KeySpace, KeyShift, KeyCtrl, KeyAlt, KeyTab}

// MouseSmoothing is the weight of the previous smoothed mouse delta; 0
// disables smoothing.
const MouseSmoothing = 0.3

// InputSource is the input device polled by PlayerInput.
type InputSource interface {
	IsKeyPressed(key Key) bool
	MouseButtons() (left, right bool)
	// MouseDelta returns the raw movement accumulated since the last call.
	MouseDelta() (dx, dy float64)
	CursorPosition() (x, y float64)
}

// MouseState is one sample of the mouse.
type MouseState struct {
	LeftButton  bool
	RightButton bool
	XDelta      float64
	YDelta      float64
	X, Y        float64
}

// InputState is the input published on the player entity's blackboard.
type InputState struct {
	Keys         map[Key]bool
	PreviousKeys map[Key]bool
	Mouse        MouseState
	// PreviousMouse is nil until the first frame has been sampled.
	PreviousMouse *MouseState
}

// PlayerInput samples an InputSource during the input pass.
type PlayerInput struct {
	ecs.BaseComponent

	source  InputSource
	state   *InputState
	smoothX float64
	smoothY float64
}

func NewPlayerInput(source InputSource) *PlayerInput {
	return &PlayerInput{source: source}
}

func (p *PlayerInput) InitEntity() {
	ecs.SetAttribute(p.Parent(), InputState{
		Keys:         make(map[Key]bool),
		PreviousKeys: make(map[Key]bool),
	})
	p.state = ecs.AttributePtr[InputState](p.Parent())
	p.SetPass(ecs.PassInput)
}

func (p *PlayerInput) Update(dt float64) {
	s := p.state
	if s.PreviousMouse != nil {
		prev := s.Mouse
		s.PreviousMouse = &prev
		s.PreviousKeys = maps.Clone(s.Keys)
	} else {
		s.PreviousMouse = &MouseState{}
	}

	for _, key := range TrackedKeys {
		s.Keys[key] = p.source.IsKeyPressed(key)
	}
	s.Mouse.LeftButton, s.Mouse.RightButton = p.source.MouseButtons()
	s.Mouse.X, s.Mouse.Y = p.source.CursorPosition()

	rawX, rawY := p.source.MouseDelta()
	p.smoothX = p.smoothX*MouseSmoothing + rawX*(1-MouseSmoothing)
	p.smoothY = p.smoothY*MouseSmoothing + rawY*(1-MouseSmoothing)
	s.Mouse.XDelta = p.smoothX
	s.Mouse.YDelta = p.smoothY
}

// Key reports whether key is held in the current sample.
func (p *PlayerInput) Key(key Key) bool {
	return p.state != nil && p.state.Keys[key]
}

// MouseLeftReleased reports a left button release since the previous frame.
func (p *PlayerInput) MouseLeftReleased() bool {
	return p.state.MouseLeftReleased()
}

// IsReady reports whether a previous sample exists.
func (p *PlayerInput) IsReady() bool {
	return p.state != nil && p.state.PreviousMouse != nil
}

// MouseLeftReleased reports a left button release since the previous frame.
func (s *InputState) MouseLeftReleased() bool {
	if s == nil || s.PreviousMouse == nil {
		return false
	}
	return !s.Mouse.LeftButton && s.PreviousMouse.LeftButton
}

// KeyPressed reports whether key went down since the previous frame.
func (s *InputState) KeyPressed(key Key) bool {
	return s != nil && s.Keys[key] && !s.PreviousKeys[key]
}
