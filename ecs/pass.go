package ecs

import "strconv"

// Pass orders component updates within a frame. The manager only relies on
// the numeric ordering; the named values below are the passes used by the game.
type Pass int

const (
	PassDefault   Pass = 0
	PassInput     Pass = 1
	PassAI        Pass = 2
	PassPhysics   Pass = 4
	PassAnimation Pass = 8
	PassCamera    Pass = 16
)

func (p Pass) String() string {
	switch p {
	case PassDefault:
		return "default"
	case PassInput:
		return "input"
	case PassAI:
		return "ai"
	case PassPhysics:
		return "physics"
	case PassAnimation:
		return "animation"
	case PassCamera:
		return "camera"
	}
	return "pass(" + strconv.Itoa(int(p)) + ")"
}
