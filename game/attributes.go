// Package game contains the gameplay components of quickfps. They are
// scheduled by ecs.EntityManager and talk to each other through the
// attribute types declared here.
package game

import (
	"math"

	"github.com/plus3/quickfps/spatial"
)

// Transform is the world placement of an entity. The physics collaborator
// integrates Velocity into Position after the logic passes have run.
type Transform struct {
	Position spatial.Vec2
	Velocity spatial.Vec2
	// Yaw is the facing angle in radians, 0 along +X.
	Yaw float64
}

// Forward returns the unit vector the transform is facing.
func (t Transform) Forward() spatial.Vec2 {
	return spatial.Vec2{X: math.Cos(t.Yaw), Y: math.Sin(t.Yaw)}
}

type Health struct {
	Current, Max int
}

type Score struct {
	Shots int
	Hits  int
}

// Kind tags entities for the renderer.
type Kind int

const (
	KindPlayer Kind = iota + 1
	KindTarget
)
