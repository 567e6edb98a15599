package game

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// Params are the session collaborators handed to gameplay components.
type Params struct {
	Manager *ecs.EntityManager
	Grid    *spatial.Grid
	Rand    *rand.Rand
	Logger  *zap.Logger
}

func (p Params) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// TargetSettings configure TargetSpawner.
type TargetSettings struct {
	Count int
	// Spacing is the minimum distance between two targets.
	Spacing float64
	// Radius is the hit radius of a target.
	Radius   float64
	Lifetime time.Duration
	// Speed is the maximum drift speed in world units per second.
	Speed float64
}
