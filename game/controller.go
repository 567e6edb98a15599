package game

import (
	"math"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

type ControllerSettings struct {
	// Speed is the walking speed in world units per second.
	Speed float64
	// Sensitivity converts smoothed mouse delta to radians of yaw.
	Sensitivity float64
	// Range is the reach of a shot.
	Range float64
	Damage int
}

func DefaultControllerSettings() ControllerSettings {
	return ControllerSettings{
		Speed:       600,
		Sensitivity: 0.004,
		Range:       3000,
		Damage:      1,
	}
}

// PlayerController turns the InputState published by PlayerInput into
// movement and shots. It runs in the AI pass, after input sampling.
type PlayerController struct {
	ecs.BaseComponent

	params   Params
	settings ControllerSettings
	nearby   []*spatial.Client
}

func NewPlayerController(params Params, settings ControllerSettings) *PlayerController {
	return &PlayerController{params: params, settings: settings}
}

func (c *PlayerController) InitEntity() {
	SetKind(c.Parent(), KindPlayer)
	if ecs.AttributePtr[Transform](c.Parent()) == nil {
		ecs.SetAttribute(c.Parent(), Transform{})
	}
	c.SetPass(ecs.PassAI)
}

func (c *PlayerController) Update(dt float64) {
	e := c.Parent()
	input := ecs.AttributePtr[InputState](e)
	t := ecs.AttributePtr[Transform](e)
	if input == nil || t == nil {
		return
	}

	t.Yaw += input.Mouse.XDelta * c.settings.Sensitivity

	forward := t.Forward()
	right := spatial.Vec2{X: -forward.Y, Y: forward.X}
	var move spatial.Vec2
	if input.Keys[KeyW] {
		move = move.Add(forward)
	}
	if input.Keys[KeyS] {
		move = move.Sub(forward)
	}
	if input.Keys[KeyD] {
		move = move.Add(right)
	}
	if input.Keys[KeyA] {
		move = move.Sub(right)
	}
	if l := math.Hypot(move.X, move.Y); l > 0 {
		move = move.Scale(c.settings.Speed / l)
	}
	t.Velocity = move

	if input.MouseLeftReleased() {
		c.Fire()
	}
}

// Fire shoots along the player's facing direction and damages the closest
// target on the line of fire. It returns the target entity that was hit.
func (c *PlayerController) Fire() *ecs.Entity {
	e := c.Parent()
	t, ok := ecs.Attribute[Transform](e)
	if !ok {
		return nil
	}
	if score := ecs.AttributePtr[Score](e); score != nil {
		score.Shots++
	}

	forward := t.Forward()
	c.nearby = c.params.Grid.AppendNearby(c.nearby[:0], t.Position, c.settings.Range)

	var (
		best     *Target
		bestDist = math.Inf(1)
	)
	for _, client := range c.nearby {
		other, ok := client.Data.(*ecs.Entity)
		if !ok || other == e {
			continue
		}
		target, ok := ecs.GetComponent[*Target](other)
		if !ok {
			continue
		}

		// The grid lags the transform by a physics step; it only narrows the
		// candidates.
		position := client.Position()
		if tt, ok := ecs.Attribute[Transform](other); ok {
			position = tt.Position
		}

		toTarget := position.Sub(t.Position)
		along := toTarget.X*forward.X + toTarget.Y*forward.Y
		if along < 0 || along > c.settings.Range {
			continue
		}
		closest := t.Position.Add(forward.Scale(along))
		if closest.DistanceSq(position) > target.Radius()*target.Radius() {
			continue
		}
		if along < bestDist {
			best, bestDist = target, along
		}
	}
	if best == nil {
		return nil
	}

	hit := best.Parent()
	best.Damage(c.settings.Damage)
	if score := ecs.AttributePtr[Score](e); score != nil {
		score.Hits++
	}
	c.params.logger().Debug("target hit", zap.Float64("distance", bestDist))
	return hit
}
