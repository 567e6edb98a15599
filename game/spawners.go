package game

import (
	"math"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// maxPlacementAttempts bounds the random placement search per frame.
const maxPlacementAttempts = 8

// TargetSpawner keeps a fixed number of targets alive, placing new ones at
// random positions that keep the configured spacing from existing targets.
type TargetSpawner struct {
	ecs.BaseComponent

	params   Params
	settings TargetSettings
	live     []*ecs.Entity
	spawned  int
	nearby   []*spatial.Client
}

func NewTargetSpawner(params Params, settings TargetSettings) *TargetSpawner {
	return &TargetSpawner{params: params, settings: settings}
}

func (s *TargetSpawner) InitEntity() {
	s.SetPass(ecs.PassAI)
}

func (s *TargetSpawner) Update(dt float64) {
	live := s.live[:0]
	for _, e := range s.live {
		if e.Registered() {
			live = append(live, e)
		}
	}
	clear(s.live[len(live):])
	s.live = live

	for attempts := 0; len(s.live) < s.settings.Count && attempts < maxPlacementAttempts; attempts++ {
		position := s.randomPosition()
		if !s.Free(position) {
			continue
		}
		if _, err := s.Spawn(position); err != nil {
			s.params.logger().Warn("spawn target failed", zap.Error(err))
			return
		}
	}
}

// Free reports whether no target lies within the configured spacing of
// position.
func (s *TargetSpawner) Free(position spatial.Vec2) bool {
	s.nearby = s.params.Grid.AppendNearby(s.nearby[:0], position, s.settings.Spacing)
	for _, c := range spatial.Within(s.nearby, position, s.settings.Spacing) {
		if e, ok := c.Data.(*ecs.Entity); ok && ecs.HasComponent[*Target](e) {
			return false
		}
	}
	return true
}

// Spawn creates a target entity at position.
func (s *TargetSpawner) Spawn(position spatial.Vec2) (*ecs.Entity, error) {
	angle := s.params.Rand.Float64() * 2 * math.Pi
	speed := s.params.Rand.Float64() * s.settings.Speed

	e := ecs.NewEntity()
	ecs.SetAttribute(e, Transform{
		Position: position,
		Velocity: spatial.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(speed),
	})
	diameter := s.settings.Radius * 2
	e.AddComponent(NewTarget(s.params, s.settings.Radius, s.settings.Lifetime))
	e.AddComponent(NewGridBody(s.params.Grid, spatial.Vec2{X: diameter, Y: diameter}))

	if err := s.params.Manager.Add(e, ""); err != nil {
		return nil, err
	}
	s.live = append(s.live, e)
	s.spawned++
	return e, nil
}

// Live returns the number of targets currently alive.
func (s *TargetSpawner) Live() int {
	return len(s.live)
}

// Spawned returns the number of targets created so far.
func (s *TargetSpawner) Spawned() int {
	return s.spawned
}

func (s *TargetSpawner) randomPosition() spatial.Vec2 {
	bounds := s.params.Grid.Bounds()
	size := bounds.Size()
	inset := min(s.settings.Radius, size.X/2, size.Y/2)
	return spatial.Vec2{
		X: bounds.Min.X + inset + s.params.Rand.Float64()*(size.X-2*inset),
		Y: bounds.Min.Y + inset + s.params.Rand.Float64()*(size.Y-2*inset),
	}
}

// PlayerSpawner creates the player entity on demand.
type PlayerSpawner struct {
	ecs.BaseComponent

	params Params
	input  InputSource
	player *ecs.Entity
}

func NewPlayerSpawner(params Params, input InputSource) *PlayerSpawner {
	return &PlayerSpawner{params: params, input: input}
}

// Spawn registers the player under the name "player". Calling it again
// returns the existing player.
func (s *PlayerSpawner) Spawn() (*ecs.Entity, error) {
	if s.player != nil && s.player.Registered() {
		return s.player, nil
	}

	e := ecs.NewEntity()
	ecs.SetAttribute(e, Transform{})
	ecs.SetAttribute(e, Score{})
	ecs.SetAttribute(e, Health{Current: 100, Max: 100})
	e.AddComponent(NewPlayerInput(s.input))
	e.AddComponent(NewPlayerController(s.params, DefaultControllerSettings()))
	e.AddComponent(NewGridBody(s.params.Grid, spatial.Vec2{X: 50, Y: 50}))

	if err := s.params.Manager.Add(e, "player"); err != nil {
		return nil, err
	}
	s.player = e
	return e, nil
}
