package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/frameloop"
	"github.com/plus3/quickfps/spatial"
)

// SessionConfig describes a game session.
type SessionConfig struct {
	Bounds     spatial.Bounds
	Dimensions spatial.Dimensions
	Targets    TargetSettings
	MaxStep    time.Duration
	Seed       uint64
}

// Observer receives pass and frame measurements.
type Observer interface {
	ecs.PassObserver
	frameloop.Observer
}

// Session wires the entity manager, the spatial grid and the frame loop
// together and registers the controller entities.
type Session struct {
	Manager *ecs.EntityManager
	Grid    *spatial.Grid
	Loop    *frameloop.Loop
	Physics *Kinematics
	Targets *TargetSpawner
	Player  *ecs.Entity
}

// NewSession builds a session. renderer and observer may be nil.
func NewSession(cfg SessionConfig, input InputSource, renderer frameloop.Renderer, observer Observer, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	managerOpts := []ecs.ManagerOption{ecs.WithLogger(logger.Named("ecs"))}
	if observer != nil {
		managerOpts = append(managerOpts, ecs.WithPassObserver(observer))
	}
	manager := ecs.NewEntityManager(managerOpts...)

	grid, err := spatial.NewGrid(cfg.Bounds, cfg.Dimensions, spatial.WithLogger(logger.Named("grid")))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	params := Params{
		Manager: manager,
		Grid:    grid,
		Rand:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		Logger:  logger.Named("game"),
	}

	physics := ecs.NewEntity()
	physics.AddComponent(NewKinematics(manager, cfg.Bounds))
	if err := manager.Add(physics, "physics"); err != nil {
		return nil, err
	}

	spawners := ecs.NewEntity()
	spawners.AddComponent(NewPlayerSpawner(params, input))
	spawners.AddComponent(NewTargetSpawner(params, cfg.Targets))
	if err := manager.Add(spawners, "spawners"); err != nil {
		return nil, err
	}

	kinematics, _ := ecs.GetComponent[*Kinematics](physics)
	playerSpawner, _ := ecs.GetComponent[*PlayerSpawner](spawners)
	targetSpawner, _ := ecs.GetComponent[*TargetSpawner](spawners)

	player, err := playerSpawner.Spawn()
	if err != nil {
		return nil, err
	}

	loopOpts := []frameloop.Option{
		frameloop.WithPhysics(kinematics),
		frameloop.WithMaxStep(cfg.MaxStep),
		frameloop.WithLogger(logger.Named("loop")),
	}
	if renderer != nil {
		loopOpts = append(loopOpts, frameloop.WithRenderer(renderer))
	}
	if observer != nil {
		loopOpts = append(loopOpts, frameloop.WithObserver(observer))
	}

	logger.Info("session started",
		zap.Int("targets", cfg.Targets.Count),
		zap.Int("columns", cfg.Dimensions.Columns),
		zap.Int("rows", cfg.Dimensions.Rows))

	return &Session{
		Manager: manager,
		Grid:    grid,
		Loop:    frameloop.New(manager, loopOpts...),
		Physics: kinematics,
		Targets: targetSpawner,
		Player:  player,
	}, nil
}

// Close tears down every entity of the session.
func (s *Session) Close() {
	s.Manager.Shutdown()
}
