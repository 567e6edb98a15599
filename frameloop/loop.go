// Package frameloop drives the entity manager once per display refresh with
// a capped simulation step, then hands the frame to physics and rendering.
package frameloop

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
)

// DefaultMaxStep bounds a single simulation step. Longer stalls are absorbed
// as one capped step instead of being replayed.
const DefaultMaxStep = time.Second / 30

// Physics advances the physics world.
type Physics interface {
	StepSimulation(dt float64)
}

// Renderer presents a frame.
type Renderer interface {
	Render(dt float64)
}

// FrameSource blocks until the host is ready for the next frame and returns
// the frame timestamp.
type FrameSource interface {
	NextFrame(ctx context.Context) (time.Time, error)
}

// FrameStats describes one executed step.
type FrameStats struct {
	Frame    int64
	Elapsed  time.Duration
	Step     time.Duration
	Clamped  bool
	Entities int
}

// Observer is notified after every executed step.
type Observer interface {
	ObserveFrame(stats FrameStats)
}

// Option configures a Loop.
type Option func(*Loop)

func WithPhysics(p Physics) Option     { return func(l *Loop) { l.physics = p } }
func WithRenderer(r Renderer) Option   { return func(l *Loop) { l.renderer = r } }
func WithObserver(o Observer) Option   { return func(l *Loop) { l.observer = o } }
func WithLogger(lg *zap.Logger) Option { return func(l *Loop) { l.logger = lg } }

// WithMaxStep overrides DefaultMaxStep. Non-positive values are ignored.
func WithMaxStep(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.maxStep = d
		}
	}
}

// Loop is the frame scheduler.
type Loop struct {
	manager  *ecs.EntityManager
	physics  Physics
	renderer Renderer
	observer Observer
	logger   *zap.Logger
	maxStep  time.Duration

	previous  time.Time
	started   bool
	frames    int64
	clamped   int64
	simulated time.Duration
}

// New creates a loop advancing manager.
func New(manager *ecs.EntityManager, opts ...Option) *Loop {
	l := &Loop{
		manager: manager,
		logger:  zap.NewNop(),
		maxStep: DefaultMaxStep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tick handles one refresh at time now. The first call only records the
// baseline; it returns false in that case.
func (l *Loop) Tick(now time.Time) (FrameStats, bool) {
	if !l.started {
		l.started = true
		l.previous = now
		return FrameStats{}, false
	}

	elapsed := now.Sub(l.previous)
	l.previous = now
	if elapsed < 0 {
		elapsed = 0
	}

	step := min(elapsed, l.maxStep)
	clamped := step < elapsed
	if clamped {
		l.clamped++
		l.logger.Debug("frame step clamped",
			zap.Duration("elapsed", elapsed),
			zap.Duration("step", step))
	}

	l.step(step)

	stats := FrameStats{
		Frame:    l.frames,
		Elapsed:  elapsed,
		Step:     step,
		Clamped:  clamped,
		Entities: l.manager.Len(),
	}
	if l.observer != nil {
		l.observer.ObserveFrame(stats)
	}
	return stats, true
}

func (l *Loop) step(step time.Duration) {
	dt := step.Seconds()

	l.manager.Update(dt)
	if l.physics != nil {
		l.physics.StepSimulation(dt)
	}
	if l.renderer != nil {
		l.renderer.Render(dt)
	}

	l.frames++
	l.simulated += step
}

// Run ticks the loop for every frame delivered by source until ctx is
// cancelled or the source fails. Cancellation is not reported as an error.
func (l *Loop) Run(ctx context.Context, source FrameSource) error {
	l.logger.Info("frame loop started", zap.Duration("max_step", l.maxStep))
	defer func() {
		l.logger.Info("frame loop stopped",
			zap.Int64("frames", l.frames),
			zap.Int64("clamped", l.clamped),
			zap.Duration("simulated", l.simulated))
	}()

	for {
		now, err := source.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		l.Tick(now)
	}
}

// Frames returns the number of executed steps.
func (l *Loop) Frames() int64 { return l.frames }

// ClampedFrames returns how many steps were capped at the maximum step.
func (l *Loop) ClampedFrames() int64 { return l.clamped }

// Simulated returns the total simulated time.
func (l *Loop) Simulated() time.Duration { return l.simulated }

// MaxStep returns the step cap.
func (l *Loop) MaxStep() time.Duration { return l.maxStep }
