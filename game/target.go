package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/plus3/quickfps/ecs"
)

// Target is a shootable entity. It expires after its lifetime or once hit,
// removing its own entity.
type Target struct {
	ecs.BaseComponent

	manager   *ecs.EntityManager
	logger    *zap.Logger
	radius    float64
	remaining time.Duration
	hit       bool
}

func NewTarget(params Params, radius float64, lifetime time.Duration) *Target {
	return &Target{
		manager:   params.Manager,
		logger:    params.logger(),
		radius:    radius,
		remaining: lifetime,
	}
}

func (t *Target) InitEntity() {
	SetKind(t.Parent(), KindTarget)
	if _, ok := ecs.Attribute[Health](t.Parent()); !ok {
		ecs.SetAttribute(t.Parent(), Health{Current: 1, Max: 1})
	}
	t.SetPass(ecs.PassAI)
}

func (t *Target) Update(dt float64) {
	t.remaining -= time.Duration(dt * float64(time.Second))

	h := ecs.AttributePtr[Health](t.Parent())
	if h != nil && h.Current <= 0 {
		t.hit = true
	}
	if !t.hit && t.remaining > 0 {
		return
	}

	e := t.Parent()
	t.logger.Debug("target expired", zap.Stringer("entity", e.ID()), zap.Bool("hit", t.hit))
	t.manager.Remove(e)
}

// Damage applies amount to the target's health.
func (t *Target) Damage(amount int) {
	if h := ecs.AttributePtr[Health](t.Parent()); h != nil {
		h.Current -= amount
		return
	}
	t.hit = true
}

// Radius returns the hit radius.
func (t *Target) Radius() float64 {
	return t.radius
}

// SetKind tags e for the renderer.
func SetKind(e *ecs.Entity, kind Kind) {
	ecs.SetAttribute(e, kind)
}
