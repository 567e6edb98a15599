package game

import (
	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// Kinematics is the physics collaborator used by the hosts: it integrates the
// Velocity of every Transform and keeps positions inside the world bounds.
// It lives on the "physics" entity but is stepped by the frame loop, not by
// a pass.
type Kinematics struct {
	ecs.BaseComponent

	manager *ecs.EntityManager
	bounds  spatial.Bounds
}

func NewKinematics(manager *ecs.EntityManager, bounds spatial.Bounds) *Kinematics {
	return &Kinematics{manager: manager, bounds: bounds}
}

// StepSimulation advances every transform by dt seconds.
func (k *Kinematics) StepSimulation(dt float64) {
	for e := range k.manager.Entities() {
		t := ecs.AttributePtr[Transform](e)
		if t == nil {
			continue
		}
		p := t.Position.Add(t.Velocity.Scale(dt))
		if p.X < k.bounds.Min.X || p.X > k.bounds.Max.X {
			t.Velocity.X = -t.Velocity.X
			p.X = min(max(p.X, k.bounds.Min.X), k.bounds.Max.X)
		}
		if p.Y < k.bounds.Min.Y || p.Y > k.bounds.Max.Y {
			t.Velocity.Y = -t.Velocity.Y
			p.Y = min(max(p.Y, k.bounds.Min.Y), k.bounds.Max.Y)
		}
		t.Position = p
	}
}
