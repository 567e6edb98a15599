package main

import (
	"math/rand/v2"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// position is the blackboard attribute shared by the stress components.
type position struct {
	spatial.Vec2
	Velocity spatial.Vec2
}

// steer picks a new heading now and then during the AI pass.
type steer struct {
	ecs.BaseComponent
	rand  *rand.Rand
	speed float64
}

func (s *steer) InitEntity() {
	s.SetPass(ecs.PassAI)
}

func (s *steer) Update(dt float64) {
	p := ecs.AttributePtr[position](s.Parent())
	if s.rand.IntN(30) == 0 {
		p.Velocity = spatial.Vec2{
			X: (s.rand.Float64()*2 - 1) * s.speed,
			Y: (s.rand.Float64()*2 - 1) * s.speed,
		}
	}
}

// move integrates the heading and keeps the grid client in sync during the
// physics pass.
type move struct {
	ecs.BaseComponent
	grid   *spatial.Grid
	client *spatial.Client
}

func (m *move) InitEntity() {
	p := ecs.AttributePtr[position](m.Parent())
	m.client = m.grid.NewClient(p.Vec2, spatial.Vec2{X: 10, Y: 10})
	m.SetPass(ecs.PassPhysics)
}

func (m *move) Update(dt float64) {
	p := ecs.AttributePtr[position](m.Parent())
	p.Vec2 = p.Add(p.Velocity.Scale(dt))
	m.grid.UpdateClient(m.client, p.Vec2)
}

func (m *move) Destroy() {
	m.grid.RemoveClient(m.client)
}

// sense queries the grid around the entity during the animation pass and
// counts neighbours within radius.
type sense struct {
	ecs.BaseComponent
	grid      *spatial.Grid
	radius    float64
	buf       []*spatial.Client
	neighbors *int64
}

func (s *sense) InitEntity() {
	s.SetPass(ecs.PassAnimation)
}

func (s *sense) Update(dt float64) {
	p := ecs.AttributePtr[position](s.Parent())
	s.buf = s.grid.AppendNearby(s.buf[:0], p.Vec2, s.radius)
	*s.neighbors += int64(len(spatial.Within(s.buf, p.Vec2, s.radius)))
}

// churn replaces a random share of entities every frame to exercise
// removal and registration while passes run.
type churn struct {
	ecs.BaseComponent
	manager *ecs.EntityManager
	spawn   func() *ecs.Entity
	rand    *rand.Rand
	rate    float64
	removed *int64
}

func (c *churn) InitEntity() {
	c.SetPass(ecs.PassCamera)
}

func (c *churn) Update(dt float64) {
	if c.rand.Float64() >= c.rate {
		return
	}
	c.manager.Remove(c.Parent())
	*c.removed++
	c.manager.Defer(func() {
		_ = c.manager.Add(c.spawn(), "")
	})
}
