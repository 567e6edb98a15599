package game

import (
	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// GridBody keeps a spatial grid client in sync with the entity's Transform.
// It runs in the physics pass, after the logic that moves the entity.
type GridBody struct {
	ecs.BaseComponent

	grid       *spatial.Grid
	dimensions spatial.Vec2
	client     *spatial.Client
}

func NewGridBody(grid *spatial.Grid, dimensions spatial.Vec2) *GridBody {
	return &GridBody{grid: grid, dimensions: dimensions}
}

func (b *GridBody) InitEntity() {
	var position spatial.Vec2
	if t, ok := ecs.Attribute[Transform](b.Parent()); ok {
		position = t.Position
	}
	b.client = b.grid.NewClient(position, b.dimensions)
	b.client.Data = b.Parent()
	b.SetPass(ecs.PassPhysics)
}

func (b *GridBody) Update(dt float64) {
	if t := ecs.AttributePtr[Transform](b.Parent()); t != nil {
		b.grid.UpdateClient(b.client, t.Position)
	}
}

func (b *GridBody) Destroy() {
	b.grid.RemoveClient(b.client)
}

// Client returns the grid handle, nil before initialization.
func (b *GridBody) Client() *spatial.Client {
	return b.client
}
