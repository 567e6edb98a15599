package ecs

import "weak"

// Component is a unit of behavior attached to exactly one Entity.
// Implementations embed BaseComponent, which supplies the owner back-reference,
// the scheduling pass and no-op defaults for InitEntity and Update.
type Component interface {
	// InitEntity runs once, after the owning entity has been registered with
	// an EntityManager and before the first Update.
	InitEntity()
	// Update runs once per frame during the component's pass.
	Update(dt float64)

	base() *BaseComponent
}

// Destroyer is implemented by components that need a teardown hook when they
// are detached from a registered entity.
type Destroyer interface {
	Destroy()
}

// BaseComponent carries the state every component shares.
type BaseComponent struct {
	parent      weak.Pointer[Entity]
	pass        Pass
	sealed      bool
	initialized bool
	detached    bool
}

func (b *BaseComponent) base() *BaseComponent { return b }

// InitEntity is a no-op default.
func (b *BaseComponent) InitEntity() {}

// Update is a no-op default.
func (b *BaseComponent) Update(dt float64) {}

// Parent returns the entity the component was last attached to, or nil if it
// was never attached or the entity has been collected.
func (b *BaseComponent) Parent() *Entity {
	return b.parent.Value()
}

// Pass returns the scheduling pass of the component.
func (b *BaseComponent) Pass() Pass {
	return b.pass
}

// SetPass declares the scheduling pass. It must be called before or during
// InitEntity; once the component is registered further calls are ignored.
func (b *BaseComponent) SetPass(pass Pass) {
	if b.sealed {
		return
	}
	b.pass = pass
}

// Live reports whether the component is attached to a registered entity.
func (b *BaseComponent) Live() bool {
	return b.initialized && !b.detached
}

// PassOf returns the scheduling pass of c.
func PassOf(c Component) Pass {
	return c.base().pass
}
