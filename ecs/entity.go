package ecs

import (
	"reflect"
	"slices"
	"weak"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity is a game object: an ordered set of components plus a typed
// attribute blackboard shared by those components. The zero value is usable
// but has a nil ID; NewEntity assigns one.
type Entity struct {
	id         uuid.UUID
	name       string
	components []Component
	byType     map[reflect.Type]Component
	attributes map[reflect.Type]any
	manager    *EntityManager
}

// NewEntity creates an empty, unregistered entity.
func NewEntity() *Entity {
	return &Entity{
		id:         uuid.New(),
		byType:     make(map[reflect.Type]Component),
		attributes: make(map[reflect.Type]any),
	}
}

// ID returns the entity's unique identifier.
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// Name returns the name the entity was registered under, or "" if anonymous.
func (e *Entity) Name() string {
	return e.name
}

// Registered reports whether the entity is currently owned by a manager.
func (e *Entity) Registered() bool {
	return e.manager != nil
}

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// AddComponent attaches c to the entity. If the entity is already registered,
// c is initialized and scheduled immediately; otherwise initialization waits
// for EntityManager.Add.
//
// Attaching a second component of the same type replaces the first one: the
// previous instance is detached (and torn down if it was initialized) and the
// new one goes to the end of the attach order. A component still attached to
// another entity is detached from it first; both entities must belong to the
// same manager, or to none.
func (e *Entity) AddComponent(c Component) {
	if c == nil {
		return
	}
	if e.byType == nil {
		e.byType = make(map[reflect.Type]Component)
	}

	typ := reflect.TypeOf(c)
	b := c.base()
	if prev := b.parent.Value(); prev != nil && prev != e && !b.detached && prev.byType[typ] == c {
		prev.detach(c)
	}

	if old, ok := e.byType[typ]; ok {
		if old == c {
			return
		}
		if e.manager != nil {
			e.manager.logger.Debug("replacing component",
				zap.String("entity", e.label()),
				zap.Stringer("type", typ))
		}
		e.detach(old)
	}

	b.parent = weak.Make(e)
	b.detached = false
	e.components = append(e.components, c)
	e.byType[typ] = c

	if e.manager != nil {
		e.manager.attach(c)
	}
}

// detach removes c from the entity and, if registered, from the manager.
func (e *Entity) detach(c Component) {
	typ := reflect.TypeOf(c)
	if e.byType[typ] == c {
		delete(e.byType, typ)
	}
	e.components = slices.DeleteFunc(e.components, func(other Component) bool {
		return other == c
	})

	if e.manager != nil {
		e.manager.detach(c)
		return
	}
	c.base().detached = true
}

func (e *Entity) label() string {
	if e.name != "" {
		return e.name
	}
	return e.id.String()
}

// GetComponent returns the component of concrete type T attached to e.
// The second result is false when no such component is attached.
func GetComponent[T Component](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	c, ok := e.byType[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}

// HasComponent reports whether a component of type T is attached to e.
func HasComponent[T Component](e *Entity) bool {
	_, ok := GetComponent[T](e)
	return ok
}

// RemoveComponent detaches the component of type T from e. It returns false
// if no such component was attached.
func RemoveComponent[T Component](e *Entity) bool {
	c, ok := GetComponent[T](e)
	if !ok {
		return false
	}
	e.detach(c)
	return true
}
