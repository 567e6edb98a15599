package ecs

import (
	"iter"
	"reflect"
)

// The blackboard stores at most one value per Go type. Components publish
// shared state (input, transform, health) by defining a type for it.

// SetAttribute stores value on e's blackboard, replacing any previous value of
// the same type.
func SetAttribute[T any](e *Entity, value T) {
	if e.attributes == nil {
		e.attributes = make(map[reflect.Type]any)
	}
	e.attributes[reflect.TypeFor[T]()] = &value
}

// Attribute returns a copy of the value of type T, or false if none is set.
func Attribute[T any](e *Entity) (T, bool) {
	if ptr := AttributePtr[T](e); ptr != nil {
		return *ptr, true
	}
	var zero T
	return zero, false
}

// AttributePtr returns a pointer to the stored value of type T so that it can
// be modified in place. It returns nil if no value is set.
func AttributePtr[T any](e *Entity) *T {
	if e == nil {
		return nil
	}
	v, ok := e.attributes[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return v.(*T)
}

// DeleteAttribute removes the value of type T from e's blackboard.
func DeleteAttribute[T any](e *Entity) {
	delete(e.attributes, reflect.TypeFor[T]())
}

// Attributes iterates e's blackboard as (type, *value) pairs.
func (e *Entity) Attributes() iter.Seq2[reflect.Type, any] {
	return func(yield func(reflect.Type, any) bool) {
		for typ, v := range e.attributes {
			if !yield(typ, v) {
				return
			}
		}
	}
}
