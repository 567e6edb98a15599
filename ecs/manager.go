package ecs

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"
)

var (
	ErrNilEntity         = errors.New("ecs: nil entity")
	ErrAlreadyRegistered = errors.New("ecs: entity already registered")
	ErrNameTaken         = errors.New("ecs: entity name already taken")
)

// PassObserver receives the timing of every executed pass.
type PassObserver interface {
	ObservePass(stats PassStats)
}

// ManagerOption configures an EntityManager.
type ManagerOption func(*EntityManager)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *EntityManager) {
		m.logger = logger
	}
}

// WithPassObserver registers an observer called after each pass.
func WithPassObserver(observer PassObserver) ManagerOption {
	return func(m *EntityManager) {
		m.observer = observer
	}
}

// EntityManager owns the entities of a game session and runs their
// components in ascending pass order every frame.
type EntityManager struct {
	logger   *zap.Logger
	observer PassObserver

	named    map[string]*Entity
	entities []*Entity
	buckets  []*passBucket
	commands *Commands
	updating bool
	frames   int64
}

// NewEntityManager creates an empty manager.
func NewEntityManager(opts ...ManagerOption) *EntityManager {
	m := &EntityManager{
		logger:   zap.NewNop(),
		named:    make(map[string]*Entity),
		commands: newCommands(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add registers e, optionally under a unique name ("" registers it
// anonymously). Every component already attached to e is initialized in
// attach order and scheduled in its pass.
func (m *EntityManager) Add(e *Entity, name string) error {
	if e == nil {
		return ErrNilEntity
	}
	if e.manager != nil {
		return fmt.Errorf("add %q: %w", e.label(), ErrAlreadyRegistered)
	}
	if name != "" {
		if _, ok := m.named[name]; ok {
			return fmt.Errorf("add %q: %w", name, ErrNameTaken)
		}
		m.named[name] = e
	}

	e.name = name
	e.manager = m
	m.entities = append(m.entities, e)

	// InitEntity may attach or replace siblings; those are handled by
	// AddComponent directly, so only initialize what is still attached.
	for _, c := range slices.Clone(e.components) {
		b := c.base()
		switch {
		case b.detached:
		case m.updating && m.commands.cancelRemove(c):
			// Moved here from another entity during this pass; still scheduled.
		case !b.initialized:
			m.attach(c)
		}
	}

	m.logger.Debug("entity added",
		zap.String("entity", e.label()),
		zap.Int("components", len(e.components)))
	return nil
}

// Get returns the entity registered under name.
func (m *EntityManager) Get(name string) (*Entity, bool) {
	e, ok := m.named[name]
	return e, ok
}

// Remove unregisters e and tears down its components. Called during Update,
// the removal from the pass buckets and the teardown hooks are applied at the
// end of the current pass; the entity's remaining components are not updated
// after the call. It returns false if e is not registered with m.
func (m *EntityManager) Remove(e *Entity) bool {
	if e == nil || e.manager != m {
		return false
	}

	if e.name != "" && m.named[e.name] == e {
		delete(m.named, e.name)
	}
	m.entities = slices.DeleteFunc(m.entities, func(other *Entity) bool {
		return other == e
	})

	for _, c := range e.components {
		m.detach(c)
	}
	e.components = nil
	clear(e.byType)
	e.manager = nil

	m.logger.Debug("entity removed", zap.String("entity", e.label()))
	return true
}

// Defer runs fn at the end of the current pass, or immediately when no
// update is in progress.
func (m *EntityManager) Defer(fn func()) {
	if m.updating {
		m.commands.Defer(fn)
		return
	}
	fn()
}

// Filter returns the registered entities for which keep returns true, in
// registration order.
func (m *EntityManager) Filter(keep func(*Entity) bool) []*Entity {
	var out []*Entity
	for _, e := range m.entities {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Entities iterates the registered entities in registration order.
func (m *EntityManager) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range slices.Clone(m.entities) {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of registered entities.
func (m *EntityManager) Len() int {
	return len(m.entities)
}

// Shutdown removes every entity, in reverse registration order.
func (m *EntityManager) Shutdown() {
	for i := len(m.entities) - 1; i >= 0; i-- {
		m.Remove(m.entities[i])
	}
	m.commands.Flush(m)
	m.logger.Info("entity manager shut down", zap.Int64("frames", m.frames))
}

// attach initializes c and places it in its pass bucket.
func (m *EntityManager) attach(c Component) {
	b := c.base()
	// Detached and re-attached within the same pass: it never left its bucket.
	if m.updating && m.commands.cancelRemove(c) {
		b.sealed = true
		return
	}
	if !b.initialized {
		c.InitEntity()
		b.initialized = true
	}
	b.sealed = true

	// InitEntity may have removed the component or its entity.
	if b.detached {
		return
	}
	if m.updating {
		m.commands.insert(c)
		return
	}
	m.bucket(b.pass).add(c)
}

// detach marks c as removed and drops it from its bucket.
func (m *EntityManager) detach(c Component) {
	b := c.base()
	if b.detached {
		return
	}
	b.detached = true
	if m.updating {
		m.commands.remove(c)
		return
	}
	m.drop(c)
}

// drop unschedules c and tears it down. A later attach initializes it again.
func (m *EntityManager) drop(c Component) {
	b := c.base()
	m.unschedule(c)
	if d, ok := c.(Destroyer); ok && b.initialized {
		d.Destroy()
	}
	b.initialized = false
	b.sealed = false
}

func (m *EntityManager) unschedule(c Component) {
	if bucket := m.findBucket(c.base().pass); bucket != nil {
		bucket.remove(c)
	}
}
