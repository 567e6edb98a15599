package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/quickfps/ecs"
)

func TestManagerAdd(t *testing.T) {
	t.Run("nil entity", func(t *testing.T) {
		m := ecs.NewEntityManager()
		assert.ErrorIs(t, m.Add(nil, ""), ecs.ErrNilEntity)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		m := ecs.NewEntityManager()
		e := ecs.NewEntity()
		require.NoError(t, m.Add(e, ""))
		assert.ErrorIs(t, m.Add(e, ""), ecs.ErrAlreadyRegistered)
		assert.ErrorIs(t, ecs.NewEntityManager().Add(e, ""), ecs.ErrAlreadyRegistered)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("name conflict", func(t *testing.T) {
		m := ecs.NewEntityManager()
		first := ecs.NewEntity()
		require.NoError(t, m.Add(first, "player"))

		second := ecs.NewEntity()
		assert.ErrorIs(t, m.Add(second, "player"), ecs.ErrNameTaken)
		assert.False(t, second.Registered())

		got, ok := m.Get("player")
		require.True(t, ok)
		assert.Same(t, first, got)
		assert.Equal(t, "player", got.Name())
	})

	t.Run("get miss", func(t *testing.T) {
		m := ecs.NewEntityManager()
		require.NoError(t, m.Add(ecs.NewEntity(), ""))
		_, ok := m.Get("nobody")
		assert.False(t, ok)
		_, ok = m.Get("")
		assert.False(t, ok)
	})
}

func TestManagerPassOrder(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()
	e := ecs.NewEntity()
	e.AddComponent(&aiRecorder{newRecorder("ai-1", ecs.PassAI, log)})
	e.AddComponent(&inputRecorder{newRecorder("input", ecs.PassInput, log)})
	e.AddComponent(&otherAIRecorder{newRecorder("ai-2", ecs.PassAI, log)})
	require.NoError(t, m.Add(e, ""))

	log.events = nil
	m.Update(0.016)

	assert.Equal(t, []string{"update:input", "update:ai-1", "update:ai-2"}, log.events)
}

func TestManagerPassOrderAcrossEntities(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()

	a := ecs.NewEntity()
	a.AddComponent(&physicsRecorder{newRecorder("a-physics", ecs.PassPhysics, log)})
	a.AddComponent(&aiRecorder{newRecorder("a-ai", ecs.PassAI, log)})
	require.NoError(t, m.Add(a, "a"))

	b := ecs.NewEntity()
	b.AddComponent(&aiRecorder{newRecorder("b-ai", ecs.PassAI, log)})
	b.AddComponent(&inputRecorder{newRecorder("b-input", ecs.PassInput, log)})
	require.NoError(t, m.Add(b, "b"))

	log.events = nil
	m.Update(0.016)

	assert.Equal(t, []string{
		"update:b-input",
		"update:a-ai",
		"update:b-ai",
		"update:a-physics",
	}, log.events)
}

func TestManagerRemove(t *testing.T) {
	t.Run("outside update", func(t *testing.T) {
		log := &journal{}
		m := ecs.NewEntityManager()
		e := ecs.NewEntity()
		c := &aiRecorder{newRecorder("ai", ecs.PassAI, log)}
		e.AddComponent(c)
		require.NoError(t, m.Add(e, "target"))

		assert.True(t, m.Remove(e))
		assert.False(t, m.Remove(e))
		assert.False(t, e.Registered())
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 1, c.destroys)
		_, ok := m.Get("target")
		assert.False(t, ok)

		m.Update(0.016)
		assert.Equal(t, 0, c.updates)
	})

	t.Run("foreign entity", func(t *testing.T) {
		m := ecs.NewEntityManager()
		other := ecs.NewEntityManager()
		e := ecs.NewEntity()
		require.NoError(t, other.Add(e, ""))
		assert.False(t, m.Remove(e))
		assert.False(t, m.Remove(nil))
		assert.True(t, e.Registered())
	})

	t.Run("self removal during update", func(t *testing.T) {
		log := &journal{}
		m := ecs.NewEntityManager()
		e := ecs.NewEntity()
		self := &aiRecorder{newRecorder("self", ecs.PassAI, log)}
		sibling := &otherAIRecorder{newRecorder("sibling", ecs.PassAI, log)}
		later := &physicsRecorder{newRecorder("later", ecs.PassPhysics, log)}
		self.onUpdate = func() {
			assert.True(t, m.Remove(self.Parent()))
			assert.Equal(t, 0, self.destroys)
		}
		e.AddComponent(self)
		e.AddComponent(sibling)
		e.AddComponent(later)
		require.NoError(t, m.Add(e, ""))

		log.events = nil
		m.Update(0.016)

		assert.Equal(t, []string{
			"update:self",
			"destroy:self",
			"destroy:sibling",
			"destroy:later",
		}, log.events)
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 0, m.Stats().ComponentCount)
	})

	t.Run("removal of another entity during update", func(t *testing.T) {
		log := &journal{}
		m := ecs.NewEntityManager()

		victim := ecs.NewEntity()
		victimAI := &otherAIRecorder{newRecorder("victim", ecs.PassAI, log)}
		victim.AddComponent(victimAI)

		killer := ecs.NewEntity()
		k := &aiRecorder{newRecorder("killer", ecs.PassAI, log)}
		k.onUpdate = func() { m.Remove(victim) }
		killer.AddComponent(k)

		require.NoError(t, m.Add(killer, ""))
		require.NoError(t, m.Add(victim, ""))

		m.Update(0.016)
		assert.Equal(t, 0, victimAI.updates)
		assert.Equal(t, 1, victimAI.destroys)
	})
}

func TestManagerDeferredAdd(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()

	spawned := &inputRecorder{newRecorder("spawned", ecs.PassInput, log)}
	lateAI := &otherAIRecorder{newRecorder("late-ai", ecs.PassAI, log)}
	latePhysics := &physicsRecorder{newRecorder("late-physics", ecs.PassPhysics, log)}

	spawner := ecs.NewEntity()
	s := &aiRecorder{newRecorder("spawner", ecs.PassAI, log)}
	s.onUpdate = func() {
		if s.updates > 1 {
			return
		}
		e := ecs.NewEntity()
		e.AddComponent(spawned)
		e.AddComponent(lateAI)
		e.AddComponent(latePhysics)
		require.NoError(t, m.Add(e, ""))
	}
	spawner.AddComponent(s)
	require.NoError(t, m.Add(spawner, ""))

	m.Update(0.016)
	assert.Equal(t, 1, spawned.inits)
	assert.Equal(t, 0, spawned.updates, "input pass already ran this frame")
	assert.Equal(t, 0, lateAI.updates, "added to the running pass")
	assert.Equal(t, 1, latePhysics.updates, "later pass picks it up")

	m.Update(0.016)
	assert.Equal(t, 1, spawned.updates)
	assert.Equal(t, 1, lateAI.updates)
	assert.Equal(t, 2, latePhysics.updates)
}

func TestManagerNewPassDuringUpdate(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()

	late := &physicsRecorder{newRecorder("late", ecs.PassPhysics, log)}
	e := ecs.NewEntity()
	s := &inputRecorder{newRecorder("adder", ecs.PassInput, log)}
	s.onUpdate = func() {
		if !ecs.HasComponent[*physicsRecorder](s.Parent()) {
			s.Parent().AddComponent(late)
		}
	}
	e.AddComponent(s)
	require.NoError(t, m.Add(e, ""))

	m.Update(0.016)
	assert.Equal(t, 1, late.updates)
}

func TestManagerDefer(t *testing.T) {
	t.Run("immediate outside update", func(t *testing.T) {
		m := ecs.NewEntityManager()
		ran := false
		m.Defer(func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("end of pass during update", func(t *testing.T) {
		log := &journal{}
		m := ecs.NewEntityManager()
		e := ecs.NewEntity()
		a := &aiRecorder{newRecorder("a", ecs.PassAI, log)}
		a.onUpdate = func() { m.Defer(func() { log.add("deferred") }) }
		e.AddComponent(a)
		e.AddComponent(&otherAIRecorder{newRecorder("b", ecs.PassAI, log)})
		e.AddComponent(&physicsRecorder{newRecorder("c", ecs.PassPhysics, log)})
		require.NoError(t, m.Add(e, ""))

		log.events = nil
		m.Update(0.016)
		assert.Equal(t, []string{"update:a", "update:b", "deferred", "update:c"}, log.events)
	})
}

func TestManagerFilter(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()
	withAI := ecs.NewEntity()
	withAI.AddComponent(&aiRecorder{newRecorder("ai", ecs.PassAI, log)})
	plain := ecs.NewEntity()
	require.NoError(t, m.Add(plain, ""))
	require.NoError(t, m.Add(withAI, ""))

	got := m.Filter(ecs.HasComponent[*aiRecorder])
	assert.Equal(t, []*ecs.Entity{withAI}, got)

	assert.Empty(t, m.Filter(ecs.HasComponent[*inputRecorder]))

	var all []*ecs.Entity
	for e := range m.Entities() {
		all = append(all, e)
	}
	assert.Equal(t, []*ecs.Entity{plain, withAI}, all)
}

func TestManagerStats(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()
	e := ecs.NewEntity()
	e.AddComponent(&aiRecorder{newRecorder("ai", ecs.PassAI, log)})
	e.AddComponent(&otherAIRecorder{newRecorder("ai-2", ecs.PassAI, log)})
	e.AddComponent(&inputRecorder{newRecorder("input", ecs.PassInput, log)})
	require.NoError(t, m.Add(e, ""))

	m.Update(0.016)
	m.Update(0.016)

	stats := m.Stats()
	assert.Equal(t, 1, stats.EntityCount)
	assert.Equal(t, 3, stats.ComponentCount)
	assert.Equal(t, int64(2), stats.Frames)
	require.Len(t, stats.Passes, 2)
	assert.Equal(t, ecs.PassInput, stats.Passes[0].Pass)
	assert.Equal(t, ecs.PassAI, stats.Passes[1].Pass)
	assert.Equal(t, 2, stats.Passes[1].Components)
	assert.Equal(t, int64(2), stats.Passes[1].ExecutionCount)
	assert.LessOrEqual(t, stats.Passes[1].MinDuration, stats.Passes[1].MaxDuration)
}

type passRecorder struct {
	passes []ecs.Pass
}

func (r *passRecorder) ObservePass(stats ecs.PassStats) {
	r.passes = append(r.passes, stats.Pass)
}

func TestManagerPassObserver(t *testing.T) {
	log := &journal{}
	rec := &passRecorder{}
	m := ecs.NewEntityManager(ecs.WithPassObserver(rec))
	e := ecs.NewEntity()
	e.AddComponent(&physicsRecorder{newRecorder("physics", ecs.PassPhysics, log)})
	e.AddComponent(&inputRecorder{newRecorder("input", ecs.PassInput, log)})
	require.NoError(t, m.Add(e, ""))

	m.Update(0.016)
	assert.Equal(t, []ecs.Pass{ecs.PassInput, ecs.PassPhysics}, rec.passes)
}

func TestManagerShutdown(t *testing.T) {
	log := &journal{}
	m := ecs.NewEntityManager()
	first := ecs.NewEntity()
	first.AddComponent(&aiRecorder{newRecorder("first", ecs.PassAI, log)})
	second := ecs.NewEntity()
	second.AddComponent(&aiRecorder{newRecorder("second", ecs.PassAI, log)})
	require.NoError(t, m.Add(first, ""))
	require.NoError(t, m.Add(second, ""))

	log.events = nil
	m.Shutdown()

	assert.Equal(t, []string{"destroy:second", "destroy:first"}, log.events)
	assert.Equal(t, 0, m.Len())
}

func TestPassString(t *testing.T) {
	assert.Equal(t, "input", ecs.PassInput.String())
	assert.Equal(t, "physics", ecs.PassPhysics.String())
	assert.Equal(t, "pass(3)", ecs.Pass(3).String())
}
