package ecs

import (
	"slices"
	"time"
)

// ManagerStats provides statistics about pass execution.
type ManagerStats struct {
	EntityCount    int
	ComponentCount int
	Frames         int64
	Passes         []PassStats
}

// PassStats provides execution statistics for a single pass.
type PassStats struct {
	Pass           Pass
	Components     int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type passStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type passBucket struct {
	pass       Pass
	components []Component
	stats      passStatsInternal
}

func (b *passBucket) add(c Component) {
	b.components = append(b.components, c)
}

func (b *passBucket) remove(c Component) {
	b.components = slices.DeleteFunc(b.components, func(other Component) bool {
		return other == c
	})
}

func (b *passBucket) snapshot() PassStats {
	avg := time.Duration(0)
	if b.stats.executionCount > 0 {
		avg = b.stats.totalDuration / time.Duration(b.stats.executionCount)
	}
	return PassStats{
		Pass:           b.pass,
		Components:     len(b.components),
		ExecutionCount: b.stats.executionCount,
		MinDuration:    b.stats.minDuration,
		MaxDuration:    b.stats.maxDuration,
		AvgDuration:    avg,
		LastDuration:   b.stats.lastDuration,
		TotalDuration:  b.stats.totalDuration,
	}
}

// bucket returns the bucket for pass, creating it in sorted position.
func (m *EntityManager) bucket(pass Pass) *passBucket {
	i, found := slices.BinarySearchFunc(m.buckets, pass, func(b *passBucket, p Pass) int {
		return int(b.pass) - int(p)
	})
	if found {
		return m.buckets[i]
	}
	b := &passBucket{
		pass:  pass,
		stats: passStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
	m.buckets = slices.Insert(m.buckets, i, b)
	return b
}

func (m *EntityManager) findBucket(pass Pass) *passBucket {
	i, found := slices.BinarySearchFunc(m.buckets, pass, func(b *passBucket, p Pass) int {
		return int(b.pass) - int(p)
	})
	if !found {
		return nil
	}
	return m.buckets[i]
}

// nextBucket returns the first bucket with a pass greater than after, or the
// first bucket at all when first is set. Buckets created while a frame runs
// keep their sorted position, so passing the last pass value is stable.
func (m *EntityManager) nextBucket(after Pass, first bool) *passBucket {
	for _, b := range m.buckets {
		if first || b.pass > after {
			return b
		}
	}
	return nil
}

// Update runs one frame: every pass bucket in ascending pass order, and every
// component of a bucket in attach order. Structural changes requested by the
// components are applied at the end of each pass.
func (m *EntityManager) Update(dt float64) {
	m.updating = true
	defer func() { m.updating = false }()

	var last Pass
	for first := true; ; first = false {
		b := m.nextBucket(last, first)
		if b == nil {
			break
		}
		last = b.pass
		m.runPass(b, dt)
	}
	m.frames++
}

func (m *EntityManager) runPass(b *passBucket, dt float64) {
	start := time.Now()

	// Inserts are queued while updating, so the slice cannot grow here.
	components := b.components
	for _, c := range components {
		if c.base().detached {
			continue
		}
		c.Update(dt)
	}

	duration := time.Since(start)
	m.commands.Flush(m)

	stats := &b.stats
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration
	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}

	if m.observer != nil {
		m.observer.ObservePass(b.snapshot())
	}
}

// Stats returns statistics about pass execution.
func (m *EntityManager) Stats() *ManagerStats {
	stats := &ManagerStats{
		EntityCount: len(m.entities),
		Frames:      m.frames,
		Passes:      make([]PassStats, len(m.buckets)),
	}
	for i, b := range m.buckets {
		stats.Passes[i] = b.snapshot()
		stats.ComponentCount += len(b.components)
	}
	return stats
}
