package ecs

// Commands buffers structural changes requested while a pass is running.
// They are applied when the pass finishes so that a bucket is never modified
// while it is being iterated.
type Commands struct {
	inserts []Component
	removes []Component
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues a function to run when the current pass ends.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

func (c *Commands) insert(comp Component) {
	c.inserts = append(c.inserts, comp)
}

func (c *Commands) remove(comp Component) {
	c.removes = append(c.removes, comp)
}

// cancelRemove drops a queued removal of comp. It reports whether one was
// pending.
func (c *Commands) cancelRemove(comp Component) bool {
	for i, queued := range c.removes {
		if queued == comp {
			c.removes = append(c.removes[:i], c.removes[i+1:]...)
			return true
		}
	}
	return false
}

// Empty reports whether nothing is queued.
func (c *Commands) Empty() bool {
	return len(c.inserts) == 0 && len(c.removes) == 0 && len(c.defers) == 0
}

// Flush applies the queued changes to m and resets the buffer. Deferred
// functions may queue further work while m is updating; it is applied by the
// same call.
func (c *Commands) Flush(m *EntityManager) {
	for !c.Empty() {
		removes, inserts, defers := c.removes, c.inserts, c.defers
		c.removes, c.inserts, c.defers = nil, nil, nil

		for _, comp := range removes {
			if !comp.base().detached {
				// Re-attached elsewhere during the pass. A registered owner
				// keeps it initialized; otherwise it is torn down and
				// initialized again on registration.
				if p := comp.base().parent.Value(); p != nil && p.manager != nil {
					m.unschedule(comp)
					continue
				}
			}
			m.drop(comp)
		}

		for _, comp := range inserts {
			if comp.base().detached {
				continue
			}
			m.bucket(comp.base().pass).add(comp)
		}

		for _, fn := range defers {
			fn()
		}
	}
}
