package cart

// Subscribe registers fn to receive a snapshot after every accepted
// transition. The returned function removes the subscription.
func (c *Cart) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subscribers[id] = fn
	c.subOrder = append(c.subOrder, id)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subscribers[id]; !ok {
			return
		}
		delete(c.subscribers, id)
		for i, existing := range c.subOrder {
			if existing == id {
				c.subOrder = append(c.subOrder[:i:i], c.subOrder[i+1:]...)
				break
			}
		}
	}
}

// enqueue schedules fn to run outside the lock. Callers hold c.mu.
func (c *Cart) enqueue(fn func()) {
	c.pending = append(c.pending, fn)
}

// notifySubscribers queues one delivery per current subscriber. Callers hold
// c.mu.
func (c *Cart) notifySubscribers(state State) {
	if len(c.subOrder) == 0 {
		return
	}
	listeners := make([]func(State), 0, len(c.subOrder))
	for _, id := range c.subOrder {
		listeners = append(listeners, c.subscribers[id])
	}
	c.enqueue(func() {
		for _, fn := range listeners {
			fn(state.Clone())
		}
	})
}

// drain runs queued notifications in commit order. Nested calls made from a
// listener return immediately and their work is picked up by the outer loop.
func (c *Cart) drain() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		if len(batch) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.runBatch(batch)
	}
}

func (c *Cart) runBatch(batch []func()) {
	completed := false
	defer func() {
		if !completed {
			c.mu.Lock()
			c.draining = false
			c.mu.Unlock()
		}
	}()
	for _, fn := range batch {
		fn()
	}
	completed = true
}
