package cart

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-cart/pkg/activity"
	"github.com/goliatone/go-cart/rules"
)

// Cart is a shopping cart state machine. All methods are safe for concurrent
// use. Listeners, item callbacks and activity hooks run after the transition
// that triggered them commits, in commit order, and may call back into the
// cart.
type Cart struct {
	cfg       config
	key       string
	writer    *writer
	emitter   *activity.Emitter
	evaluator rules.Evaluator

	mu    sync.Mutex
	state State

	subscribers map[uint64]func(State)
	subOrder    []uint64
	nextSub     uint64

	pending  []func()
	draining bool

	timer    Timer
	timerGen uint64

	closed    bool
	closeOnce sync.Once
}

// New builds a cart. When a store is configured the persisted snapshot is
// loaded once; a missing or unreadable snapshot falls back to the configured
// defaults.
func New(ctx context.Context, opts ...Option) *Cart {
	cfg := applyOptions(opts)
	key := StorageKey(cfg.keyPrefix, cfg.id)

	c := &Cart{
		cfg:         cfg,
		key:         key,
		emitter:     cfg.emitter(),
		evaluator:   cfg.ruleEvaluator(),
		subscribers: map[uint64]func(State){},
	}

	state, restored := State{}, false
	if cfg.store != nil {
		state, restored = loadState(ctx, cfg, key, cfg.id)
	}
	if !restored {
		state = NewState(cfg.id)
		if len(cfg.metadata) > 0 {
			state.Metadata = maps.Clone(cfg.metadata)
		}
		if len(cfg.defaultItems) > 0 {
			state, _ = Reduce(state, SetItemsEvent{Items: cfg.defaultItems})
		}
	}
	if state.ID == "" {
		state.ID = cfg.idGenerator()
	}
	c.state = state

	if cfg.store != nil {
		c.writer = newWriter(cfg.store, key, state.ID, cfg.logger)
	}
	return c
}

// ID returns the cart ID.
func (c *Cart) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ID
}

// Key returns the storage key the cart persists under.
func (c *Cart) Key() string {
	return c.key
}

// Snapshot returns a detached copy of the current state.
func (c *Cart) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Tag returns the current machine state.
func (c *Cart) Tag() StateTag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Tag
}

// Dispatch sends a raw event through the reducer and reports whether it was
// accepted. Subscribers and persistence see the result; item callbacks and
// activity hooks are driven only by the facade methods.
func (c *Cart) Dispatch(event Event) bool {
	c.mu.Lock()
	_, ok := c.apply(event)
	c.mu.Unlock()
	c.drain()
	return ok
}

// Close cancels the settle timer and flushes pending persistence. The cart
// keeps working in memory afterwards but no longer saves.
func (c *Cart) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.cancelSettle()
		c.mu.Unlock()
		c.writer.close()
	})
	return nil
}

// apply runs event through the reducer and queues every side effect of an
// accepted transition. Callers hold c.mu and call drain after unlocking.
func (c *Cart) apply(event Event) (State, bool) {
	next, ok := Reduce(c.state, event)
	if !ok {
		return c.state, false
	}
	c.state = next
	snapshot := next.Clone()
	c.notifySubscribers(snapshot)
	if !c.closed {
		c.writer.enqueue(snapshot)
	}
	switch {
	case event.Type() == EventAddItem:
		c.scheduleSettle()
	case next.Tag == TagEmpty:
		c.cancelSettle()
	}
	return next, true
}

// cancelSettle stops a pending settle timer. Callers hold c.mu.
func (c *Cart) cancelSettle() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// scheduleSettle restarts the settle timer. Callers hold c.mu.
func (c *Cart) scheduleSettle() {
	c.cancelSettle()
	if c.closed {
		return
	}
	if c.cfg.settleDelay <= 0 {
		c.apply(SettleEvent{})
		return
	}
	gen := c.timerGen
	c.timer = c.cfg.scheduler.AfterFunc(c.cfg.settleDelay, func() {
		c.settle(gen)
	})
}

func (c *Cart) settle(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.apply(SettleEvent{})
	c.mu.Unlock()
	c.drain()
}
