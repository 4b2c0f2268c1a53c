package cart

import (
	"context"
	"testing"
	"time"
)

func TestSettleTimerResolvesAdding(t *testing.T) {
	c, sched := newTestCart(WithSettleDelay(250 * time.Millisecond))
	mustAdd(t, c, priced("a", 1, 0), 1)

	if tag := c.Tag(); tag != TagAdding {
		t.Fatalf("expected adding, got %s", tag)
	}
	if sched.pending() != 1 || sched.timers[0].delay != 250*time.Millisecond {
		t.Fatalf("expected one timer with the configured delay")
	}
	sched.fire()
	if tag := c.Tag(); tag != TagFilled {
		t.Fatalf("expected filled after settle, got %s", tag)
	}
}

func TestSettleTimerIsRescheduledByNewAdds(t *testing.T) {
	c, sched := newTestCart()
	mustAdd(t, c, priced("a", 1, 0), 1)
	first := sched.timers[0]
	mustAdd(t, c, priced("b", 1, 0), 1)

	if !first.stopped {
		t.Fatalf("expected the first timer to be stopped")
	}
	if sched.pending() != 1 {
		t.Fatalf("expected a single live timer, got %d", sched.pending())
	}

	var tags []StateTag
	c.Subscribe(func(s State) { tags = append(tags, s.Tag) })
	sched.fire()

	if len(tags) != 1 || tags[0] != TagFilled {
		t.Fatalf("expected exactly one settle transition, got %v", tags)
	}
}

func TestSettleAfterRemovingEverythingResolvesEmpty(t *testing.T) {
	c, sched := newTestCart()
	mustAdd(t, c, priced("a", 1, 0), 1)
	c.RemoveItem("a")
	sched.fire()

	if tag := c.Tag(); tag != TagEmpty {
		t.Fatalf("expected empty, got %s", tag)
	}
}

func TestZeroSettleDelaySettlesInline(t *testing.T) {
	c, sched := newTestCart(WithSettleDelay(0))
	var tags []StateTag
	c.Subscribe(func(s State) { tags = append(tags, s.Tag) })

	mustAdd(t, c, priced("a", 1, 0), 1)

	if sched.pending() != 0 {
		t.Fatalf("expected no timer")
	}
	if len(tags) != 2 || tags[0] != TagAdding || tags[1] != TagFilled {
		t.Fatalf("expected adding then filled, got %v", tags)
	}
}

func TestCloseCancelsSettleTimer(t *testing.T) {
	c, sched := newTestCart()
	mustAdd(t, c, priced("a", 1, 0), 1)

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	sched.fire()
	if tag := c.Tag(); tag != TagAdding {
		t.Fatalf("expected closed cart to ignore the timer, got %s", tag)
	}
}

func TestWallClockSchedulerSettles(t *testing.T) {
	c := New(context.Background(), WithSettleDelay(5*time.Millisecond))
	defer c.Close()

	done := make(chan struct{})
	c.Subscribe(func(s State) {
		if s.Tag == TagFilled {
			close(done)
		}
	})
	mustAdd(t, c, priced("a", 1, 0), 1)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for settle")
	}
}

func TestEmptyingCancelsSettleTimer(t *testing.T) {
	tests := []struct {
		name  string
		empty func(c *Cart)
	}{
		{"empty cart", func(c *Cart) { c.EmptyCart() }},
		{"remove last item", func(c *Cart) {
			c.RemoveItem("a")
			c.RemoveItem("b")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, sched := newTestCart()
			mustAdd(t, c, priced("a", 1, 0), 1)
			mustAdd(t, c, priced("b", 1, 0), 1)
			if sched.pending() != 1 {
				t.Fatalf("expected a live timer before emptying")
			}

			tc.empty(c)

			if sched.pending() != 0 {
				t.Fatalf("expected the settle timer to be stopped, %d pending", sched.pending())
			}
			if tag := c.Tag(); tag != TagEmpty {
				t.Fatalf("expected empty, got %s", tag)
			}
		})
	}
}
