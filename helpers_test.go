package cart

import (
	"context"
	"sync"
	"time"
)

// manualScheduler records timers and fires them on demand.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{delay: d, fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

// fire runs every pending timer, stopped ones included, so tests can prove a
// superseded callback is inert.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()
	for _, timer := range timers {
		timer.fired = true
		timer.fn()
	}
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

func newTestCart(opts ...Option) (*Cart, *manualScheduler) {
	scheduler := &manualScheduler{}
	base := []Option{WithScheduler(scheduler), WithIDGenerator(func() string { return "cart-test" })}
	return New(context.Background(), append(base, opts...)...), scheduler
}

type recordingLogger struct {
	mu     sync.Mutex
	events []LogEvent
}

func (l *recordingLogger) Log(event LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingLogger) byKind(kind LogKind) []LogEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEvent
	for _, event := range l.events {
		if event.Kind == kind {
			out = append(out, event)
		}
	}
	return out
}

func priced(id string, price float64, quantity int) Item {
	return Item{ID: id, Price: Price(price), Quantity: quantity}
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
