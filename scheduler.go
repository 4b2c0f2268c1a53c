package cart

import "time"

// DefaultSettleDelay is how long a cart stays in the adding state after the
// last ADD_ITEM.
const DefaultSettleDelay = time.Second

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running and reports whether it was pending.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) Timer

// AfterFunc implements Scheduler.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Timer {
	return f(d, fn)
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
