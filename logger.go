package cart

import "time"

// LogKind classifies a LogEvent.
type LogKind string

const (
	LogKindLoad     LogKind = "load"
	LogKindPersist  LogKind = "persist"
	LogKindHook     LogKind = "hook"
	LogKindEvaluate LogKind = "evaluate"
)

// LogEvent describes a side effect the cart performed or failed to perform.
type LogEvent struct {
	Kind     LogKind
	CartID   string
	Key      string
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// Logger records cart events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}
