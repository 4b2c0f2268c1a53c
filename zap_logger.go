package cart

import "go.uber.org/zap"

type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger adapts a zap logger. Failures are logged at error level and
// everything else at debug level.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return zapLogger{logger: logger.Named("cart")}
}

func (l zapLogger) Log(event LogEvent) {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("cart_id", event.CartID),
	}
	if event.Key != "" {
		fields = append(fields, zap.String("key", event.Key))
	}
	if event.Engine != "" {
		fields = append(fields, zap.String("engine", event.Engine))
	}
	if event.Expr != "" {
		fields = append(fields, zap.String("expr", event.Expr))
	}
	if event.Duration > 0 {
		fields = append(fields, zap.Duration("duration", event.Duration))
	}
	if event.Err != nil {
		l.logger.Error(string(event.Kind)+" failed", append(fields, zap.Error(event.Err))...)
		return
	}
	l.logger.Debug(string(event.Kind), fields...)
}
