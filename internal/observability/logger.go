package observability

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// process-wide logger, JSON to stdout.
var logger = zap.Must(zap.NewProduction())

func Logger() *zap.Logger {
	return logger
}

// SetLogger swaps the process logger (tests use zaptest).
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// FromContext returns the logger, with request_id attached if present.
func FromContext(ctx context.Context) *zap.Logger {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With(zap.String("request_id", reqID))
}
