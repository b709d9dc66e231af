package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextTraceIDKey ctxKey = "traceID"

// TraceIDFromContext returns the request trace id, forwarded to the backend.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(ContextTraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ContextTraceIDKey, traceID)
}

// WithTimeout returns a context with timeout. A zero or negative duration
// leaves the deadline to the caller's context.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, duration)
}
