package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

// RequestID assigns a trace id to the request, exposes it on the response
// and puts it in the context so backend calls forward the same id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := internal.ContextWithTraceID(r.Context(), traceID)
		ctx = logger.With(ctx, "traceID", traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
