package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/jinzai/pkg/logger"
)

const internalErrorPage = `<!doctype html>
<html><head><title>Something went wrong</title></head>
<body><h1>Something went wrong</h1><p>Please try again. If the problem persists, contact your administrator.</p><p><a href="/">Back to dashboard</a></p></body></html>`

// RecoveryMiddleware provides panic recovery with detailed logging
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.FromOr(r.Context(), lg).Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(internalErrorPage))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
