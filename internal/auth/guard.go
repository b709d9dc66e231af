package auth

import (
	"errors"
	"net/http"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

// Guard gates routes on the session kept by the store.
type Guard struct {
	*transport.BaseHandler
}

func NewGuard(base *transport.BaseHandler) *Guard {
	return &Guard{BaseHandler: base}
}

// Authenticate attaches the stored session, if any, to the request context.
// It never rejects a request.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := g.Sessions.Load(r)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				g.Logger.Error("failed to load session", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := session.NewContext(r.Context(), sess)
		ctx = logger.With(ctx, "admin", sess.IsAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends requests without a token to /login before the
// wrapped handler can call the backend.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			g.HandleError(w, r, internal.ErrAuthenticationMissing)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin sends non-admin sessions to / with a warning.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		if !sess.IsAdmin {
			logger.FromOr(r.Context(), g.Logger).Warn("access denied: admin required", "path", r.URL.Path)
			g.HandleError(w, r, internal.ErrAuthorizationDenied)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RedirectIfAuthenticated keeps signed-in users off the login page.
func (g *Guard) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); ok {
			g.Redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}
