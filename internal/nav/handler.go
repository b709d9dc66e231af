package nav

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal/listdetail"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/internal/view"
)

type Handler struct {
	shells *listdetail.Registry[*Shell]
	logger *slog.Logger
}

func NewHandler(shells *listdetail.Registry[*Shell], lg *slog.Logger) *Handler {
	return &Handler{shells: shells, logger: lg}
}

func NewRegistry() *listdetail.Registry[*Shell] {
	return listdetail.NewRegistry(NewShell)
}

// Middleware puts the sidebar model for the current session and path into
// the request context. Requests without a session pass through untouched.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		menu := ForRole(sess.IsAdmin)
		shell := h.shells.Get(sess.ID)
		shell.Sync(menu, r.URL.Path)

		ctx := view.WithNav(r.Context(), shell.Model(menu, sess.IsAdmin))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Select handles GET /nav/{key}.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	key := chi.URLParam(r, "key")
	action, path := h.shells.Get(sess.ID).Select(ForRole(sess.IsAdmin), key)
	switch action {
	case ActionNavigate:
		http.Redirect(w, r, path, http.StatusSeeOther)
	case ActionToggle:
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	default:
		h.logger.Debug("unknown menu key", "key", key)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// backTo returns the local path of the referring page, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
