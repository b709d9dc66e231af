package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/internal/view"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

const flashCookie = "jinzai_flash"

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger   *slog.Logger
	Views    *view.Renderer
	Sessions session.Store

	sessionEnded []func(id string)
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, views *view.Renderer, sessions session.Store) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, Views: views, Sessions: sessions}
}

// OnSessionEnd registers fn to run with the session id whenever a session is
// cleared, so per-session state can be dropped.
func (h *BaseHandler) OnSessionEnd(fn func(id string)) {
	h.sessionEnded = append(h.sessionEnded, fn)
}

// Render writes page with the sidebar from the request context and any
// pending flash message.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, page string, p view.Page) {
	if nav, ok := view.NavFromContext(r.Context()); ok {
		p.Nav = nav
	}
	if p.Flash == nil {
		p.Flash = h.PopFlash(w, r)
	}
	if p.Title == "" {
		p.Title = p.Nav.Title
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.Views.Render(w, page, p); err != nil {
		logger.FromOr(r.Context(), h.Logger).Error("failed to render page", "page", page, "error", err)
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *BaseHandler) RedirectWithFlash(w http.ResponseWriter, r *http.Request, to string, kind view.FlashKind, message string) {
	h.SetFlash(w, kind, message)
	h.Redirect(w, r, to)
}

func (h *BaseHandler) SetFlash(w http.ResponseWriter, kind view.FlashKind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(kind) + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the flash message, if any.
func (h *BaseHandler) PopFlash(w http.ResponseWriter, r *http.Request) *view.Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	return &view.Flash{Kind: view.FlashKind(kind), Message: message}
}

// EndSession clears the stored session and drops its per-session state.
func (h *BaseHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id := ""
	if sess, ok := session.FromContext(r.Context()); ok {
		id = sess.ID
	} else if sess, err := h.Sessions.Load(r); err == nil {
		id = sess.ID
	}

	if err := h.Sessions.Clear(w, r); err != nil {
		logger.FromOr(r.Context(), h.Logger).Error("failed to clear session", "error", err)
	}
	if id == "" {
		return
	}
	for _, fn := range h.sessionEnded {
		fn(id)
	}
}

// HandleError takes over the response for errors that end the page: a
// missing session, a denied role, or a 401 from the backend. It returns
// false for anything else, which the caller shows inline.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) bool {
	lg := logger.FromOr(r.Context(), h.Logger)

	switch {
	case errors.Is(err, internal.ErrSessionExpired):
		lg.Info("backend rejected the session token, signing out")
		h.EndSession(w, r)
		h.RedirectWithFlash(w, r, "/login", view.FlashWarning, internal.ErrSessionExpired.Message)
		return true
	case errors.Is(err, internal.ErrAuthenticationMissing):
		h.Redirect(w, r, "/login")
		return true
	case errors.Is(err, internal.ErrAuthorizationDenied):
		h.RedirectWithFlash(w, r, "/", view.FlashWarning, internal.ErrAuthorizationDenied.Message)
		return true
	}
	return false
}

// URLParamInt64 parses a positive integer path parameter.
func (h *BaseHandler) URLParamInt64(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
