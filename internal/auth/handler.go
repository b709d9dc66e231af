package auth

import (
	"errors"
	"net/http"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/view"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, view.PageLogin, view.Page{
		Title: "Sign in",
		Data:  view.NewForm(nil),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, view.NewForm(nil), internal.NewValidationError("Invalid form submission.", internal.ErrCodeValidationFailed))
		return
	}
	form := view.NewForm(r.PostForm)
	delete(form.Values, "password")

	sess, err := h.Service.Login(r.Context(), LoginDTOFromForm(r.PostForm))
	if err != nil {
		var appErr *internal.AppError
		if errors.As(err, &appErr) && appErr.Type == internal.ErrorTypeDecodeFailed {
			// a token we cannot read must not outlive the failed login
			h.EndSession(w, r)
		}
		h.renderLoginError(w, r, form, err)
		return
	}

	// drop any previous session state before starting a new one
	h.EndSession(w, r)
	if _, err := h.Sessions.Save(w, r, sess); err != nil {
		h.Logger.Error("failed to save session", "error", err)
		h.renderLoginError(w, r, form, internal.NewInternalError("Could not start your session. Please try again.", err))
		return
	}
	h.Redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.EndSession(w, r)
	h.RedirectWithFlash(w, r, "/login", view.FlashInfo, "You have been signed out.")
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, form view.Form, err error) {
	form.Fail(err)
	status := http.StatusUnprocessableEntity
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeValidation {
		status = http.StatusUnauthorized
	}
	h.Render(w, r, status, view.PageLogin, view.Page{Title: "Sign in", Data: form})
}
