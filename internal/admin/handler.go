package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	"github.com/frahmantamala/jinzai/internal/export"
	"github.com/frahmantamala/jinzai/internal/leave"
	"github.com/frahmantamala/jinzai/internal/listdetail"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/view"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

const BasePath = "/admin/manage-records"

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Screens *listdetail.Registry[*Screen]
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI, screens *listdetail.Registry[*Screen]) *Handler {
	return &Handler{BaseHandler: base, Service: svc, Screens: screens}
}

// PageData is what admin.html renders.
type PageData struct {
	Snapshot
	LeaveTypes  []leavedm.Type
	CreateUser  view.Form
	AdjustDays  view.Form
	CreateLeave view.Form
}

// Routes mounts the screen under BasePath. Callers wrap it with the admin guard.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/select", h.Select)
	r.Post("/users", h.CreateUser)
	r.Post("/users/{id}/adjust-days", h.AdjustDays)
	r.Get("/users/{id}/delete", h.ConfirmDelete)
	r.Post("/users/{id}/delete", h.DeleteUser)
	r.Get("/users/{id}/export.xlsx", h.Export)
	r.Post("/leaves", h.CreateLeave)
}

func (h *Handler) screen(r *http.Request) *Screen {
	sess, _ := session.FromContext(r.Context())
	return h.Screens.Get(sess.ID)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	screen := h.screen(r)
	refresh := r.URL.Query().Get("refresh") == "1"

	if err := h.Service.Mount(r.Context(), screen, refresh); err != nil && h.HandleError(w, r, err) {
		return
	}
	h.render(w, r, http.StatusOK, screen, PageData{})
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}
	id, _ := strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("user_id")), 10, 64)

	// a failed fetch is kept on the screen and shown after the redirect
	if err := h.Service.Select(r.Context(), h.screen(r), id); err != nil && h.HandleError(w, r, err) {
		return
	}
	h.Redirect(w, r, BasePath)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}
	screen := h.screen(r)

	u, err := h.Service.CreateUser(r.Context(), screen, CreateUserDTOFromForm(r.PostForm))
	if err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		form := view.NewForm(r.PostForm)
		delete(form.Values, "password")
		form.Fail(err)
		h.render(w, r, formStatus(err), screen, PageData{CreateUser: form})
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, fmt.Sprintf("User %s created.", u.Email))
}

func (h *Handler) AdjustDays(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown user.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}
	screen := h.screen(r)

	if _, err := h.Service.AdjustDays(r.Context(), screen, id, AdjustDaysDTOFromForm(r.PostForm)); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		form := view.NewForm(r.PostForm)
		form.Fail(err)
		h.render(w, r, formStatus(err), screen, PageData{AdjustDays: form})
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "Granted additional days updated.")
}

func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}
	screen := h.screen(r)

	// a missing or malformed user_id parses to 0, which the service rejects
	userID, _ := strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("user_id")), 10, 64)
	if _, err := h.Service.CreateLeave(r.Context(), screen, userID, leave.CreateLeaveDTOFromForm(r.PostForm)); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		form := view.NewForm(r.PostForm)
		form.Fail(err)
		h.render(w, r, formStatus(err), screen, PageData{CreateLeave: form})
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "Leave request created.")
}

func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown user.")
		return
	}

	name := fmt.Sprintf("user %d", id)
	for _, u := range h.screen(r).Snapshot().Users {
		if u.ID == id {
			name = fmt.Sprintf("%s (%d)", u.DisplayName(), u.ID)
			break
		}
	}

	h.Render(w, r, http.StatusOK, view.PageConfirm, view.Page{
		Title: "Delete user",
		Data: view.Confirm{
			Heading: "Delete user",
			Message: fmt.Sprintf("Delete %s? This cannot be undone.", name),
			Action:  fmt.Sprintf("%s/users/%d/delete", BasePath, id),
			Cancel:  BasePath,
			Button:  "Delete",
		},
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown user.")
		return
	}

	if err := h.Service.DeleteUser(r.Context(), h.screen(r), id); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Error: "+internal.UserMessage(err))
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "User deleted.")
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown user.")
		return
	}

	f, err := h.Service.Export(r.Context(), id)
	if err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		logger.FromOr(r.Context(), h.Logger).Error("export failed", "user_id", id, "error", err)
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Error: "+internal.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, screen *Screen, data PageData) {
	data.Snapshot = screen.Snapshot()
	data.LeaveTypes = leavedm.Types
	if data.CreateUser.Values == nil {
		data.CreateUser = view.NewForm(nil)
	}
	if data.AdjustDays.Values == nil {
		data.AdjustDays = view.NewForm(nil)
	}
	if data.CreateLeave.Values == nil {
		data.CreateLeave = view.NewForm(nil)
	}
	h.Render(w, r, status, view.PageAdmin, view.Page{Data: data})
}

func formStatus(err error) int {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
