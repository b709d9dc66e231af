package leave

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/view"
)

const BasePath = "/leaves/request"

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// PageData is what leaves.html renders.
type PageData struct {
	Leaves    []leavedm.LeaveRequest
	ListError string
	Filter    view.Form
	Form      view.Form
	Types     []leavedm.Type
	Statuses  []leavedm.Status
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/", h.Create)
	r.Post("/{id}/withdraw", h.Withdraw)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := view.NewForm(q)

	dto := FilterDTOFromQuery(q)
	if err := dto.Validate(); err != nil {
		filter.Fail(err)
		h.render(w, r, http.StatusUnprocessableEntity, PageData{Filter: filter})
		return
	}

	data := PageData{Filter: filter}
	if !h.load(w, r, &data, dto.Filter()) {
		return
	}
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}

	_, err := h.Service.Create(r.Context(), CreateLeaveDTOFromForm(r.PostForm))
	if err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		data := PageData{Filter: view.NewForm(nil), Form: view.NewForm(r.PostForm)}
		data.Form.Fail(err)
		if !h.load(w, r, &data, Filter{}) {
			return
		}
		h.render(w, r, formStatus(err), data)
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "Leave request submitted.")
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown leave request.")
		return
	}

	if _, err := h.Service.Withdraw(r.Context(), id); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Error: "+internal.UserMessage(err))
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "Leave request withdrawn.")
}

// load fills the list into data. It returns false when the response has
// already been written.
func (h *Handler) load(w http.ResponseWriter, r *http.Request, data *PageData, f Filter) bool {
	leaves, err := h.Service.List(r.Context(), f)
	if err != nil {
		if h.HandleError(w, r, err) {
			return false
		}
		data.ListError = internal.UserMessage(err)
		return true
	}
	data.Leaves = leaves
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	data.Types = leavedm.Types
	data.Statuses = leavedm.Statuses
	if data.Form.Values == nil {
		data.Form = view.NewForm(nil)
	}
	h.Render(w, r, status, view.PageLeaves, view.Page{Data: data})
}

func formStatus(err error) int {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
