package wfh

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/view"
)

const BasePath = "/work-from-home/requests"

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

type PageData struct {
	Requests   []wfhdm.WfhRequest
	ListError  string
	Filter     view.Form
	Form       view.Form
	Categories []wfhdm.Category
	Statuses   []leavedm.Status
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/", h.Create)
	r.Post("/{id}/withdraw", h.Withdraw)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := PageData{Filter: view.NewForm(q)}

	dto := FilterDTOFromQuery(q)
	if err := dto.Validate(); err != nil {
		data.Filter.Fail(err)
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	reqs, err := h.Service.List(r.Context(), dto.Filter())
	if err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		data.ListError = internal.UserMessage(err)
	}
	data.Requests = reqs
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Invalid form submission.")
		return
	}

	if _, err := h.Service.Create(r.Context(), CreateWfhDTOFromForm(r.PostForm)); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		data := PageData{Filter: view.NewForm(nil), Form: view.NewForm(r.PostForm)}
		data.Form.Fail(err)

		reqs, listErr := h.Service.List(r.Context(), Filter{})
		if listErr != nil {
			if h.HandleError(w, r, listErr) {
				return
			}
			data.ListError = internal.UserMessage(listErr)
		}
		data.Requests = reqs

		status := http.StatusBadGateway
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
			status = http.StatusUnprocessableEntity
		}
		h.render(w, r, status, data)
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "WFH request submitted.")
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Unknown WFH request.")
		return
	}

	if _, err := h.Service.Withdraw(r.Context(), id); err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		h.RedirectWithFlash(w, r, BasePath, view.FlashError, "Error: "+internal.UserMessage(err))
		return
	}
	h.RedirectWithFlash(w, r, BasePath, view.FlashSuccess, "WFH request withdrawn.")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	data.Categories = wfhdm.Categories
	data.Statuses = leavedm.Statuses
	if data.Form.Values == nil {
		data.Form = view.NewForm(nil)
	}
	h.Render(w, r, status, view.PageWFH, view.Page{Data: data})
}
