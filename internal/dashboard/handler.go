package dashboard

import (
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

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Summary(r.Context())
	if err != nil {
		if h.HandleError(w, r, err) {
			return
		}
		h.Render(w, r, http.StatusOK, view.PageDashboard, view.Page{
			Error: "Error: " + internal.UserMessage(err),
		})
		return
	}
	h.Render(w, r, http.StatusOK, view.PageDashboard, view.Page{Data: sum})
}

// Placeholder renders a page of the menu that has no content yet.
func (h *Handler) Placeholder(heading, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Render(w, r, http.StatusOK, view.PagePlaceholder, view.Page{
			Data: view.Placeholder{Heading: heading, Body: body},
		})
	}
}
