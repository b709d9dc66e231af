package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/jinzai/internal/admin"
	"github.com/frahmantamala/jinzai/internal/auth"
	"github.com/frahmantamala/jinzai/internal/dashboard"
	"github.com/frahmantamala/jinzai/internal/leave"
	"github.com/frahmantamala/jinzai/internal/nav"
	"github.com/frahmantamala/jinzai/internal/transport/middleware"
	"github.com/frahmantamala/jinzai/internal/transport/swagger"
	"github.com/frahmantamala/jinzai/internal/wfh"
)

// Handlers are the page handlers mounted by RegisterAllRoutes.
type Handlers struct {
	Auth      *auth.Handler
	Guard     *auth.Guard
	Nav       *nav.Handler
	Dashboard *dashboard.Handler
	Leave     *leave.Handler
	WFH       *wfh.Handler
	Admin     *admin.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/healthz", healthHandler.Liveness)
	router.Get("/readyz", healthHandler.Readiness)

	// backend API reference
	router.Get("/openapi.yml", swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Group(func(r chi.Router) {
		r.Use(h.Guard.Authenticate)
		r.Use(h.Nav.Middleware)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Guard.RedirectIfAuthenticated)
			pr.Get("/login", h.Auth.LoginPage)
			pr.Post("/login", h.Auth.Login)
		})
		r.Post("/logout", h.Auth.Logout)

		// member pages
		r.Group(func(pr chi.Router) {
			pr.Use(h.Guard.RequireSession)

			pr.Get("/", h.Dashboard.Page)
			pr.Get("/iv-forum", h.Dashboard.Placeholder("IV Forum", "The IV Forum is not available yet."))
			pr.Get("/attendance", h.Dashboard.Placeholder("Attendance", "Attendance tracking is not available yet."))
			pr.Get("/nav/{key}", h.Nav.Select)

			pr.Route(leave.BasePath, h.Leave.Routes)
			pr.Route(wfh.BasePath, h.WFH.Routes)
		})

		r.Route(admin.BasePath, func(ar chi.Router) {
			ar.Use(h.Guard.RequireAdmin)
			h.Admin.Routes(ar)
		})
	})

	// unknown paths land on the dashboard, which sends anonymous users to /login
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
