package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/frahmantamala/jinzai/internal/api"
)

// Handler serves Swagger UI for the backend API this client consumes.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}

// SpecHandler serves the embedded OpenAPI document.
func SpecHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPISpec())
}
