package api

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/frahmantamala/jinzai/internal"
)

//go:embed openapi.yml
var openAPISpec []byte

// OpenAPISpec returns the embedded description of the backend endpoints this
// client calls.
func OpenAPISpec() []byte {
	return openAPISpec
}

// ContractTransport validates every outgoing request against the embedded
// OpenAPI document before handing it to the next RoundTripper. A request the
// document does not allow never reaches the backend.
type ContractTransport struct {
	next       http.RoundTripper
	router     routers.Router
	pathPrefix string
}

func NewContractTransport(baseURL string, next http.RoundTripper) (*ContractTransport, error) {
	if next == nil {
		next = http.DefaultTransport
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load backend contract: %w", err)
	}
	// paths are matched relative to the configured base url
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract router: %w", err)
	}

	prefix := ""
	if u, err := url.Parse(baseURL); err == nil {
		prefix = strings.TrimRight(u.Path, "/")
	}

	return &ContractTransport{next: next, router: router, pathPrefix: prefix}, nil
}

func (t *ContractTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	if err := t.validate(req.Context(), req, body); err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}
	return t.next.RoundTrip(req)
}

func (t *ContractTransport) validate(ctx context.Context, req *http.Request, body []byte) error {
	probe := req.Clone(ctx)
	probe.URL.Path = strings.TrimPrefix(probe.URL.Path, t.pathPrefix)
	probe.Body = io.NopCloser(bytes.NewReader(body))

	route, pathParams, err := t.router.FindRoute(probe)
	if err != nil {
		return contractViolation(req, err)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    probe,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return contractViolation(req, err)
	}
	return nil
}

func contractViolation(req *http.Request, cause error) *internal.AppError {
	message := fmt.Sprintf("Request %s %s does not match the backend contract.", req.Method, req.URL.Path)
	return internal.NewValidationError(message, internal.ErrCodeContractViolation).WithCause(cause)
}
