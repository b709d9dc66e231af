package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("filterSensitiveForm", func() {
	It("masks credentials and keeps the rest", func() {
		out := filterSensitiveForm([]byte("username=mei%40example.com&password=hunter2"))

		Expect(out).To(ContainSubstring("username=mei%40example.com"))
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).To(ContainSubstring("password=%5BFILTERED%5D"))
	})

	It("returns nothing for an empty body", func() {
		Expect(filterSensitiveForm(nil)).To(BeEmpty())
	})
})

var _ = Describe("filterSensitiveBody", func() {
	It("masks nested JSON fields", func() {
		out := filterSensitiveBody([]byte(`{"user":{"email":"a@b.c","password":"x"}}`))

		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).To(ContainSubstring(`"password":"[FILTERED]"`))
	})
})

var _ = Describe("RequestID", func() {
	var seen string

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = internal.TraceIDFromContext(r.Context())
	}))

	BeforeEach(func() {
		seen = ""
	})

	It("keeps an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "abc-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		Expect(seen).To(Equal("abc-123"))
		Expect(w.Header().Get("X-Trace-ID")).To(Equal("abc-123"))
	})

	It("generates one otherwise", func() {
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(w.Header().Get("X-Trace-ID")).To(Equal(seen))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into an error page", func() {
		handler := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/request", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("Something went wrong"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("passes the status through", func() {
		handler := LoggingMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short"))
		}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusTeapot))
		Expect(w.Body.String()).To(Equal("short"))
	})
})
