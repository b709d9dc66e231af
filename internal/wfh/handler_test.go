package wfh_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/auth"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/view"
	"github.com/frahmantamala/jinzai/internal/wfh"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ = Describe("WFH requests page", func() {
	var (
		server  *httptest.Server
		store   *session.CookieStore
		router  http.Handler
		mu      sync.Mutex
		calls   map[string]int
		posted  []map[string]interface{}
		listing func(w http.ResponseWriter)
	)

	BeforeEach(func() {
		calls = map[string]int{}
		posted = nil
		listing = func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, []map[string]interface{}{
				{"id": 1, "category": "full", "start_date": "2024-07-01", "end_date": "2024-07-05", "num_days": 5, "status": "pending"},
				{"id": 2, "start_date": "2024-05-10", "end_date": "2024-05-10", "num_days": 1, "status": "approved"},
			})
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls[r.Method+" "+r.URL.Path]++
			mu.Unlock()

			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/api/v1/wfh":
				listing(w)
			case r.Method == http.MethodPost && r.URL.Path == "/api/v1/wfh":
				data, _ := io.ReadAll(r.Body)
				var body map[string]interface{}
				_ = json.Unmarshal(data, &body)
				mu.Lock()
				posted = append(posted, body)
				mu.Unlock()
				writeJSON(w, http.StatusCreated, map[string]interface{}{"id": 3, "status": "pending"})
			case r.Method == http.MethodPut && r.URL.Path == "/api/v1/wfh/1":
				writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "status": "withdrawn"})
			case r.Method == http.MethodPut && r.URL.Path == "/api/v1/wfh/2":
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Only pending requests can be withdrawn"})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))

		lg := logger.Discard()
		views, err := view.NewRenderer()
		Expect(err).NotTo(HaveOccurred())
		store = session.NewCookieStore("0123456789abcdef0123456789abcdef", session.CookieOptions{}, lg)
		base := transport.NewBaseHandler(lg, views, store)
		client := api.NewClient(api.Config{BaseURL: server.URL}, api.TokenSourceFunc(session.TokenFromContext), lg)
		h := wfh.NewHandler(base, wfh.NewService(client, lg))
		guard := auth.NewGuard(base)

		r := chi.NewRouter()
		r.Use(guard.Authenticate)
		r.Route(wfh.BasePath, func(r chi.Router) {
			r.Use(guard.RequireSession)
			h.Routes(r)
		})
		router = r
	})

	AfterEach(func() {
		server.Close()
	})

	cookies := func() []*http.Cookie {
		w := httptest.NewRecorder()
		_, err := store.Save(w, httptest.NewRequest(http.MethodGet, "/", nil), session.Session{Token: "tok"})
		Expect(err).NotTo(HaveOccurred())
		return w.Result().Cookies()
	}

	do := func(c []*http.Cookie, method, target string, form url.Values) *httptest.ResponseRecorder {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req := httptest.NewRequest(method, target, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		for _, ck := range c {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	flash := func(w *httptest.ResponseRecorder) string {
		for _, c := range w.Result().Cookies() {
			if c.Name == "jinzai_flash" {
				v, _ := url.QueryUnescape(c.Value)
				return v
			}
		}
		return ""
	}

	It("lists the member's requests with a withdraw action while pending", func() {
		w := do(cookies(), http.MethodGet, wfh.BasePath, nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		body := w.Body.String()
		Expect(body).To(ContainSubstring("Full Week"))
		Expect(body).To(ContainSubstring("Jul 1, 2024"))
		Expect(body).To(ContainSubstring("/work-from-home/requests/1/withdraw"))
		Expect(body).NotTo(ContainSubstring("/work-from-home/requests/2/withdraw"))
	})

	It("filters on the derived category when the backend sent none", func() {
		w := do(cookies(), http.MethodGet, wfh.BasePath+"?category=specific", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("May 10, 2024"))
		Expect(w.Body.String()).NotTo(ContainSubstring("Jul 1, 2024"))
	})

	It("rejects a malformed filter without calling the backend", func() {
		w := do(cookies(), http.MethodGet, wfh.BasePath+"?status=lost", nil)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(w.Body.String()).To(ContainSubstring("Status must be one of"))
		Expect(calls).To(BeEmpty())
	})

	It("shows a failed fetch inline", func() {
		listing = func(w http.ResponseWriter) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "wfh store offline"})
		}

		w := do(cookies(), http.MethodGet, wfh.BasePath, nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Error: wfh store offline"))
		Expect(w.Body.String()).NotTo(ContainSubstring("No WFH requests."))
	})

	It("redirects to login when the token has expired", func() {
		listing = func(w http.ResponseWriter) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
		}

		w := do(cookies(), http.MethodGet, wfh.BasePath, nil)

		Expect(w.Code).To(Equal(http.StatusSeeOther))
		Expect(w.Header().Get("Location")).To(Equal("/login"))
	})

	It("sends a visitor without a session to login without calling the backend", func() {
		w := do(nil, http.MethodPost, wfh.BasePath, url.Values{"start_date": {"2024-07-01"}})

		Expect(w.Code).To(Equal(http.StatusSeeOther))
		Expect(w.Header().Get("Location")).To(Equal("/login"))
		Expect(calls).To(BeEmpty())
	})

	Describe("creating", func() {
		It("re-renders the form when the dates are reversed", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath, url.Values{
				"category": {"partial"}, "start_date": {"2024-07-05"}, "end_date": {"2024-07-01"}, "reason": {"renovation"},
			})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("Start Date cannot be after End Date."))
			Expect(body).To(ContainSubstring("renovation"))
			Expect(body).To(ContainSubstring("Jul 1, 2024"))
			Expect(calls["POST /api/v1/wfh"]).To(BeZero())
		})

		It("requires both dates", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath, url.Values{"category": {"full"}})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(w.Body.String()).To(ContainSubstring("Start Date is required."))
			Expect(w.Body.String()).To(ContainSubstring("End Date is required."))
			Expect(calls["POST /api/v1/wfh"]).To(BeZero())
		})

		It("posts the request and redirects", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath, url.Values{
				"category": {"partial"}, "start_date": {"2024-07-01"}, "end_date": {"2024-07-03"},
			})

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal(wfh.BasePath))
			Expect(flash(w)).To(Equal("success|WFH request submitted."))
			Expect(posted).To(HaveLen(1))
			Expect(posted[0]).To(HaveKeyWithValue("status", "pending"))
			Expect(posted[0]).To(HaveKeyWithValue("num_days", BeNumerically("==", 3)))
		})
	})

	Describe("withdrawing", func() {
		It("updates the status", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath+"/1/withdraw", nil)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal(wfh.BasePath))
			Expect(flash(w)).To(Equal("success|WFH request withdrawn."))
			Expect(calls["PUT /api/v1/wfh/1"]).To(Equal(1))
		})

		It("carries the backend refusal in the flash", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath+"/2/withdraw", nil)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(flash(w)).To(Equal("error|Error: Only pending requests can be withdrawn"))
		})

		It("refuses an unknown id without calling the backend", func() {
			w := do(cookies(), http.MethodPost, wfh.BasePath+"/abc/withdraw", nil)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(flash(w)).To(Equal("error|Unknown WFH request."))
			Expect(calls).To(BeEmpty())
		})
	})
})
