package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/core/calendar"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Client Suite")
}

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		mux     *http.ServeMux
		client  *api.Client
		hits    atomic.Int32
		lastReq struct {
			auth    string
			traceID string
			body    map[string]interface{}
		}
	)

	BeforeEach(func() {
		hits.Store(0)
		mux = http.NewServeMux()
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			lastReq.auth = r.Header.Get("Authorization")
			lastReq.traceID = r.Header.Get("X-Trace-ID")
			lastReq.body = nil
			if r.Header.Get("Content-Type") == "application/json" {
				data, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(data, &lastReq.body)
			}
			mux.ServeHTTP(w, r)
		}))
		client = api.NewClient(api.Config{BaseURL: server.URL}, api.StaticToken("tok-123"), logger.Discard())
	})

	AfterEach(func() {
		server.Close()
	})

	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	Describe("authentication", func() {
		It("sends the bearer token and trace id", func() {
			mux.HandleFunc("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1, "email": "a@example.com"}})
			})

			ctx := internal.ContextWithTraceID(context.Background(), "trace-1")
			users, err := client.ListUsers(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(lastReq.auth).To(Equal("Bearer tok-123"))
			Expect(lastReq.traceID).To(Equal("trace-1"))
		})

		It("does not call the backend without a token", func() {
			anon := client.WithTokens(api.StaticToken(""))

			_, err := anon.ListUsers(context.Background())

			Expect(errors.Is(err, internal.ErrAuthenticationMissing)).To(BeTrue())
			Expect(hits.Load()).To(BeZero())
		})

		It("reports a 401 as an expired session", func() {
			mux.HandleFunc("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			})

			_, err := client.ListUsers(context.Background())

			Expect(errors.Is(err, api.ErrSessionExpired)).To(BeTrue())
		})

		It("does not treat a rejected login as an expired session", func() {
			mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.ParseForm()).To(Succeed())
				Expect(r.PostForm.Get("username")).To(Equal("a@example.com"))
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			})

			_, err := client.IssueToken(context.Background(), "a@example.com", "wrong")

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, api.ErrSessionExpired)).To(BeFalse())
			Expect(internal.UserMessage(err)).To(Equal("Incorrect username or password"))
		})

		It("returns the issued token", func() {
			mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Content-Type")).To(Equal("application/x-www-form-urlencoded"))
				Expect(r.Header.Get("Authorization")).To(BeEmpty())
				writeJSON(w, http.StatusOK, map[string]string{"access_token": "jwt", "token_type": "bearer"})
			})

			tok, err := client.IssueToken(context.Background(), "a@example.com", "secret")

			Expect(err).NotTo(HaveOccurred())
			Expect(tok.AccessToken).To(Equal("jwt"))
		})
	})

	Describe("error messages", func() {
		It("uses a string detail", func() {
			mux.HandleFunc("/api/v1/users/7", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
			})

			_, err := client.GetUser(context.Background(), 7)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("User not found"))
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("joins a list detail", func() {
			mux.HandleFunc("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
					"detail": []map[string]string{{"msg": "field required"}, {"msg": "invalid email"}},
				})
			})

			_, err := client.CreateUser(context.Background(), userCreateFixture())

			Expect(internal.UserMessage(err)).To(Equal("field required; invalid email"))
		})

		It("falls back to the status text", func() {
			mux.HandleFunc("/api/v1/users/9", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			err := client.DeleteUser(context.Background(), 9)

			Expect(internal.UserMessage(err)).To(Equal("Internal Server Error"))
		})

		It("reports an unreachable backend", func() {
			server.Close()

			_, err := client.ListUsers(context.Background())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeBackendOffline))
		})
	})

	Describe("leave requests", func() {
		var req leavedm.CreateLeaveRequest

		BeforeEach(func() {
			req = leavedm.CreateLeaveRequest{
				UserID:    42,
				LeaveType: leavedm.TypeAnnual,
				StartDate: calendar.NewDate(2024, 7, 1),
				EndDate:   calendar.NewDate(2024, 7, 3),
				NumDays:   3,
			}
			mux.HandleFunc("/api/v1/admin/leaves", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"id": 5, "user_id": 42, "leave_type": "annual",
					"start_date": "2024-07-01", "end_date": "2024-07-03",
					"num_days": 3, "status": "pending", "reason": nil,
				})
			})
			mux.HandleFunc("/api/v1/leaves", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, map[string]interface{}{"id": 6, "status": "pending"})
			})
		})

		It("sends status pending and a null reason", func() {
			created, err := client.CreateLeaveForUser(context.Background(), req)

			Expect(err).NotTo(HaveOccurred())
			Expect(hits.Load()).To(Equal(int32(1)))
			Expect(lastReq.body).To(HaveKeyWithValue("status", "pending"))
			Expect(lastReq.body).To(HaveKeyWithValue("reason", BeNil()))
			Expect(lastReq.body).To(HaveKeyWithValue("user_id", BeNumerically("==", 42)))
			Expect(lastReq.body).To(HaveKeyWithValue("start_date", "2024-07-01"))
			Expect(created.StartDate.Display()).To(Equal("Jul 1, 2024"))
		})

		It("omits the user id on the member endpoint", func() {
			_, err := client.CreateLeave(context.Background(), req)

			Expect(err).NotTo(HaveOccurred())
			Expect(lastReq.body).NotTo(HaveKey("user_id"))
		})

		It("reads the older field names", func() {
			var l leavedm.LeaveRequest
			err := json.Unmarshal([]byte(`{"id":1,"from_date":"2024-07-01","to_date":"2024-07-02","comments":"trip"}`), &l)

			Expect(err).NotTo(HaveOccurred())
			Expect(l.StartDate.String()).To(Equal("2024-07-01"))
			Expect(l.EndDate.String()).To(Equal("2024-07-02"))
			Expect(l.ReasonText()).To(Equal("trip"))
		})
	})

	Describe("FetchUserRecords", func() {
		BeforeEach(func() {
			mux.HandleFunc("/api/v1/users/3", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]interface{}{"id": 3, "email": "c@example.com"})
			})
			mux.HandleFunc("/api/v1/admin/users/3/leaves", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1, "start_date": "2024-07-01"}})
			})
		})

		It("returns all three lists", func() {
			mux.HandleFunc("/api/v1/admin/users/3/wfh", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []map[string]interface{}{})
			})

			recs, err := client.FetchUserRecords(context.Background(), 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(recs.User.Email).To(Equal("c@example.com"))
			Expect(recs.Leaves).To(HaveLen(1))
			Expect(recs.WFH).To(BeEmpty())
		})

		It("fails as a whole when one list fails", func() {
			mux.HandleFunc("/api/v1/admin/users/3/wfh", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "wfh store down"})
			})

			recs, err := client.FetchUserRecords(context.Background(), 3)

			Expect(err).To(HaveOccurred())
			Expect(internal.UserMessage(err)).To(Equal("wfh store down"))
			Expect(recs.Leaves).To(BeNil())
		})
	})

	Describe("ContractTransport", func() {
		BeforeEach(func() {
			transport, err := api.NewContractTransport(server.URL, nil)
			Expect(err).NotTo(HaveOccurred())
			client = api.NewClient(api.Config{BaseURL: server.URL, Transport: transport}, api.StaticToken("tok-123"), logger.Discard())
			mux.HandleFunc("/api/v1/leaves", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, map[string]interface{}{"id": 6, "status": "pending"})
			})
		})

		It("lets a conforming request through", func() {
			_, err := client.CreateLeave(context.Background(), leavedm.CreateLeaveRequest{
				LeaveType: leavedm.TypeSick,
				StartDate: calendar.NewDate(2024, 7, 1),
				EndDate:   calendar.NewDate(2024, 7, 1),
				NumDays:   1,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(hits.Load()).To(Equal(int32(1)))
		})

		It("stops a request the backend would reject", func() {
			_, err := client.CreateLeave(context.Background(), leavedm.CreateLeaveRequest{
				LeaveType: leavedm.Type("vacation"),
				StartDate: calendar.NewDate(2024, 7, 1),
				EndDate:   calendar.NewDate(2024, 7, 1),
				NumDays:   1,
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeContractViolation))
			Expect(hits.Load()).To(BeZero())
		})
	})
})

func userCreateFixture() userdm.CreateUserRequest {
	return userdm.CreateUserRequest{Email: "new@example.com", Password: "pw", IsActive: true}
}
