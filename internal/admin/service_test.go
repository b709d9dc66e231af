package admin_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/admin"
	"github.com/frahmantamala/jinzai/internal/api"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	"github.com/frahmantamala/jinzai/internal/leave"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

// stubBackend answers FetchUserRecords from fetch; every other call fails.
type stubBackend struct {
	fetch        func(ctx context.Context, id int64) (api.UserRecords, error)
	createLeave  func(req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error)
	listLeaves   func(id int64) ([]leavedm.LeaveRequest, error)
	leaveListHit int
}

var errUnexpected = errors.New("unexpected call")

func (s *stubBackend) ListUsers(context.Context) ([]userdm.User, error) {
	return []userdm.User{{ID: 1}, {ID: 2}}, nil
}

func (s *stubBackend) CreateUser(context.Context, userdm.CreateUserRequest) (userdm.User, error) {
	return userdm.User{}, errUnexpected
}

func (s *stubBackend) DeleteUser(context.Context, int64) error { return errUnexpected }

func (s *stubBackend) AdjustLeaveDays(context.Context, int64, int) (userdm.User, error) {
	return userdm.User{}, errUnexpected
}

func (s *stubBackend) FetchUserRecords(ctx context.Context, id int64) (api.UserRecords, error) {
	return s.fetch(ctx, id)
}

func (s *stubBackend) ListUserLeaves(_ context.Context, id int64) ([]leavedm.LeaveRequest, error) {
	s.leaveListHit++
	return s.listLeaves(id)
}

func (s *stubBackend) CreateLeaveForUser(_ context.Context, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
	return s.createLeave(req)
}

var _ = Describe("Service", func() {
	var (
		backend *stubBackend
		svc     *admin.Service
		screen  *admin.Screen
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = &stubBackend{}
		svc = admin.NewService(backend, logger.Discard())
		screen = admin.NewScreen()
		Expect(svc.Mount(ctx, screen, false)).To(Succeed())
	})

	Describe("Select", func() {
		It("drops the response of a superseded selection", func() {
			started := make(chan struct{})
			release := make(chan struct{})
			backend.fetch = func(ctx context.Context, id int64) (api.UserRecords, error) {
				if id == 1 {
					close(started)
					select {
					case <-release:
					case <-ctx.Done():
						return api.UserRecords{}, ctx.Err()
					}
					return api.UserRecords{User: userdm.User{ID: 1, Email: "stale@example.com"}}, nil
				}
				return api.UserRecords{User: userdm.User{ID: 2, Email: "fresh@example.com"}}, nil
			}

			done := make(chan error, 1)
			go func() { done <- svc.Select(ctx, screen, 1) }()
			Eventually(started).Should(BeClosed())

			Expect(svc.Select(ctx, screen, 2)).To(Succeed())
			close(release)
			Eventually(done).Should(Receive(BeNil()))

			snap := screen.Snapshot()
			Expect(snap.SelectedID).To(Equal(int64(2)))
			Expect(snap.Selected.Email).To(Equal("fresh@example.com"))
			Expect(snap.Loading).To(BeFalse())
		})

		It("shows nothing of a partly failed fetch", func() {
			backend.fetch = func(context.Context, int64) (api.UserRecords, error) {
				return api.UserRecords{}, internal.NewRequestFailedError("wfh store down", 500)
			}

			err := svc.Select(ctx, screen, 1)

			Expect(err).To(HaveOccurred())
			snap := screen.Snapshot()
			Expect(snap.HasSelected).To(BeTrue())
			Expect(snap.Selected).To(BeNil())
			Expect(snap.Leaves).To(BeEmpty())
			Expect(snap.DetailError).To(Equal("wfh store down"))
		})
	})

	Describe("CreateLeave", func() {
		dto := leave.CreateLeaveDTO{LeaveType: "casual", StartDate: "2024-07-01", EndDate: "2024-07-01"}

		BeforeEach(func() {
			backend.fetch = func(context.Context, int64) (api.UserRecords, error) {
				return api.UserRecords{User: userdm.User{ID: 2}}, nil
			}
		})

		It("needs a target user", func() {
			backend.createLeave = func(leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
				Fail("no request expected")
				return leavedm.LeaveRequest{}, nil
			}

			_, err := svc.CreateLeave(ctx, screen, 0, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldMessage("user_id")).To(Equal("Select a user first."))
		})

		It("reloads the leave list when the response has no record", func() {
			Expect(svc.Select(ctx, screen, 2)).To(Succeed())
			backend.createLeave = func(req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
				Expect(req.UserID).To(Equal(int64(2)))
				return leavedm.LeaveRequest{}, nil
			}
			backend.listLeaves = func(int64) ([]leavedm.LeaveRequest, error) {
				return []leavedm.LeaveRequest{{ID: 40}}, nil
			}

			_, err := svc.CreateLeave(ctx, screen, 2, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(backend.leaveListHit).To(Equal(1))
			Expect(screen.Snapshot().Leaves).To(ConsistOf(HaveField("ID", int64(40))))
		})

		It("does not touch another user's list", func() {
			Expect(svc.Select(ctx, screen, 2)).To(Succeed())
			backend.createLeave = func(req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
				// the admin switched to nobody while the request was in flight
				Expect(svc.Select(ctx, screen, 0)).To(Succeed())
				return leavedm.LeaveRequest{ID: 41, UserID: 2}, nil
			}

			_, err := svc.CreateLeave(ctx, screen, 2, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(screen.Snapshot().Leaves).To(BeEmpty())
		})

		It("files for the form's user when the selection moved on", func() {
			backend.fetch = func(_ context.Context, id int64) (api.UserRecords, error) {
				return api.UserRecords{
					User:   userdm.User{ID: id},
					Leaves: []leavedm.LeaveRequest{{ID: 30 + id, UserID: id}},
				}, nil
			}
			Expect(svc.Select(ctx, screen, 1)).To(Succeed())
			Expect(svc.Select(ctx, screen, 2)).To(Succeed())

			var sent leavedm.CreateLeaveRequest
			backend.createLeave = func(req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
				sent = req
				return leavedm.LeaveRequest{ID: 42, UserID: 1}, nil
			}

			created, err := svc.CreateLeave(ctx, screen, 1, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(42)))
			Expect(sent.UserID).To(Equal(int64(1)))
			Expect(backend.leaveListHit).To(BeZero())
			snap := screen.Snapshot()
			Expect(snap.SelectedID).To(Equal(int64(2)))
			Expect(snap.Leaves).To(ConsistOf(HaveField("ID", int64(32))))
		})
	})
})
