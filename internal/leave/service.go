// Package leave serves the member's leave request page.
package leave

import (
	"context"
	"log/slog"
	"sort"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

type Backend interface {
	ListLeaves(ctx context.Context) ([]leavedm.LeaveRequest, error)
	CreateLeave(ctx context.Context, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error)
	WithdrawLeave(ctx context.Context, id int64) (leavedm.LeaveRequest, error)
}

type ServiceAPI interface {
	List(ctx context.Context, f Filter) ([]leavedm.LeaveRequest, error)
	Create(ctx context.Context, dto CreateLeaveDTO) (leavedm.LeaveRequest, error)
	Withdraw(ctx context.Context, id int64) (leavedm.LeaveRequest, error)
}

type Service struct {
	backend Backend
	logger  *slog.Logger
}

func NewService(backend Backend, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{backend: backend, logger: lg}
}

// List returns the caller's leave requests matching f, newest start first.
func (s *Service) List(ctx context.Context, f Filter) ([]leavedm.LeaveRequest, error) {
	leaves, err := s.backend.ListLeaves(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to fetch leave requests", "error", err)
		return nil, err
	}
	out := f.Apply(leaves)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (s *Service) Create(ctx context.Context, dto CreateLeaveDTO) (leavedm.LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return leavedm.LeaveRequest{}, err
	}

	created, err := s.backend.CreateLeave(ctx, dto.Request(0))
	if err != nil {
		return leavedm.LeaveRequest{}, err
	}
	logger.FromOr(ctx, s.logger).Info("leave requested", "leave_id", created.ID, "type", dto.LeaveType)
	return created, nil
}

func (s *Service) Withdraw(ctx context.Context, id int64) (leavedm.LeaveRequest, error) {
	updated, err := s.backend.WithdrawLeave(ctx, id)
	if err != nil {
		return leavedm.LeaveRequest{}, err
	}
	logger.FromOr(ctx, s.logger).Info("leave withdrawn", "leave_id", id)
	return updated, nil
}
