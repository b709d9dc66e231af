// Package admin implements the manage-records screen: the user list, a
// selected user's leave and WFH records, and the admin actions on them.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/api"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	"github.com/frahmantamala/jinzai/internal/export"
	"github.com/frahmantamala/jinzai/internal/leave"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

// Backend is the part of the resource client this screen uses.
type Backend interface {
	ListUsers(ctx context.Context) ([]userdm.User, error)
	CreateUser(ctx context.Context, req userdm.CreateUserRequest) (userdm.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AdjustLeaveDays(ctx context.Context, id int64, days int) (userdm.User, error)
	FetchUserRecords(ctx context.Context, userID int64) (api.UserRecords, error)
	ListUserLeaves(ctx context.Context, userID int64) ([]leavedm.LeaveRequest, error)
	CreateLeaveForUser(ctx context.Context, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error)
}

type ServiceAPI interface {
	Mount(ctx context.Context, s *Screen, refresh bool) error
	Select(ctx context.Context, s *Screen, userID int64) error
	CreateUser(ctx context.Context, s *Screen, dto CreateUserDTO) (userdm.User, error)
	AdjustDays(ctx context.Context, s *Screen, userID int64, dto AdjustDaysDTO) (userdm.User, error)
	CreateLeave(ctx context.Context, s *Screen, userID int64, dto leave.CreateLeaveDTO) (leavedm.LeaveRequest, error)
	DeleteUser(ctx context.Context, s *Screen, userID int64) error
	Export(ctx context.Context, userID int64) (*export.File, error)
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

// Mount loads the user list unless the screen already holds it.
func (s *Service) Mount(ctx context.Context, screen *Screen, refresh bool) error {
	if screen.loaded() && !refresh {
		return nil
	}

	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to fetch users", "error", err)
		screen.setUsers(nil, internal.UserMessage(err))
		return err
	}
	screen.setUsers(users, "")
	return nil
}

// Select shows userID's records; zero clears the selection. A response that
// arrives after another selection began is dropped.
func (s *Service) Select(ctx context.Context, screen *Screen, userID int64) error {
	lg := logger.FromOr(ctx, s.logger)

	if userID <= 0 {
		screen.clearSelection()
		return nil
	}

	ticket := screen.begin(ctx, userID)
	defer ticket.Done()

	recs, err := s.backend.FetchUserRecords(ticket.Context(), userID)
	msg := ""
	if err != nil {
		msg = internal.UserMessage(err)
	}

	if !screen.finish(ticket, recs.User, recs.Leaves, recs.WFH, msg) {
		lg.Debug("discarding records of a superseded selection", "user_id", userID)
		if errors.Is(err, internal.ErrSessionExpired) {
			return err
		}
		return nil
	}
	if err != nil {
		lg.Warn("failed to fetch user records", "user_id", userID, "error", err)
	}
	return err
}

// CreateUser splices the created user into the list.
func (s *Service) CreateUser(ctx context.Context, screen *Screen, dto CreateUserDTO) (userdm.User, error) {
	if err := dto.Validate(); err != nil {
		return userdm.User{}, err
	}

	u, err := s.backend.CreateUser(ctx, dto.Request())
	if err != nil {
		return userdm.User{}, err
	}
	screen.upsertUser(u)
	logger.FromOr(ctx, s.logger).Info("user created", "user_id", u.ID)
	return u, nil
}

// AdjustDays stores the new granted days and reconciles the list and the
// detail panel from the returned user.
func (s *Service) AdjustDays(ctx context.Context, screen *Screen, userID int64, dto AdjustDaysDTO) (userdm.User, error) {
	if err := dto.Validate(); err != nil {
		return userdm.User{}, err
	}

	u, err := s.backend.AdjustLeaveDays(ctx, userID, dto.Value())
	if err != nil {
		return userdm.User{}, err
	}
	if u.ID == 0 {
		u.ID = userID
	}
	screen.upsertUser(u)
	logger.FromOr(ctx, s.logger).Info("granted days adjusted", "user_id", userID, "days", u.GrantedAdditionalDays)
	return u, nil
}

// CreateLeave files a leave request for userID, the user the form was shown
// for. The screen's leave list is updated only while userID is still selected.
func (s *Service) CreateLeave(ctx context.Context, screen *Screen, userID int64, dto leave.CreateLeaveDTO) (leavedm.LeaveRequest, error) {
	if userID <= 0 {
		return leavedm.LeaveRequest{}, internal.NewValidationFieldError("user_id", "Select a user first.", internal.ErrCodeRequiredField)
	}
	if err := dto.Validate(); err != nil {
		return leavedm.LeaveRequest{}, err
	}

	created, err := s.backend.CreateLeaveForUser(ctx, dto.Request(userID))
	if err != nil {
		return leavedm.LeaveRequest{}, err
	}

	lg := logger.FromOr(ctx, s.logger)
	lg.Info("leave created on behalf of user", "user_id", userID, "leave_id", created.ID)

	if selected, ok := screen.selected(); !ok || selected != userID {
		return created, nil
	}
	if created.ID == 0 {
		// the response did not carry the record, so reload the one list it changed
		leaves, err := s.backend.ListUserLeaves(ctx, userID)
		if err != nil {
			lg.Warn("leave created but the list could not be reloaded", "user_id", userID, "error", err)
			return created, err
		}
		screen.replaceLeaves(userID, leaves)
	} else {
		screen.appendLeave(userID, created)
	}
	return created, nil
}

// DeleteUser removes the user, and the selection with it when it pointed at them.
func (s *Service) DeleteUser(ctx context.Context, screen *Screen, userID int64) error {
	if err := s.backend.DeleteUser(ctx, userID); err != nil {
		return err
	}
	screen.removeUser(userID)
	logger.FromOr(ctx, s.logger).Info("user deleted", "user_id", userID)
	return nil
}

// Export builds a workbook of userID's leave and WFH records from fresh data.
func (s *Service) Export(ctx context.Context, userID int64) (*export.File, error) {
	recs, err := s.backend.FetchUserRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	f, err := export.UserRecords(recs.User, recs.Leaves, recs.WFH)
	if err != nil {
		return nil, internal.NewInternalError(fmt.Sprintf("Could not export records of user %d.", userID), err)
	}
	return f, nil
}
