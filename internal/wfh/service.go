// Package wfh serves the member's work-from-home request page.
package wfh

import (
	"context"
	"log/slog"
	"sort"

	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

type Backend interface {
	ListWFH(ctx context.Context) ([]wfhdm.WfhRequest, error)
	CreateWFH(ctx context.Context, req wfhdm.CreateWfhRequest) (wfhdm.WfhRequest, error)
	WithdrawWFH(ctx context.Context, id int64) (wfhdm.WfhRequest, error)
}

type ServiceAPI interface {
	List(ctx context.Context, f Filter) ([]wfhdm.WfhRequest, error)
	Create(ctx context.Context, dto CreateWfhDTO) (wfhdm.WfhRequest, error)
	Withdraw(ctx context.Context, id int64) (wfhdm.WfhRequest, error)
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

func (s *Service) List(ctx context.Context, f Filter) ([]wfhdm.WfhRequest, error) {
	reqs, err := s.backend.ListWFH(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to fetch wfh requests", "error", err)
		return nil, err
	}
	out := f.Apply(reqs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (s *Service) Create(ctx context.Context, dto CreateWfhDTO) (wfhdm.WfhRequest, error) {
	if err := dto.Validate(); err != nil {
		return wfhdm.WfhRequest{}, err
	}

	created, err := s.backend.CreateWFH(ctx, dto.Request())
	if err != nil {
		return wfhdm.WfhRequest{}, err
	}
	logger.FromOr(ctx, s.logger).Info("wfh requested", "wfh_id", created.ID)
	return created, nil
}

func (s *Service) Withdraw(ctx context.Context, id int64) (wfhdm.WfhRequest, error) {
	updated, err := s.backend.WithdrawWFH(ctx, id)
	if err != nil {
		return wfhdm.WfhRequest{}, err
	}
	logger.FromOr(ctx, s.logger).Info("wfh withdrawn", "wfh_id", id)
	return updated, nil
}
