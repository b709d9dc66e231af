// Package dashboard serves the landing page: who is signed in and how their
// leave and WFH requests stand.
package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/core/calendar"
	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

const upcomingLimit = 5

type Backend interface {
	CurrentUser(ctx context.Context) (userdm.User, error)
	FetchMemberRecords(ctx context.Context) (api.MemberRecords, error)
}

type ServiceAPI interface {
	Summary(ctx context.Context) (Summary, error)
}

// StatusCount is one row of the status table.
type StatusCount struct {
	Status leavedm.Status
	Leaves int
	WFH    int
}

type Summary struct {
	User         userdm.User
	Counts       []StatusCount
	TotalLeaves  int
	TotalWFH     int
	ApprovedDays int
	Upcoming     []leavedm.LeaveRequest
}

type Service struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(backend Backend, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{backend: backend, logger: lg, now: time.Now}
}

// Summary loads the profile and both request lists in parallel; any failure
// fails the whole summary.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		u    userdm.User
		recs api.MemberRecords
	)
	g.Go(func() error {
		var err error
		u, err = s.backend.CurrentUser(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = s.backend.FetchMemberRecords(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to load dashboard", "error", err)
		return Summary{}, err
	}

	return summarize(u, recs, today(s.now())), nil
}

func summarize(u userdm.User, recs api.MemberRecords, asOf calendar.Date) Summary {
	sum := Summary{
		User:        u,
		TotalLeaves: len(recs.Leaves),
		TotalWFH:    len(recs.WFH),
	}

	counts := make(map[leavedm.Status]*StatusCount, len(leavedm.Statuses))
	for _, st := range leavedm.Statuses {
		sum.Counts = append(sum.Counts, StatusCount{Status: st})
	}
	for i := range sum.Counts {
		counts[sum.Counts[i].Status] = &sum.Counts[i]
	}

	for _, l := range recs.Leaves {
		if c, ok := counts[l.Status]; ok {
			c.Leaves++
		}
		if l.Status == leavedm.StatusApproved {
			sum.ApprovedDays += l.NumDays
		}
		if (l.Status == leavedm.StatusApproved || l.Status == leavedm.StatusPending) && !l.StartDate.Before(asOf) {
			sum.Upcoming = append(sum.Upcoming, l)
		}
	}
	for _, w := range recs.WFH {
		if c, ok := counts[w.Status]; ok {
			c.WFH++
		}
	}

	sort.SliceStable(sum.Upcoming, func(i, j int) bool {
		return sum.Upcoming[i].StartDate.Before(sum.Upcoming[j].StartDate)
	})
	if len(sum.Upcoming) > upcomingLimit {
		sum.Upcoming = sum.Upcoming[:upcomingLimit]
	}
	return sum
}

func today(t time.Time) calendar.Date {
	return calendar.NewDate(t.Year(), t.Month(), t.Day())
}
