package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
)

// UserRecords is everything the admin screen shows for one selected user.
type UserRecords struct {
	User   userdm.User
	Leaves []leavedm.LeaveRequest
	WFH    []wfhdm.WfhRequest
}

// FetchUserRecords loads the user, their leaves and their WFH requests in
// parallel. The first failure cancels the remaining calls and is returned;
// partial results are not returned.
func (c *Client) FetchUserRecords(ctx context.Context, userID int64) (UserRecords, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		u      userdm.User
		leaves []leavedm.LeaveRequest
		wfhs   []wfhdm.WfhRequest
	)

	g.Go(func() error {
		var err error
		u, err = c.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		leaves, err = c.ListUserLeaves(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		wfhs, err = c.ListUserWFH(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return UserRecords{}, err
	}
	return UserRecords{User: u, Leaves: leaves, WFH: wfhs}, nil
}

// MemberRecords is the signed-in member's own leave and WFH requests.
type MemberRecords struct {
	Leaves []leavedm.LeaveRequest
	WFH    []wfhdm.WfhRequest
}

func (c *Client) FetchMemberRecords(ctx context.Context) (MemberRecords, error) {
	g, gctx := errgroup.WithContext(ctx)

	var out MemberRecords
	g.Go(func() error {
		var err error
		out.Leaves, err = c.ListLeaves(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.WFH, err = c.ListWFH(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return MemberRecords{}, err
	}
	return out, nil
}
