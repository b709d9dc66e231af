package api

import (
	"context"
	"fmt"
	"net/http"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
)

// ListLeaves returns the caller's own leave requests.
func (c *Client) ListLeaves(ctx context.Context) ([]leavedm.LeaveRequest, error) {
	var leaves []leavedm.LeaveRequest
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/leaves", authenticated: true}, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (c *Client) ListUserLeaves(ctx context.Context, userID int64) ([]leavedm.LeaveRequest, error) {
	var leaves []leavedm.LeaveRequest
	path := fmt.Sprintf("/api/v1/admin/users/%d/leaves", userID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, authenticated: true}, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (c *Client) CreateLeave(ctx context.Context, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
	req.UserID = 0
	return c.createLeave(ctx, "/api/v1/leaves", req)
}

// CreateLeaveForUser files a leave request on behalf of req.UserID.
func (c *Client) CreateLeaveForUser(ctx context.Context, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
	return c.createLeave(ctx, "/api/v1/admin/leaves", req)
}

func (c *Client) createLeave(ctx context.Context, path string, req leavedm.CreateLeaveRequest) (leavedm.LeaveRequest, error) {
	if req.Status == "" {
		req.Status = leavedm.StatusPending
	}
	cl, err := jsonCall(http.MethodPost, path, req)
	if err != nil {
		return leavedm.LeaveRequest{}, err
	}
	var out leavedm.LeaveRequest
	err = c.do(ctx, cl, &out)
	return out, err
}

func (c *Client) WithdrawLeave(ctx context.Context, id int64) (leavedm.LeaveRequest, error) {
	cl, err := jsonCall(http.MethodPut, fmt.Sprintf("/api/v1/leaves/%d", id),
		leavedm.UpdateStatusRequest{Status: leavedm.StatusWithdrawn})
	if err != nil {
		return leavedm.LeaveRequest{}, err
	}
	var out leavedm.LeaveRequest
	err = c.do(ctx, cl, &out)
	return out, err
}
