package api

import (
	"context"
	"fmt"
	"net/http"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
)

func (c *Client) ListWFH(ctx context.Context) ([]wfhdm.WfhRequest, error) {
	var out []wfhdm.WfhRequest
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/wfh", authenticated: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUserWFH(ctx context.Context, userID int64) ([]wfhdm.WfhRequest, error) {
	var out []wfhdm.WfhRequest
	path := fmt.Sprintf("/api/v1/admin/users/%d/wfh", userID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, authenticated: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateWFH(ctx context.Context, req wfhdm.CreateWfhRequest) (wfhdm.WfhRequest, error) {
	if req.Status == "" {
		req.Status = leavedm.StatusPending
	}
	cl, err := jsonCall(http.MethodPost, "/api/v1/wfh", req)
	if err != nil {
		return wfhdm.WfhRequest{}, err
	}
	var out wfhdm.WfhRequest
	err = c.do(ctx, cl, &out)
	return out, err
}

func (c *Client) WithdrawWFH(ctx context.Context, id int64) (wfhdm.WfhRequest, error) {
	cl, err := jsonCall(http.MethodPut, fmt.Sprintf("/api/v1/wfh/%d", id),
		leavedm.UpdateStatusRequest{Status: leavedm.StatusWithdrawn})
	if err != nil {
		return wfhdm.WfhRequest{}, err
	}
	var out wfhdm.WfhRequest
	err = c.do(ctx, cl, &out)
	return out, err
}
