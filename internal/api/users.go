package api

import (
	"context"
	"fmt"
	"net/http"

	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
)

func (c *Client) ListUsers(ctx context.Context) ([]userdm.User, error) {
	var users []userdm.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/users", authenticated: true}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (userdm.User, error) {
	var u userdm.User
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/users/%d", id), authenticated: true}, &u)
	return u, err
}

func (c *Client) CurrentUser(ctx context.Context) (userdm.User, error) {
	var u userdm.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/users/me", authenticated: true}, &u)
	return u, err
}

func (c *Client) CreateUser(ctx context.Context, req userdm.CreateUserRequest) (userdm.User, error) {
	cl, err := jsonCall(http.MethodPost, "/api/v1/users", req)
	if err != nil {
		return userdm.User{}, err
	}
	var u userdm.User
	err = c.do(ctx, cl, &u)
	return u, err
}

// DeleteUser removes a user. The backend may answer with the deleted record
// or with an empty body; neither is needed by callers.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/api/v1/users/%d", id), authenticated: true}, nil)
}

// AdjustLeaveDays sets the user's granted additional days and returns the updated user.
func (c *Client) AdjustLeaveDays(ctx context.Context, id int64, days int) (userdm.User, error) {
	cl, err := jsonCall(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/adjust_leave_days", id),
		userdm.AdjustLeaveDaysRequest{GrantedAdditionalDays: days})
	if err != nil {
		return userdm.User{}, err
	}
	var u userdm.User
	err = c.do(ctx, cl, &u)
	return u, err
}
