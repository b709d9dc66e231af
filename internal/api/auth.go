package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/frahmantamala/jinzai/internal"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// IssueToken exchanges credentials for a bearer token. The form is
// url-encoded, as the backend's OAuth2 password flow expects.
func (c *Client) IssueToken(ctx context.Context, username, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out TokenResponse
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/api/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &out)
	if err != nil {
		return TokenResponse{}, err
	}
	if out.AccessToken == "" {
		return TokenResponse{}, internal.NewRequestFailedError("Login failed: No access token received.", http.StatusBadGateway)
	}
	return out, nil
}
