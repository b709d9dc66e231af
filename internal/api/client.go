// Package api is the resource client for the Jinzai HR backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

// maxErrorBody bounds how much of an error response is read for the detail message.
const maxErrorBody = 64 << 10

// ErrSessionExpired matches any 401 returned to an authenticated call.
var ErrSessionExpired = internal.ErrSessionExpired

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) { return token, nil })
}

type Config struct {
	BaseURL string
	// Timeout bounds each call; zero leaves it to the caller's context.
	Timeout time.Duration
	// Transport overrides the HTTP transport, e.g. with the contract validator.
	Transport http.RoundTripper
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewClient(cfg Config, tokens TokenSource, lg *slog.Logger) *Client {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    &http.Client{Transport: transport},
		tokens:  tokens,
		logger:  lg,
	}
}

// WithTokens returns a copy of the client that authenticates with tokens.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

type call struct {
	method        string
	path          string
	body          io.Reader
	contentType   string
	authenticated bool
}

func jsonCall(method, path string, payload interface{}) (call, error) {
	c := call{method: method, path: path, authenticated: true}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return c, fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
		c.body = bytes.NewReader(data)
		c.contentType = "application/json"
	}
	return c, nil
}

// do issues the call and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	lg := logger.FromOr(ctx, c.logger)

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return internal.NewInternalError("failed to build backend request", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if traceID := internal.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	if cl.authenticated {
		token, err := c.tokenFor(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			lg.Debug("backend call cancelled", "method", cl.method, "path", cl.path, "error", ctxErr)
			return ctxErr
		}
		var appErr *internal.AppError
		if errors.As(err, &appErr) {
			// raised by a RoundTripper such as the contract validator
			return appErr
		}
		lg.Error("backend unreachable", "method", cl.method, "path", cl.path, "error", err)
		return internal.NewBackendUnreachableError(err)
	}
	defer resp.Body.Close()

	lg.Debug("backend call",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := requestFailed(resp)
		if !cl.authenticated && appErr.Code == internal.ErrCodeSessionExpired {
			appErr.Code = internal.ErrCodeBackendResponse
		}
		lg.Warn("backend request failed",
			"method", cl.method,
			"path", cl.path,
			"status", resp.StatusCode,
			"detail", appErr.Message)
		return appErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return internal.NewBackendUnreachableError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return internal.NewInternalError(fmt.Sprintf("unexpected response from %s %s", cl.method, cl.path), err)
	}
	return nil
}

func (c *Client) tokenFor(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", internal.ErrAuthenticationMissing
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", internal.ErrAuthenticationMissing
	}
	return token, nil
}

// requestFailed converts a non-2xx response into a REQUEST_FAILED error,
// preferring the body's detail field over the status text.
func requestFailed(resp *http.Response) *internal.AppError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := detailMessage(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if message == "" {
		message = resp.Status
	}
	return internal.NewRequestFailedError(message, resp.StatusCode)
}

// detailMessage extracts "detail" as either a string or a list of {msg}.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
