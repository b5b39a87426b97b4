// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api provides the HTTP client for the catalog service.
// It implements the three remote operations the CLI depends on (login, list
// products, get product), attaches the bearer token to every request, and
// classifies failures into the error kinds of internal/errors. It never prints;
// rendering is left to the commands.
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
	"net/url"
	"strings"
	"time"

	cerrors "catalog/cli/internal/errors"
	"catalog/cli/internal/logging"

	"github.com/google/uuid"
)

// Endpoint paths of the remote service.
const (
	PathLogin    = "/auth/login"
	PathProducts = "/products"
)

// TokenSource supplies the bearer token for outbound requests.
type TokenSource interface {
	Token() string
}

// Client is the API client for the catalog service.
type Client struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://fakestoreapi.com")
	baseURL string
	// httpClient is the underlying HTTP client with configured timeout
	httpClient *http.Client
	// tokens supplies the bearer token; nil means requests are anonymous
	tokens TokenSource
	// onUnauthorized runs on every 401 response, before the error is returned
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource attaches the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers the hook run on any 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client with the given base URL.
// It configures a 10-second timeout unless overridden.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Login calls POST /auth/login and returns the issued token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", cerrors.Wrap(cerrors.InvalidInput, "could not encode credentials", err)
	}

	resp, err := c.do(ctx, http.MethodPost, PathLogin, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "", cerrors.New(cerrors.InvalidCredentials, "Invalid credentials")
	default:
		return "", statusError(resp, "login")
	}

	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", cerrors.Wrap(cerrors.Transport, "invalid login response", err)
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", cerrors.New(cerrors.Transport, "token not received from API")
	}
	return out.Token, nil
}

// ListProducts calls GET /products. The full list is returned; paging is a
// presentation concern.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, PathProducts, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(resp, "list products")
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, cerrors.Wrap(cerrors.Transport, "invalid product list response", err)
	}
	return products, nil
}

// GetProduct calls GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, cerrors.New(cerrors.InvalidInput, "product id is required")
	}

	resp, err := c.do(ctx, http.MethodGet, PathProducts+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, cerrors.New(cerrors.NotFound, fmt.Sprintf("product %s not found", id))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(resp, "get product")
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.Transport, "read product response", err)
	}
	// The public FakeStore API answers unknown ids with 200 and an empty body.
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, cerrors.New(cerrors.NotFound, fmt.Sprintf("product %s not found", id))
	}

	var p Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, cerrors.Wrap(cerrors.Transport, "invalid product response", err)
	}
	return &p, nil
}

// do sends a request with the standard headers and the bearer token when present.
// Transport failures are classified; any 401 triggers the unauthorized hook.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.Transport, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", logging.Mask(err.Error()))
		return nil, c.requestError(ctx, err)
	}
	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return resp, nil
}

// requestError converts transport errors to classified errors with friendly messages.
func (c *Client) requestError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return cerrors.Wrap(cerrors.Transport, "request canceled", err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return cerrors.Wrap(cerrors.Transport, "request timed out", err)
	}
	return cerrors.Wrap(cerrors.Transport, fmt.Sprintf("cannot connect to catalog service at %s", c.baseURL), err)
}

// failure classifies a non-OK response of an authenticated operation.
func (c *Client) failure(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return cerrors.New(cerrors.AuthorizationExpired, "session expired or token rejected")
	}
	return statusError(resp, op)
}

// statusError builds a transport error that carries the status and the service's message.
func statusError(resp *http.Response, op string) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(b))
	var er ErrorResponse
	if json.Unmarshal(b, &er) == nil {
		if er.Error != "" {
			detail = er.Error
		} else if er.Message != "" {
			detail = er.Message
		}
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	return cerrors.Wrap(cerrors.Transport, fmt.Sprintf("%s failed", op), &StatusError{Code: resp.StatusCode, Detail: detail})
}

// StatusError records an unexpected HTTP status.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Detail)
}
