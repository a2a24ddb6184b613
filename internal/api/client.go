package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/yogastudio/internal/logging"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the JSON-over-HTTP transport shared by the resource clients.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     TokenSource
	logger     *slog.Logger
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithTokenSource attaches "Authorization: Bearer <token>" to every request
// for which ts returns a non-empty token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a backend client.
func NewClient(config Config, logger *slog.Logger, opts ...Option) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	c := &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logging.OrDiscard(logger).With("component", "api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions returns the booking-session resource client.
func (c *Client) Sessions() *SessionAPI { return &SessionAPI{client: c} }

// Auth returns the login/registration client.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{client: c} }

// Teachers returns the teacher lookup client.
func (c *Client) Teachers() *TeacherAPI { return &TeacherAPI{client: c} }

// Users returns the account client.
func (c *Client) Users() *UserAPI { return &UserAPI{client: c} }

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// do sends a request with an optional JSON body. On a 2xx reply with a
// non-empty body and a non-nil out, the body is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := strings.TrimRight(c.config.BaseURL, "/") + path
	reqID := requestID()
	logger := c.logger.With("method", method, "path", path, "request_id", reqID)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(data)
		logger.Debug("HTTP request body", "bytes", len(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("HTTP request", "url", url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	logger.Debug("HTTP response", "status", resp.StatusCode, "bytes", len(respBody), "duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(method, path, resp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse %s %s response (status %d): %w", method, path, resp.StatusCode, err)
	}
	return nil
}
