// Package api is a client for the yoga studio REST backend.
//
// Every method forwards the transport outcome unchanged: a non-2xx reply
// becomes an *HTTPError, a network failure is returned wrapped. There are no
// retries and nothing is cached; reacting to failures is the caller's job.
package api

import "time"

// Default client settings.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the backend origin; resource paths start with /api.
	BaseURL string

	// Timeout is the HTTP client timeout for each request.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// WithBaseURL returns a copy of the config with the specified base URL.
func (c Config) WithBaseURL(baseURL string) Config {
	c.BaseURL = baseURL
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}
