package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied before the authorization transport wrapper is installed,
// so transport-related options (like debug logging) will be placed underneath
// the auth wrapper. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP attempt.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. The client is copied, so
// options applied after it never touch hc. Apply it before WithHTTPTimeout or
// WithDebugLogging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments as it dumps request
// and response bodies, which may contain credentials or documents.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, ok := c.http.Transport.(*debugTransport); ok {
				return nil
			}
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithBasicAuth authenticates every request with username and password.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) error {
		if username == "" {
			return fmt.Errorf("username cannot be empty")
		}
		c.username, c.password = username, password
		return nil
	}
}

// WithAPIKey authenticates every request with an encoded API key, as returned
// in the "encoded" field of the create-API-key response.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		if key == "" {
			return fmt.Errorf("api key cannot be empty")
		}
		c.apiKey = key
		return nil
	}
}

// WithMaxRetries bounds how often a request failing with a network error,
// 408, 429 or 5xx is retried. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("max retries must be >= 0")
		}
		c.maxRetries = n
		return nil
	}
}

// WithBackoff sets the first and the longest wait between retries.
func WithBackoff(base, maxWait time.Duration) Option {
	return func(c *Client) error {
		if base <= 0 || maxWait < base {
			return fmt.Errorf("backoff requires 0 < base <= max")
		}
		c.baseBackoff, c.maxBackoff = base, maxWait
		return nil
	}
}

// WithExecutor runs async writes on the given shard executor instead of the
// default one built from SQ_* settings. The client stops it on Close.
func WithExecutor(e Executor) Option {
	return func(c *Client) error {
		if e == nil {
			return fmt.Errorf("executor cannot be nil")
		}
		c.exec = e
		c.noExecutor = false
		return nil
	}
}

// WithoutExecutor disables async writes; IndexAsync, DeleteAsync and
// AwaitConsistency return ErrNoExecutor. Use it for short-lived clients such
// as CLIs.
func WithoutExecutor() Option {
	return func(c *Client) error {
		c.exec = nil
		c.noExecutor = true
		return nil
	}
}
