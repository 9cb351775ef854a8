// Package httputil provides HTTP client utilities with standard configurations.
package httputil

import (
	"net/http"
	"time"
)

const (
	// Default timeout for HTTP requests
	defaultTimeout = 10 * time.Second

	// Default bound on concurrent connections to a single host
	defaultMaxConns = 100

	idleConnTimeout       = 90 * time.Second
	responseHeaderTimeout = 10 * time.Second
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is configured with connection pooling and idle connection management.
// maxConns bounds both idle and active connections per host; zero uses the default.
func NewHTTPClient(timeout time.Duration, maxConns int) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = maxConns
	transport.MaxIdleConnsPerHost = maxConns
	transport.MaxConnsPerHost = maxConns
	transport.IdleConnTimeout = idleConnTimeout
	transport.ResponseHeaderTimeout = min(responseHeaderTimeout, timeout)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

