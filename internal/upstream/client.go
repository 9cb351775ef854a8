package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/amaumene/venusplay/internal/constants"
	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/pkg/httputil"
	"github.com/amaumene/venusplay/pkg/logger"
	"github.com/amaumene/venusplay/pkg/ratelimiter"
	"github.com/amaumene/venusplay/pkg/security"
)

// Fetcher performs one upstream request and returns the raw JSON payload.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (json.RawMessage, error)
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	Retries        int
	RetryDelay     time.Duration
	MaxConnections int
	RateLimit      int64
	RateBurst      int64
}

// Client is the process-wide connection to the provider.
type Client struct {
	baseURL    string
	username   string
	password   string
	retries    int
	retryDelay time.Duration
	httpClient *http.Client
	limiter    ratelimiter.RateLimiter
	logger     logger.Logger
}

// statusError carries a non-2xx response status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.code)
}

// errMalformed marks a 2xx response whose body is not JSON.
var errMalformed = errors.New("malformed JSON from upstream")

func NewClient(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.UpstreamTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = constants.UpstreamRateLimit
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = constants.UpstreamRateBurst
	}

	return &Client{
		baseURL:    opts.BaseURL,
		username:   security.SanitizeCredential(opts.Username),
		password:   security.SanitizeCredential(opts.Password),
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		httpClient: httputil.NewHTTPClient(opts.Timeout, opts.MaxConnections),
		limiter:    ratelimiter.NewTokenBucket(opts.RateBurst, opts.RateLimit),
		logger:     log,
	}
}

// Fetch issues req, retrying network errors and 5xx responses with a fixed
// delay. 4xx responses and malformed bodies fail at once. Every failure is
// returned as an UPSTREAM_ERROR carrying the last attempt's message.
func (c *Client) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	target := req.URL(c.baseURL, c.username, c.password)
	var payload json.RawMessage

	err := retry.Do(
		func() error {
			body, err := c.do(ctx, target)
			if err != nil {
				return err
			}
			payload = body
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retries+1)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warnf("[Upstream] attempt %d for %s failed: %v", n+1, req.Action, err)
		}),
	)
	if err != nil {
		c.logger.Errorf("[Upstream] %s failed: %v", req.Action, err)
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("%s: %v", req.Action, err), err)
	}

	return payload, nil
}

func (c *Client) do(ctx context.Context, target string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", stripURL(err))
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debugf("[Upstream] GET %s", security.RedactURL(target))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, stripURL(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, errMalformed
	}

	return json.RawMessage(body), nil
}

// stripURL drops the request URL from a *url.Error. The URL carries the
// panel credentials and the error text ends up in logs and response bodies.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// isTransient reports whether another attempt may succeed.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, errMalformed) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}

// Close releases pooled connections. Called once at shutdown.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
