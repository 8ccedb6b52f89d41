package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/logger"
	"github.com/custodia-labs/tap-twitter/internal/metrics"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// UserAgent identifies the tap to the API.
	UserAgent = "tap-twitter"
)

// Ensure Client implements the interface.
var _ driven.PageFetcher = (*Client)(nil)

// Client performs authenticated, rate-limited requests against the API v2.
type Client struct {
	http          *http.Client
	baseURL       string
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	metrics       *metrics.Metrics
	retryDelay    time.Duration
}

// NewClient creates a client that authenticates with the provider's bearer token.
func NewClient(tokenProvider driven.TokenProvider, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(ProactiveRate),
		retryDelay:    RetryDelay,
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client
// that already handles authentication.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	c := NewClient(nil, baseURL)
	c.http = httpClient
	return c
}

// WithMetrics records request outcomes in m.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ensureClient builds the bearer-authenticated http.Client on first use.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.http != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return domain.ErrAuthRequired
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	// The transport must outlive ctx, which may be a per-request context.
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout
	c.http = tc

	return nil
}

// FetchPage requests path and decodes the response into a page.
// Rate limit responses, 5xx responses and network failures are retried
// up to MaxRetries times with a doubling delay.
func (c *Client) FetchPage(ctx context.Context, path string, params url.Values) (*domain.RawPage, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	delay := c.retryDelay
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying %s in %s (attempt %d): %v", path, delay, attempt, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		page, err := c.do(ctx, reqURL)
		if err == nil {
			return page, nil
		}
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
		}
		if !isRetryable(ctx, err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: giving up after %d retries: %w", path, MaxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, reqURL string) (*domain.RawPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, body, req.URL.Redacted())
	}

	var page domain.RawPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	logPartialErrors(body)
	return &page, nil
}

// logPartialErrors reports errors returned alongside data, such as
// suspended or unknown accounts in a user lookup.
func logPartialErrors(body []byte) {
	gjson.GetBytes(body, "errors").ForEach(func(_, e gjson.Result) bool {
		logger.Warn("twitter: %s (%s=%s)",
			e.Get("detail").String(), e.Get("parameter").String(), e.Get("value").String())
		return true
	})
}

// transportError marks a network-level failure.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "twitter: transport: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var tErr *transportError
	return IsRateLimited(err) || IsServerError(err) || errors.As(err, &tErr)
}
