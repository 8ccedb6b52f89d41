package twitter

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// Twitter-specific errors.
var (
	// ErrConfigInvalidPolicy indicates an unknown missing_author_policy value.
	ErrConfigInvalidPolicy = errors.New("twitter: invalid missing_author_policy (want fail or null)")

	// ErrDecodeResponse indicates the response body was not a valid page.
	ErrDecodeResponse = errors.New("twitter: cannot decode response")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "twitter: rate limit exceeded"
	}
	return fmt.Sprintf("twitter: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap allows errors.Is(err, domain.ErrRateLimited).
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a Twitter API error response.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	URL        string
}

func (e *APIError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("twitter: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// newAPIError builds an APIError from a problem-details body.
// Older endpoints report {"errors":[{"message":...}]} instead.
func newAPIError(statusCode int, body []byte, reqURL string) *APIError {
	result := gjson.ParseBytes(body)
	title := result.Get("title").String()
	if title == "" {
		title = result.Get("errors.0.message").String()
	}
	if title == "" {
		title = http.StatusText(statusCode)
	}
	return &APIError{
		StatusCode: statusCode,
		Title:      title,
		Detail:     result.Get("detail").String(),
		URL:        reqURL,
	}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
