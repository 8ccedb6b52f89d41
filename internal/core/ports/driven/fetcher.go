package driven

import (
	"context"
	"net/url"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// PageFetcher performs one API request and decodes the response body.
// Implementations own authentication, rate limiting and retries.
type PageFetcher interface {
	// FetchPage requests path with the given query parameters.
	FetchPage(ctx context.Context, path string, params url.Values) (*domain.RawPage, error)
}
