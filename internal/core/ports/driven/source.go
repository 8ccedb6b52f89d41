package driven

import (
	"iter"
	"net/url"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// RecordSource produces one stream's records from paginated API responses.
// The extractor owns the HTTP call and the pagination cursor; a source only
// describes the request and transforms each decoded page.
type RecordSource interface {
	// Definition returns the stream's static descriptor.
	Definition() domain.StreamDefinition

	// RequestParams returns the query parameters for the next page request,
	// excluding the pagination token. Called before every page.
	RequestParams() url.Values

	// ParseResponse yields the page's output records lazily, in response order.
	// A non-nil error aborts the page; the sequence must not be resumed after it.
	ParseResponse(page *domain.RawPage) iter.Seq2[domain.Record, error]
}
