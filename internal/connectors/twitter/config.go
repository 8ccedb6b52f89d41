package twitter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// DefaultAPIURL is the Twitter API v2 base URL.
const DefaultAPIURL = "https://api.twitter.com/2"

// Config keys.
const (
	KeyUserIDs             = "user_ids"
	KeyURLPatterns         = "url_patterns"
	KeyIncludeMentions     = "include_mentions"
	KeyIncludeRetweets     = "include_retweets"
	KeyMissingAuthorPolicy = "missing_author_policy"
	KeyAPIURL              = "api_url"
	KeyBearerToken         = "bearer_token"
	KeyAPIKey              = "api_key"
	KeyAPISecret           = "api_secret"
)

// MissingAuthorPolicy decides what happens when a tweet's author_id is
// absent from a page's user expansions.
type MissingAuthorPolicy string

const (
	// MissingAuthorFail yields a ReferentialIntegrityError and aborts the page.
	MissingAuthorFail MissingAuthorPolicy = "fail"

	// MissingAuthorNull substitutes null and logs a warning.
	MissingAuthorNull MissingAuthorPolicy = "null"
)

// Config holds the parsed configuration for the Twitter streams.
type Config struct {
	// UserIDs are the accounts to extract. Required, but not validated here:
	// an empty list produces a query the API rejects.
	UserIDs []string

	// URLPatterns add url: clauses to the search query.
	URLPatterns []string

	// IncludeMentions adds to: clauses to the search query.
	IncludeMentions bool

	// IncludeRetweets adds retweets_of: clauses to the search query.
	IncludeRetweets bool

	// MissingAuthor is the policy for unresolved author references.
	// Default: fail
	MissingAuthor MissingAuthorPolicy

	// APIURL is the API base URL.
	// Default: https://api.twitter.com/2
	APIURL string
}

// ParseConfig reads the stream configuration from a config store.
// List values may be given as arrays or as comma-separated strings. Integer
// array items are accepted as ids; any other item type is rejected.
func ParseConfig(store driven.ConfigStore) (*Config, error) {
	userIDs, err := stringList(store, KeyUserIDs)
	if err != nil {
		return nil, err
	}
	urlPatterns, err := stringList(store, KeyURLPatterns)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		UserIDs:         userIDs,
		URLPatterns:     urlPatterns,
		IncludeMentions: store.GetBool(KeyIncludeMentions),
		IncludeRetweets: store.GetBool(KeyIncludeRetweets),
		MissingAuthor:   MissingAuthorFail,
		APIURL:          DefaultAPIURL,
	}

	if policy := store.GetString(KeyMissingAuthorPolicy); policy != "" {
		p, err := parsePolicy(policy)
		if err != nil {
			return nil, err
		}
		cfg.MissingAuthor = p
	}

	if apiURL := store.GetString(KeyAPIURL); apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	return cfg, nil
}

// QueryOptions returns the optional search clauses enabled by the config.
func (c *Config) QueryOptions() QueryOptions {
	return QueryOptions{
		IncludeMentions: c.IncludeMentions,
		IncludeRetweets: c.IncludeRetweets,
	}
}

func parsePolicy(s string) (MissingAuthorPolicy, error) {
	switch MissingAuthorPolicy(strings.TrimSpace(strings.ToLower(s))) {
	case MissingAuthorFail:
		return MissingAuthorFail, nil
	case MissingAuthorNull:
		return MissingAuthorNull, nil
	default:
		return "", ErrConfigInvalidPolicy
	}
}

// stringList accepts either a list value or a comma-separated string.
func stringList(store driven.ConfigStore, key string) ([]string, error) {
	val, ok := store.Get(key)
	if !ok || val == nil {
		return nil, nil
	}

	switch v := val.(type) {
	case string:
		return parseList(v), nil
	case []string:
		return v, nil
	case []any:
		values := make([]string, 0, len(v))
		for i, item := range v {
			s, err := listItem(item)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %w", domain.ErrInvalidInput, key, i, err)
			}
			values = append(values, s)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list or a comma-separated string, got %T",
			domain.ErrInvalidInput, key, val)
	}
}

// maxExactFloat is the largest integer a float64 holds exactly.
const maxExactFloat = 1 << 53

// listItem converts a list entry to a string. Ids written as numbers are
// formatted in base 10 as long as no precision was lost decoding them.
func listItem(item any) (string, error) {
	switch v := item.(type) {
	case string:
		return v, nil
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return "", fmt.Errorf("%s is not an integer", v)
		}
		return v.String(), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
			return "", fmt.Errorf("%v is not an exact integer", v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("unsupported value %v (%T)", item, item)
	}
}

// parseList parses a comma-separated string, dropping empty entries.
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
