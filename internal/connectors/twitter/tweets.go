package twitter

import (
	"iter"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/tap-twitter/internal/connectors/twitter/schemas"
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/logger"
)

const (
	// StreamTweets is the search stream name.
	StreamTweets = "tweets"

	// PathRecentSearch is the recent search endpoint.
	PathRecentSearch = "/tweets/search/recent"

	// MaxResults is the page size requested from the search endpoint.
	MaxResults = 100

	// ExpansionAuthorID expands a tweet's author into includes.users.
	ExpansionAuthorID = "author_id"

	// ExpansionMediaKeys expands a tweet's attachments into includes.media.
	ExpansionMediaKeys = "attachments.media_keys"

	// FieldAuthor holds the denormalised author of a tweet.
	FieldAuthor = "expansion__author_id"

	// FieldMedia holds the denormalised media of a tweet.
	FieldMedia = "media"
)

// Ensure TweetSearchSource implements the interface.
var _ driven.RecordSource = (*TweetSearchSource)(nil)

// TweetSearchSource searches recent tweets from the configured accounts and
// denormalises each tweet with its author and media.
type TweetSearchSource struct {
	def    domain.StreamDefinition
	config *Config
}

// NewTweetSearchSource creates the tweets stream.
func NewTweetSearchSource(cfg *Config) *TweetSearchSource {
	return &TweetSearchSource{
		def:    TweetsDefinition(),
		config: cfg,
	}
}

// TweetsDefinition returns the descriptor of the tweets stream.
func TweetsDefinition() domain.StreamDefinition {
	return domain.StreamDefinition{
		Name:        StreamTweets,
		Path:        PathRecentSearch,
		PrimaryKeys: []string{"id"},
		Schema:      schemas.MustLoad(StreamTweets),
		Fields: domain.FieldSelection{
			TweetFields: TweetFields(),
			UserFields:  AuthorFields(),
			MediaFields: MediaFields(),
			Expansions:  TweetExpansions(),
		},
	}
}

// Definition returns the stream's static descriptor.
func (s *TweetSearchSource) Definition() domain.StreamDefinition {
	return s.def.Clone()
}

// Query returns the search query built from the configuration.
func (s *TweetSearchSource) Query() string {
	return BuildQueryWithOptions(s.config.UserIDs, s.config.URLPatterns, s.config.QueryOptions())
}

// RequestParams returns the search parameters. The query is rebuilt on
// every call but does not change between pages.
func (s *TweetSearchSource) RequestParams() url.Values {
	params := url.Values{}
	params.Set("max_results", strconv.Itoa(MaxResults))
	params.Set("query", s.Query())
	params.Set("tweet.fields", strings.Join(s.def.Fields.TweetFields, ","))
	params.Set("expansions", strings.Join(s.def.Fields.Expansions, ","))
	params.Set("user.fields", strings.Join(s.def.Fields.UserFields, ","))
	params.Set("media.fields", strings.Join(s.def.Fields.MediaFields, ","))
	return params
}

// ParseResponse yields the page's tweets with expansion__author_id and media
// set. Both fields are always present and hold null when nothing resolves.
// Raw records in the page are not modified.
func (s *TweetSearchSource) ParseResponse(page *domain.RawPage) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		var users, media *LookupTable
		if included, ok := page.Included("users"); ok {
			users = NewLookupTable(included, "id")
		}
		if included, ok := page.Included("media"); ok {
			media = NewLookupTable(included, "media_key")
		}

		for _, raw := range page.Data {
			tweet, err := s.denormalize(raw, users, media)
			if !yield(tweet, err) || err != nil {
				return
			}
		}
	}
}

func (s *TweetSearchSource) denormalize(raw domain.Record, users, media *LookupTable) (domain.Record, error) {
	tweet := maps.Clone(raw)
	if tweet == nil {
		tweet = domain.Record{}
	}

	// An empty users expansion counts as no expansion.
	tweet[FieldAuthor] = nil
	if users.Len() > 0 {
		authorID := tweet.String("author_id")
		author, ok := users.Get(authorID)
		switch {
		case ok:
			tweet[FieldAuthor] = author
		case s.config.MissingAuthor == MissingAuthorNull:
			logger.Warn("tweet %s: author %s missing from includes.users", tweet.ID(), authorID)
		default:
			return nil, &domain.ReferentialIntegrityError{TweetID: tweet.ID(), AuthorID: authorID}
		}
	}

	tweet[FieldMedia] = nil
	if keys, ok := mediaKeys(tweet); ok && media != nil {
		tweet[FieldMedia] = resolveMedia(media, keys)
	}

	return tweet, nil
}

// mediaKeys returns attachments.media_keys and whether the field is present.
func mediaKeys(tweet domain.Record) (map[string]struct{}, bool) {
	attachments, ok := tweet["attachments"].(map[string]any)
	if !ok {
		return nil, false
	}
	raw, ok := attachments["media_keys"].([]any)
	if !ok {
		return nil, false
	}
	keys := make(map[string]struct{}, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys[s] = struct{}{}
		}
	}
	return keys, true
}

// resolveMedia returns the table's records whose keys are in keys, in table order.
func resolveMedia(table *LookupTable, keys map[string]struct{}) []any {
	resolved := make([]any, 0, len(keys))
	for key, record := range table.All() {
		if _, ok := keys[key]; ok {
			resolved = append(resolved, record)
		}
	}
	return resolved
}
