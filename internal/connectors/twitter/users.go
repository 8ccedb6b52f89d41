package twitter

import (
	"iter"
	"net/url"
	"strings"

	"github.com/custodia-labs/tap-twitter/internal/connectors/twitter/schemas"
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

const (
	// StreamUsers is the user lookup stream name.
	StreamUsers = "users"

	// PathUsers is the user lookup endpoint.
	PathUsers = "/users"
)

// Ensure UserLookupSource implements the interface.
var _ driven.RecordSource = (*UserLookupSource)(nil)

// UserLookupSource fetches the configured accounts' profiles by id.
type UserLookupSource struct {
	def    domain.StreamDefinition
	config *Config
}

// NewUserLookupSource creates the users stream.
func NewUserLookupSource(cfg *Config) *UserLookupSource {
	return &UserLookupSource{
		def:    UsersDefinition(),
		config: cfg,
	}
}

// UsersDefinition returns the descriptor of the users stream.
func UsersDefinition() domain.StreamDefinition {
	return domain.StreamDefinition{
		Name:        StreamUsers,
		Path:        PathUsers,
		PrimaryKeys: []string{"id"},
		Schema:      schemas.MustLoad(StreamUsers),
		Fields: domain.FieldSelection{
			UserFields: UserFields(),
		},
	}
}

// Definition returns the stream's static descriptor.
func (s *UserLookupSource) Definition() domain.StreamDefinition {
	return s.def.Clone()
}

// RequestParams returns the comma-joined ids and user fields.
func (s *UserLookupSource) RequestParams() url.Values {
	params := url.Values{}
	params.Set("ids", strings.Join(s.config.UserIDs, ","))
	params.Set("user.fields", strings.Join(s.def.Fields.UserFields, ","))
	return params
}

// ParseResponse yields the page's users unchanged.
func (s *UserLookupSource) ParseResponse(page *domain.RawPage) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		for _, user := range page.Data {
			if !yield(user, nil) {
				return
			}
		}
	}
}
