package twitter

import (
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Sources returns every stream of the tap in extraction order.
func Sources(cfg *Config) []driven.RecordSource {
	return []driven.RecordSource{
		NewTweetSearchSource(cfg),
		NewUserLookupSource(cfg),
	}
}

// Definitions returns the descriptors of every stream.
func Definitions() []domain.StreamDefinition {
	return []domain.StreamDefinition{
		TweetsDefinition(),
		UsersDefinition(),
	}
}
