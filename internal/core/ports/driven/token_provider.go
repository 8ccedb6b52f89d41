package driven

import "context"

// TokenProvider provides the bearer token for authenticated API calls.
type TokenProvider interface {
	// GetToken returns the access token.
	// Returns domain.ErrAuthRequired when none is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
