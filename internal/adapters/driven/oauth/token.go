// Package oauth provides app-only token exchange for the Twitter API.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// DefaultTokenURL is the app-only bearer token endpoint.
const DefaultTokenURL = "https://api.twitter.com/oauth2/token"

// Environment variables holding the app's consumer credentials.
const (
	EnvAPIKey    = "TWITTER_API_KEY"
	EnvAPISecret = "TWITTER_API_SECRET"
)

// Ensure ClientCredentialsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// ClientCredentialsProvider exchanges the app's API key and secret for a
// bearer token on first use and reuses it afterwards. App-only tokens do
// not expire.
type ClientCredentialsProvider struct {
	config clientcredentials.Config

	mu  sync.Mutex
	src oauth2.TokenSource
}

// NewClientCredentialsProvider returns a provider for the given credentials,
// falling back to $TWITTER_API_KEY and $TWITTER_API_SECRET. An empty
// tokenURL selects DefaultTokenURL.
func NewClientCredentialsProvider(apiKey, apiSecret, tokenURL string) *ClientCredentialsProvider {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &ClientCredentialsProvider{
		config: clientcredentials.Config{
			ClientID:     firstNonEmpty(apiKey, os.Getenv(EnvAPIKey)),
			ClientSecret: firstNonEmpty(apiSecret, os.Getenv(EnvAPISecret)),
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
	}
}

// GetToken returns the bearer token, requesting it if needed.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	if !p.IsAuthenticated() {
		return "", domain.ErrAuthRequired
	}

	p.mu.Lock()
	if p.src == nil {
		// The cached source must outlive ctx.
		p.src = p.config.TokenSource(context.WithoutCancel(ctx))
	}
	src := p.src
	p.mu.Unlock()

	token, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", fmt.Errorf("%w: token error: %s - %s",
				domain.ErrAuthInvalid, retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
		}
		return "", fmt.Errorf("token request: %w", err)
	}
	if !strings.EqualFold(token.Type(), "bearer") {
		return "", fmt.Errorf("%w: unexpected token type %q", domain.ErrAuthInvalid, token.TokenType)
	}
	return token.AccessToken, nil
}

// IsAuthenticated returns true if both credentials are configured.
func (p *ClientCredentialsProvider) IsAuthenticated() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
