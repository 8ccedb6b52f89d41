package auth

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// EnvBearerToken is the environment variable holding the app bearer token.
const EnvBearerToken = "TWITTER_BEARER_TOKEN"

// Ensure BearerTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*BearerTokenProvider)(nil)

// BearerTokenProvider provides a static app-only bearer token.
// Bearer tokens don't expire and don't require refresh.
type BearerTokenProvider struct {
	token string
}

// NewBearerTokenProvider returns a provider for configToken, falling back
// to $TWITTER_BEARER_TOKEN when configToken is empty.
func NewBearerTokenProvider(configToken string) *BearerTokenProvider {
	token := strings.TrimSpace(configToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(EnvBearerToken))
	}
	return &BearerTokenProvider{token: token}
}

// GetToken returns the bearer token.
func (p *BearerTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is configured.
func (p *BearerTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
