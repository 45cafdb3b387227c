package port

import (
	"context"

	"github.com/airsightlab/airsight-backend/internal/domain"
)

// OAuthProvider abstracts an OAuth2 identity provider. Implementations
// handle the code exchange and profile retrieval for a specific provider
// (Google, Facebook).
type OAuthProvider interface {
	// ProviderName returns the name of this provider (e.g. "google").
	ProviderName() string

	// AuthURL returns the full OAuth2 authorization URL for redirecting
	// the user.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for a token pair.
	ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error)

	// GetProfile fetches the authenticated user's profile from the
	// provider.
	GetProfile(ctx context.Context, accessToken string) (*domain.OAuthProfile, error)
}

// OAuthProviderRegistry holds the configured providers keyed by name.
// Facebook is only present when credentials were supplied.
type OAuthProviderRegistry map[string]OAuthProvider
