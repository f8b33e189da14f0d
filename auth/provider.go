package auth

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// fetchTimeout bounds every network call made against an identity provider.
const fetchTimeout = 10 * time.Second

// A Subject is the identity an OAuth provider vouches for.
type Subject struct {
	ID          string
	DisplayName string
}

// A Provider runs the authorization-code flow against one identity source.
type Provider interface {
	// Name identifies the provider, e.g. "google".
	Name() string

	// AuthCodeURL builds the URL to send the user to for consent,
	// carrying the signed state parameter.
	AuthCodeURL(state string) string

	// Exchange swaps the authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchSubject retrieves the identity the token grants access to.
	FetchSubject(ctx context.Context, token *oauth2.Token) (Subject, error)
}
