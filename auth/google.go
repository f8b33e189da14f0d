package auth

import (
	"context"
	"fmt"

	"github.com/whisperbox/secrets"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var _ Provider = (*Google)(nil)

// Google authenticates users against Google's OAuth2 endpoints.
type Google struct {
	config *oauth2.Config
}

// NewGoogle constructs a *Google from client credentials.
func NewGoogle(clientID, clientSecret, redirectURL string) (*Google, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, fmt.Errorf(`%w: config cannot be ""`, ErrNotValid)
	}

	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{goauth2.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

func (g *Google) Name() string { return secrets.ProviderGoogle }

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %s", ErrProvider, err)
	}

	return token, nil
}

// FetchSubject retrieves the Google userinfo record the token grants access to.
func (g *Google) FetchSubject(ctx context.Context, token *oauth2.Token) (Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	service, err := goauth2.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return Subject{}, fmt.Errorf("%w: constructing userinfo service: %s", ErrProvider, err)
	}

	info, err := service.Userinfo.Get().Do()
	if err != nil {
		return Subject{}, fmt.Errorf("%w: fetching userinfo: %s", ErrProvider, err)
	}

	return Subject{ID: info.Id, DisplayName: info.Name}, nil
}
