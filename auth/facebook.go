package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/whisperbox/secrets"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const graphMeURL = "https://graph.facebook.com/v12.0/me?fields=id,name"

var _ Provider = (*Facebook)(nil)

// Facebook authenticates users against Facebook's OAuth2 endpoints.
type Facebook struct {
	config *oauth2.Config

	// meURL overrides the graph endpoint in tests.
	meURL string
}

// NewFacebook constructs a *Facebook from client credentials.
func NewFacebook(clientID, clientSecret, redirectURL string) (*Facebook, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, fmt.Errorf(`%w: config cannot be ""`, ErrNotValid)
	}

	return &Facebook{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		meURL: graphMeURL,
	}, nil
}

func (f *Facebook) Name() string { return secrets.ProviderFacebook }

func (f *Facebook) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state)
}

func (f *Facebook) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %s", ErrProvider, err)
	}

	return token, nil
}

// FetchSubject retrieves the graph API profile the token grants access to.
func (f *Facebook) FetchSubject(ctx context.Context, token *oauth2.Token) (Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.meURL, nil)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: building graph request: %s", ErrProvider, err)
	}

	res, err := f.config.Client(ctx, token).Do(req)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: fetching graph profile: %s", ErrProvider, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Subject{}, fmt.Errorf("%w: graph responded %d", ErrProvider, res.StatusCode)
	}

	var profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return Subject{}, fmt.Errorf("%w: decoding graph profile: %s", ErrProvider, err)
	}

	return Subject{ID: profile.ID, DisplayName: profile.Name}, nil
}
