package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewFacebook(t *testing.T) {
	// Arrange + Act
	_, err := NewFacebook("", "secret", "https://example.com/cb")

	// Assert
	require.ErrorIs(t, err, ErrNotValid)

	// Arrange + Act
	f, err := NewFacebook("id", "secret", "https://example.com/cb")

	// Assert
	require.Nil(t, err)
	require.Contains(t, f.AuthCodeURL("signed-state"), "state=signed-state")
}

func TestFacebookFetchSubject(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"31337","name":"Jenny Appleseed"}`))
	}))
	defer srv.Close()

	f, err := NewFacebook("id", "secret", "https://example.com/cb")
	require.Nil(t, err)
	f.meURL = srv.URL

	// Act
	sub, err := f.FetchSubject(context.Background(), &oauth2.Token{AccessToken: "tkn"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, Subject{ID: "31337", DisplayName: "Jenny Appleseed"}, sub)
}

func TestFacebookFetchSubjectGraphError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f, err := NewFacebook("id", "secret", "https://example.com/cb")
	require.Nil(t, err)
	f.meURL = srv.URL

	// Act
	_, err = f.FetchSubject(context.Background(), &oauth2.Token{AccessToken: "tkn"})

	// Assert
	require.ErrorIs(t, err, ErrProvider)
}
