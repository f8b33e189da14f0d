package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets/http/session"
)

func TestSessionUserLifecycle(t *testing.T) {
	// Arrange
	store := session.NewStub(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := store.GetSession(r)
	require.Nil(t, err)

	// Act
	_, err = s.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNoUser)

	// Act
	err = s.RegisterUser(w, r, 42)
	require.Nil(t, err)
	uid, err := s.UserID()

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(42), uid)

	// Act: a second resolve sees the same principal
	uid, err = s.UserID()

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(42), uid)

	// Act
	err = s.DeregisterUser(w, r)
	require.Nil(t, err)
	_, err = s.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNoUser)
}

func TestSessionFlashesAreOneShot(t *testing.T) {
	// Arrange
	store := session.NewStub(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := store.GetSession(r)
	require.Nil(t, err)

	f := session.Flash{Class: session.FlashError, Msg: session.BadCredsMsg}
	require.Nil(t, s.SetFlash(w, r, f))

	// Act
	first := s.Flashes(w, r)
	second := s.Flashes(w, r)

	// Assert
	require.Equal(t, []session.Flash{f}, first)
	require.Empty(t, second)
}

func TestSessionClearFlashes(t *testing.T) {
	// Arrange
	store := session.NewStub(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := store.GetSession(r)
	require.Nil(t, err)

	// access-control middleware drops flashes through the composed interface
	var composed session.SecretsSessionable = s
	require.Nil(t, composed.SetFlash(w, r, session.Flash{Class: session.FlashWarning, Msg: session.NoAccessMsg}))

	// Act
	composed.ClearFlashes(w, r)

	// Assert
	require.Empty(t, composed.Flashes(w, r))
}

func TestNewStoreService(t *testing.T) {
	// Arrange
	notHex := "😅"
	cfg := session.Config{Env: "TESTING", SessionName: "test-session", AuthKey: notHex}

	// Act
	svc, err := session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)
	require.Zero(t, svc)

	// Arrange
	cfg = session.Config{Env: "TESTING", SessionName: "", AuthKey: "ABCD", EncryptKey: "ABCD"}

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)

	// Arrange
	cfg = session.Config{Env: "TESTING", SessionName: "test-session", AuthKey: "ABCD", EncryptKey: "ABCD"}
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.Nil(t, err)
	require.NotZero(t, svc)
	require.NotPanics(t, func() { svc.GetSession(r) })
}
