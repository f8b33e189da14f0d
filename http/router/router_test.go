package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/http/middleware"
	"github.com/whisperbox/secrets/http/router"
)

type testUser struct{}

func (u testUser) HasAccess() bool  { return true }
func (u testUser) HomePath() string { return "/secrets" }

func teapot(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }

func TestRouterHandleRoutes(t *testing.T) {
	// Arrange
	r := router.New(secrets.Testing, middleware.NoopAdapter)
	r.Handle(router.Route{Path: "/ping", Method: http.MethodGet, Handler: teapot})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/ping", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange, wrong method
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "https://example.com/ping", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouterAuthedRoutes(t *testing.T) {
	// Arrange
	r := router.New(secrets.Testing, middleware.NoopAdapter)
	r.AuthedRoutes(secrets.CurrentUserKey, "/login", "/logout", []router.Route{
		{Path: "/secrets", Method: http.MethodGet, Handler: teapot},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secrets", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/login?next=%2Fsecrets", w.Header().Get("Location"))

	// Arrange, authenticated
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req = req.Clone(context.WithValue(req.Context(), secrets.CurrentUserKey, testUser{}))

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestRouterUnauthedRoutes(t *testing.T) {
	// Arrange
	r := router.New(secrets.Testing, middleware.NoopAdapter)
	r.UnauthedRoutes(secrets.CurrentUserKey, []router.Route{
		{Path: "/login", Method: http.MethodGet, Handler: teapot},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange, already authenticated
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)
	req = req.Clone(context.WithValue(req.Context(), secrets.CurrentUserKey, testUser{}))

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/secrets", w.Header().Get("Location"))
}

func TestRouterHandleNotFound(t *testing.T) {
	// Arrange
	r := router.New(secrets.Testing, middleware.NoopAdapter)
	r.HandleNotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/nope", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
}
