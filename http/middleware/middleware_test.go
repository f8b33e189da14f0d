package middleware_test

import (
	"context"
	"net/http"

	"github.com/whisperbox/secrets/http/middleware"
)

func NoopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func teapotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

type testUser bool

func (u testUser) HasAccess() bool  { return bool(u) }
func (u testUser) HomePath() string { return "/secrets" }

func newTestUserStore(hasAccess bool) middleware.UserStorer {
	return func(_ context.Context, id uint) (middleware.User, error) {
		return testUser(hasAccess), nil
	}
}

func newFailedUserStore(err error) middleware.UserStorer {
	return func(_ context.Context, id uint) (middleware.User, error) {
		return nil, err
	}
}
