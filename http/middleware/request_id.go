package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/whisperbox/secrets/http/keyring"
)

// RequestID stashes a V4 UUID in the *http.Request.Context under the key,
// identifying the specific request for tracing through logs.
func RequestID(key keyring.Keyable) Adapter {
	if key == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			ctx := context.WithValue(r.Context(), key, id)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
