package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/http/middleware"
)

func header(key, val string) http.Header {
	h := make(http.Header)
	h.Set(key, val)
	return h
}

func TestGetIPAddress(t *testing.T) {
	tcs := []struct {
		name     string
		hm       http.Header
		expected string
	}{
		{"No-Match", make(http.Header), "0.0.0.0"},
		{"Garbage", header("X-Forwarded-For", "not-an-ip"), "0.0.0.0"},
		{"Only-Private-IP", header("X-Forwarded-For", "192.168.0.0"), "0.0.0.0"},
		{"Only-Public-IP", header("X-Forwarded-For", "1.1.1.1"), "1.1.1.1"},
		{"Trims-Whitespace", header("X-Forwarded-For", " 1.1.1.1 "), "1.1.1.1"},
		{"Get-Before-Proxy", header("X-Real-Ip", "10.0.0.1,1.1.1.1"), "1.1.1.1"},
		{"Get-First-Public", header("X-Real-Ip", "10.255.255.255,8.8.8.8,1.1.1.1,172.16.0.0"), "1.1.1.1"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, middleware.GetIPAddress(tc.hm))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	var actual interface{}
	handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		actual = r.Context().Value(secrets.IpAddrKey)
	})

	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("X-Forwarded-For", "1.1.1.1")

	// Act
	middleware.InjectIPAddress()(handler).ServeHTTP(httptest.NewRecorder(), r)

	// Assert
	require.Equal(t, "1.1.1.1", actual)
}
