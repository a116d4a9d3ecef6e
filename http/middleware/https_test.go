package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
)

func TestForceHTTPS(t *testing.T) {
	for _, tc := range []struct {
		name     string
		env      switchback.Environment
		proto    string
		expected int
	}{
		{"Development", switchback.Development, "http", http.StatusOK},
		{"Forwarded-HTTPS", switchback.Testing, "https", http.StatusOK},
		{"Forwarded-HTTP", switchback.Production, "http", http.StatusPermanentRedirect},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "http://example.com/blog/2014/hello?page=2", nil)
			r.Header.Set("X-Forwarded-Proto", tc.proto)

			// Act
			middleware.ForceHTTPS(tc.env)(NoopHandler()).ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.expected, w.Code)
			if tc.expected == http.StatusPermanentRedirect {
				require.Equal(t, "https://example.com/blog/2014/hello?page=2", w.Header().Get("Location"))
			}
		})
	}
}
