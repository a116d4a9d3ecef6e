package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
)

func TestRequestID(t *testing.T) {
	known := uuid.NewString()

	for _, tc := range []struct {
		name   string
		header string
		keep   bool
	}{
		{"New", "", false},
		{"Not-A-UUID", "abc", false},
		{"Known", known, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
			if tc.header != "" {
				r.Header.Set(middleware.RequestIDHeader, tc.header)
			}

			var actual string

			// Act
			middleware.RequestID()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
				val, ok := rx.Context().Value(switchback.RequestIDKey).(string)
				require.True(t, ok)
				actual = val
			})).ServeHTTP(w, r)

			// Assert
			_, err := uuid.Parse(actual)
			require.Nil(t, err)
			require.Equal(t, actual, w.Header().Get(middleware.RequestIDHeader))
			require.Equal(t, tc.keep, actual == tc.header)
		})
	}
}
