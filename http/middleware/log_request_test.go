package middleware_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/logger"
)

func TestLogRequest(t *testing.T) {
	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	color.NoColor = true
	for _, tc := range []struct {
		name     string
		method   string
		target   string
		ip       string
		status   int
		expected []string
	}{
		{"Zero-Value", http.MethodGet, "/", "", http.StatusOK, []string{"'GET /'", `\"status\":200`}},
		{"With-IP", http.MethodPost, "/", "1.1.1.1", http.StatusCreated, []string{"'1.1.1.1 POST /'", `\"status\":201`}},
		{
			"Masks-Password",
			http.MethodGet,
			"/login?password=hunter2&user=ada",
			"",
			http.StatusNotFound,
			[]string{"'GET /login?password=" + switchback.LogMaskVal + "&user=ada'", `\"status\":404`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			b := new(bytes.Buffer)
			l := logger.NewLogger(logger.WithLogger(log.New(b, "", 0)))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.ip != "" {
				r = r.WithContext(context.WithValue(r.Context(), switchback.IpAddrKey, tc.ip))
			}

			// Act
			middleware.LogRequest(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})).ServeHTTP(w, r)

			// Assert
			for _, s := range tc.expected {
				require.Contains(t, b.String(), s)
			}
			require.NotContains(t, b.String(), "hunter2")
		})
	}
}
