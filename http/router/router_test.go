package router_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/router"
	"github.com/xy-planning-network/switchback/logger"
)

func write(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func header(key, val string) middleware.Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(key, val)
			h.ServeHTTP(w, r)
		})
	}
}

func TestRouter(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	r := router.New(switchback.Testing, logger.NewLogger(logger.WithLogger(log.New(b, "", 0))))
	r.OnEveryRequest(header("X-Every", "1"))
	r.HandleRoutes(
		[]router.Route{
			{Path: "/healthz", Method: http.MethodGet, Handler: write("ok")},
			{
				Path:        "/panic",
				Method:      http.MethodGet,
				Handler:     http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
				Middlewares: []middleware.Adapter{header("X-Route", "1")},
			},
		},
		header("X-Group", "1"),
	)
	r.CatchAll(write("caught"))

	for _, tc := range []struct {
		name     string
		method   string
		path     string
		code     int
		body     string
		headers  []string
		noHeader []string
	}{
		{"Route", http.MethodGet, "/healthz", http.StatusOK, "ok", []string{"X-Every", "X-Group"}, []string{"X-Route"}},
		{"Wrong-Method", http.MethodPost, "/healthz", http.StatusOK, "caught", []string{"X-Every"}, []string{"X-Group"}},
		{"Catch-All", http.MethodGet, "/blog/2014/hello", http.StatusOK, "caught", []string{"X-Every"}, []string{"X-Group"}},
		{"Recovers", http.MethodGet, "/panic", http.StatusInternalServerError, "", []string{"X-Route"}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)

			// Act
			r.ServeHTTP(w, req)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.body, w.Body.String())
			for _, h := range tc.headers {
				require.Equal(t, "1", w.Header().Get(h), h)
			}
			for _, h := range tc.noHeader {
				require.Empty(t, w.Header().Get(h), h)
			}
		})
	}

	require.Contains(t, b.String(), "boom")
}

func TestRouterProxyHeaders(t *testing.T) {
	// Arrange
	var addr string
	r := router.New(switchback.Testing, logger.NewLogger(logger.WithLogger(log.New(new(bytes.Buffer), "", 0))))
	r.CatchAll(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		addr = req.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	// Act
	r.ServeHTTP(httptest.NewRecorder(), req)

	// Assert
	require.Equal(t, "203.0.113.7", addr)
}
