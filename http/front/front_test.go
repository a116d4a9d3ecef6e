package front_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
	"github.com/xy-planning-network/switchback/http/front"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/injector/injectortest"
	"github.com/xy-planning-network/switchback/injector/manifest"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/router"
)

func newHandler(t *testing.T) *front.Handler {
	t.Helper()

	l := logger.NewLogger(logger.WithLogger(log.New(io.Discard, "", 0)))
	root := injectortest.Tree(t, map[string]string{
		"controllers/Hello.hcl": "factory = \"static\"\nsettings = { body = \"hi\" }",
		"controllers/Echo.hcl":  `factory = "echo"`,
		"controllers/Fail.unit": "",
	})

	inj := injector.New(map[string]injector.Loader{
		manifest.Ext: manifest.NewLoader(manifest.WithLogger(l)),
		".unit": injector.LoaderFunc(func(context.Context, string) (injector.Handler, error) {
			return injector.HandlerFunc(func(_ context.Context, w io.Writer, _ switchback.Params) error {
				io.WriteString(w, "partial")
				return errors.New("handler broke")
			}), nil
		}),
	}, injector.WithLogger(l))
	inj.Configure(root)

	rtr := router.New().
		Register("/hello", "Hello.hcl", "GET").
		Register("/echo/@id", "Echo.hcl").
		Register("/fail", "Fail.unit").
		Register("/missing", "Missing.hcl")

	return front.New(dispatch.New(rtr, inj, dispatch.WithLogger(l)), front.WithLogger(l), front.WithMaxBody(64))
}

func TestHandler(t *testing.T) {
	h := newHandler(t)

	for _, tc := range []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		code        int
		expected    string
	}{
		{"Static", http.MethodGet, "/hello", "", "", http.StatusOK, "hi"},
		{"Wrong-Method", http.MethodPost, "/hello", "", "", http.StatusNotFound, "404 page not found\n"},
		{"Miss", http.MethodGet, "/nope", "", "", http.StatusNotFound, "404 page not found\n"},
		{"Captures-Override-Query", http.MethodGet, "/echo/7?id=1&q=go", "", "", http.StatusOK, `{"id":"7","q":"go"}` + "\n"},
		{
			"Form-Body",
			http.MethodPost,
			"/echo/7?q=go&page=1",
			"application/x-www-form-urlencoded",
			"page=2",
			http.StatusOK,
			`{"id":"7","page":"2","q":"go"}` + "\n",
		},
		{
			"JSON-Body",
			http.MethodPost,
			"/echo/7?q=go",
			"application/json; charset=utf-8",
			`{"q":"rust","n":3,"tags":["a"],"skip":null}`,
			http.StatusOK,
			`{"id":"7","n":"3","q":"rust","tags":"[\"a\"]"}` + "\n",
		},
		{"Bad-Query", http.MethodGet, "/echo/7?q=%zz", "", "", http.StatusBadRequest, "Bad Request\n"},
		{"Bad-JSON", http.MethodPost, "/echo/7", "application/json", `{"q":`, http.StatusBadRequest, "Bad Request\n"},
		{"JSON-Not-Object", http.MethodPost, "/echo/7", "application/json", `[1,2]`, http.StatusBadRequest, "Bad Request\n"},
		{"JSON-Too-Large", http.MethodPost, "/echo/7", "application/json", `{"q":"` + strings.Repeat("a", 64) + `"}`, http.StatusBadRequest, "Bad Request\n"},
		{"Handler-Fails", http.MethodGet, "/fail", "", "", http.StatusInternalServerError, "Internal Server Error\n"},
		{"Misconfigured", http.MethodGet, "/missing", "", "", http.StatusInternalServerError, "Internal Server Error\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			r := httptest.NewRequest(tc.method, tc.target, body)
			if tc.contentType != "" {
				r.Header.Set("Content-Type", tc.contentType)
			}

			// Act
			h.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.expected, w.Body.String())
		})
	}
}

func TestHandlerContentType(t *testing.T) {
	w := httptest.NewRecorder()
	newHandler(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

	require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}
