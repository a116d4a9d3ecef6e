package dispatch

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/switchback"
)

// A Request describes what to dispatch.
type Request struct {
	Method string
	Path   string
	Params switchback.Params
}

// NewRequest builds a Request from query string and body values.
// Where both set a key, body wins.
// Keys from each are added in sorted order;
// use NewParamsRequest to keep the order a client sent them in.
//
// method defaults to GET and path to "/".
func NewRequest(method, path string, query, body url.Values) Request {
	return NewParamsRequest(method, path, switchback.ParamsFromValues(query), switchback.ParamsFromValues(body))
}

// NewParamsRequest builds a Request from ordered query string and body params,
// as NewRequest does.
func NewParamsRequest(method, path string, query, body switchback.Params) Request {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	if path == "" {
		path = "/"
	}

	params := query.Clone()
	params.Merge(body)

	return Request{Method: method, Path: path, Params: params}
}
