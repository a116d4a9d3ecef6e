package ranger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/router"
)

// ErrRoutes is returned when a routes file cannot be read or decoded.
var ErrRoutes = fmt.Errorf("%w: routes file", switchback.ErrBadConfig)

type routesFile struct {
	Routes []routeBlock `hcl:"route,block"`
}

type routeBlock struct {
	Pattern string   `hcl:"pattern,label"`
	Handler string   `hcl:"handler"`
	Methods []string `hcl:"methods,optional"`
}

// LoadRoutes reads the routes file at path into a new *router.Router.
//
// If no file exists at path, LoadRoutes returns an error wrapping both ErrRoutes and switchback.ErrNotExist.
//
// Confer ParseRoutes for the format of the file.
func LoadRoutes(path string) (*router.Router, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w: %s", ErrRoutes, switchback.ErrNotExist, path)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRoutes, err)
	}

	return ParseRoutes(src, path)
}

// ParseRoutes decodes src, an HCL document named filename, into a new *router.Router.
//
// Each route block labels its URL pattern and names the unit handling it:
//
//	route "/blog/@year/@slug" {
//	  handler = "Post.lua"
//	  methods = ["GET", "HEAD"]
//	}
//
// Without methods, a route serves every method.
// Routes are evaluated in the order they appear.
func ParseRoutes(src []byte, filename string) (*router.Router, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", ErrRoutes, filename, diags)
	}

	var rf routesFile
	if diags := gohcl.DecodeBody(f.Body, nil, &rf); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %s", ErrRoutes, filename, diags)
	}

	rtr := router.New()
	for _, rb := range rf.Routes {
		if strings.TrimSpace(rb.Handler) == "" {
			return nil, fmt.Errorf("%w: %s: route %q has no handler", ErrRoutes, filename, rb.Pattern)
		}

		rule := router.Rule{Pattern: rb.Pattern, Handler: rb.Handler, Method: strings.Join(rb.Methods, ",")}
		if err := rtr.Add(rule); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRoutes, filename, err)
		}
	}

	return rtr, nil
}

