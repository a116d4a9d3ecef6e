package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
	"github.com/xy-planning-network/switchback/ranger"
)

// errNoMatch is returned by match when no route matches the request.
var errNoMatch = fmt.Errorf("%w: no route matches", switchback.ErrNotExist)

func matchCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "match METHOD PATH [KEY=VALUE...]",
		Short: "Show the route a request would be dispatched to",
		Long: `Show the route a request would be dispatched to and the params its handler would receive,
without loading the handler.

PATH may carry a query string; KEY=VALUE pairs are set as body params over it.`,
		Example: `  switchback match GET /blog/2014/hello
  switchback match POST '/blog?draft=1' title=Hello`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rtr, err := ranger.LoadRoutes(path)
			if err != nil {
				return err
			}

			req, err := parseRequest(args[0], args[1], args[2:])
			if err != nil {
				return err
			}

			m, ok := rtr.Dispatch(req.Path, req.Method, req.Params)
			if !ok {
				return fmt.Errorf("%w: %s %s", errNoMatch, req.Method, req.Path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "route:   %s %s\n", m.Rule.Method, m.Rule.Pattern)
			fmt.Fprintf(out, "handler: %s\n", m.Rule.Handler)
			fmt.Fprintf(out, "params:  %s\n", m.Params)

			return nil
		},
	}

	routesFileFlag(cmd, &path)

	return cmd
}

// parseRequest builds a dispatch.Request from a method, a path with an optional query string,
// and KEY=VALUE body params.
func parseRequest(method, target string, pairs []string) (dispatch.Request, error) {
	u, err := url.Parse(target)
	if err != nil {
		return dispatch.Request{}, fmt.Errorf("%w: %s", switchback.ErrBadFormat, err)
	}

	query, err := switchback.ParseQuery(u.RawQuery)
	if err != nil {
		return dispatch.Request{}, err
	}

	var body switchback.Params
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return dispatch.Request{}, fmt.Errorf("%w: param %q is not KEY=VALUE", switchback.ErrBadFormat, pair)
		}

		if _, ok := body.Lookup(k); !ok {
			body.Set(k, v)
		}
	}

	return dispatch.NewParamsRequest(method, u.Path, query, body), nil
}
