/*
Package dispatch ties a router to an injector:
it matches a request to a rule, resolves the unit the rule names and calls it.

	d := dispatch.New(rtr, inj, dispatch.WithMetrics(prometheus.DefaultRegisterer))

	query, err := switchback.ParseQuery(r.URL.RawQuery)
	// handle err
	req := dispatch.NewParamsRequest(r.Method, r.URL.Path, query, switchback.Params{})
	res, err := d.Handle(ctx, w, req)
	if !res.Matched {
		// 404
	}

A rule whose handler cannot be found is a configuration fault;
Handle reports it with ErrMisconfigured and logs it.
*/
package dispatch
