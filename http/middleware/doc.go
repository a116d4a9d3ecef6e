/*
The middleware package defines what a middleware is in switchback and a set of basic middlewares.

The available middlewares are:
- CORS
- ForceHTTPS
- InjectIPAddress
- LogRequest
- RateLimit
- ReportPanic
- RequestID

The chain switchback serves requests through is:

	adpts := []middleware.Adapter{
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.ForceHTTPS(env),
		middleware.CORS(origins...),
		middleware.RateLimit(middleware.NewVisitors()),
	}

ReportPanic wraps each handler individually; confer the router package.
*/
package middleware
