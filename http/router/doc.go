/*
Package router defines the HTTP server router switchback serves requests through.

A [*Router] utilizes [mux.Router] for its implementation,
and so functions as thin wrapper around that package.

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

switchback registers only a handful of its own Routes, such as health checks.
Every other request goes to the handler set with CatchAll,
which dispatches through URL patterns rather than mux's.
*/
package router
