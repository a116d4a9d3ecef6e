/*
Package ranger initializes and manages a switchback app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New].

[New] indexes the units found under the unit roots,
reads the routes file into a [router.Router]
and serves requests matching those routes with the units they name.

[*Ranger.Guide] begins a switchback app's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000),
assuming a reverse proxy proxies requests.

Stop that web server with [*Ranger.Shutdown]
or send a signal [*Ranger.Guide] listens for.

# Routes

Routes are read from an HCL file; confer [ParseRoutes]:

	route "/blog/@year/@slug" {
	  handler = "Post.lua"
	  methods = ["GET"]
	}

# Configuration

A developer configures a switchback app through environment variables
and by passing [RangerOption] to [New].

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - CORS_ORIGINS: comma separated origins allowed to make cross-origin requests
  - ENVIRONMENT: the environment the application is running in; cf. [switchback.Environment]
  - FORCE_HTTPS: whether to redirect HTTP requests to HTTPS outside development; default: false
  - HOST: the host the application listens on; default: every interface
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - MAX_BODY_BYTES: the most bytes of a request body read into params; default: 1MiB
  - METRICS_ENABLED: whether to collect and serve Prometheus metrics at [MetricsPath]; default: true
  - PORT: the port the application should listen on; default: :3000
  - PRELOAD: comma separated unit names or categories to load at start
  - RATE_LIMIT_ENABLED: whether to rate limit requests by IP address; default: false
  - ROUTES_FILE: the path of the routes file; default: routes.hcl
  - SENTRY_DSN: the Sentry DSN errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - UNIT_ROOTS: comma separated directories units are found under; default: app
*/
package ranger
