package ranger

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
	"github.com/xy-planning-network/switchback/http/front"
	"github.com/xy-planning-network/switchback/http/middleware"
	httprouter "github.com/xy-planning-network/switchback/http/router"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/injector/lua"
	"github.com/xy-planning-network/switchback/injector/manifest"
	"github.com/xy-planning-network/switchback/logger"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"
	defaultLogLvl  = logger.LogLevelInfo

	// Unit defaults
	unitRootsEnvVar   = "UNIT_ROOTS"
	DefaultUnitRoot   = "app"
	routesFileEnvVar  = "ROUTES_FILE"
	DefaultRoutesFile = "routes.hcl"
	preloadEnvVar     = "PRELOAD"

	// Middleware defaults
	corsOriginsEnvVar = "CORS_ORIGINS"
	forceHTTPSEnvVar  = "FORCE_HTTPS"
	rateLimitEnvVar   = "RATE_LIMIT_ENABLED"
	maxBodyEnvVar     = "MAX_BODY_BYTES"

	// Metrics defaults
	metricsEnvVar = "METRICS_ENABLED"
	HealthPath    = "/healthz"
	MetricsPath   = "/metrics"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
)

// defaultOpts are the RangerOptions New applies before any passed to it.
func defaultOpts() []RangerOption {
	return []RangerOption{
		WithEnv(environmentEnvVar),
		WithRoots(switchback.EnvVarOrList(unitRootsEnvVar, []string{DefaultUnitRoot})...),
		WithRoutesFile(switchback.EnvVarOrString(routesFileEnvVar, DefaultRoutesFile)),
		WithPreload(switchback.EnvVarOrList(preloadEnvVar, nil)...),
	}
}

// defaultLogger constructs a [logger.Logger] at the level LOG_LEVEL names.
func defaultLogger(env switchback.Environment) logger.Logger {
	return logger.NewLogger(
		logger.WithEnv(env.String()),
		logger.WithLevel(envVarOrLogLevel(logLevelEnvVar, defaultLogLvl)),
	)
}

// defaultLoaders maps the unit file extensions switchback understands to their loaders:
// Lua scripts and HCL manifests.
func defaultLoaders(l logger.Logger) map[string]injector.Loader {
	return map[string]injector.Loader{
		lua.Ext:      lua.NewLoader(lua.WithLogger(l)),
		manifest.Ext: manifest.NewLoader(manifest.WithLogger(l)),
	}
}

// defaultRegistry constructs a [*prometheus.Registry] collecting Go runtime and process metrics,
// or nil if METRICS_ENABLED is false.
func defaultRegistry() *prometheus.Registry {
	if !switchback.EnvVarOrBool(metricsEnvVar, true) {
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// defaultRouter constructs the [*httprouter.Router] the web server serves requests through.
//
// Every request passes through, in order:
//   - [middleware.RequestID]
//   - [middleware.InjectIPAddress]
//   - [middleware.LogRequest]
//   - [middleware.ForceHTTPS], if FORCE_HTTPS is true
//   - [middleware.CORS], for the origins CORS_ORIGINS lists
//   - [middleware.RateLimit], if RATE_LIMIT_ENABLED is true
//
// Health checks and, if reg is not nil, metrics are served at HealthPath and MetricsPath.
// Every other request is dispatched by d.
func defaultRouter(env switchback.Environment, l logger.Logger, d *dispatch.Dispatcher, reg *prometheus.Registry) *httprouter.Router {
	var visitors *middleware.Visitors
	if switchback.EnvVarOrBool(rateLimitEnvVar, false) {
		visitors = middleware.NewVisitors()
	}

	https := middleware.NoopAdapter
	if switchback.EnvVarOrBool(forceHTTPSEnvVar, false) {
		https = middleware.ForceHTTPS(env)
	}

	r := httprouter.New(env, l)
	r.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(l),
		https,
		middleware.CORS(switchback.EnvVarOrList(corsOriginsEnvVar, nil)...),
		middleware.RateLimit(visitors),
	)

	routes := []httprouter.Route{{Path: HealthPath, Method: http.MethodGet, Handler: healthHandler()}}
	if reg != nil {
		routes = append(routes, httprouter.Route{
			Path:    MetricsPath,
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		})
	}

	r.HandleRoutes(routes)
	r.CatchAll(front.New(
		d,
		front.WithLogger(l),
		front.WithMaxBody(int64(switchback.EnvVarOrInt(maxBodyEnvVar, int(front.DefaultMaxBody)))),
	))

	return r
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := switchback.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         switchback.EnvVarOrString(hostEnvVar, "") + port,
		IdleTimeout:  switchback.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  switchback.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: switchback.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

// healthHandler answers 200 OK.
func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
}
