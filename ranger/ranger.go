package ranger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/router"
)

// A Ranger manages and exposes all components of a switchback app to one another.
type Ranger struct {
	ctx        context.Context
	d          *dispatch.Dispatcher
	env        switchback.Environment
	h          http.Handler
	inj        *injector.Injector
	l          logger.Logger
	loaders    map[string]injector.Loader
	metricsSet bool
	preload    []string
	reg        *prometheus.Registry
	roots      []string
	routesFile string
	rtr        *router.Router
	srv        *http.Server
}

// New constructs a Ranger from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
//
// Once options are applied, New fills in every component not yet set,
// configures the injector with the unit roots,
// loads the unit each route names and resolves any preloaded units.
// A route naming a unit that cannot be loaded fails New with an error wrapping dispatch.ErrMisconfigured.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until either (1) user supplied RangerOptions or (2) default RangerOptions
	// configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}
	}

	if err := r.setup(); err != nil {
		return nil, fmt.Errorf("%w: %w", switchback.ErrBadConfig, err)
	}

	return r, nil
}

// setup constructs the components no RangerOption set, in dependency order.
func (r *Ranger) setup() error {
	if r.ctx == nil {
		r.ctx = context.Background()
	}

	if r.l == nil {
		r.l = defaultLogger(r.env)
	}

	if r.inj == nil {
		loaders := defaultLoaders(r.l)
		for ext, ld := range r.loaders {
			loaders[ext] = ld
		}

		r.inj = injector.New(loaders, injector.WithLogger(r.l))
	}

	n := r.inj.Configure(r.roots...)
	r.l.Info(fmt.Sprintf("indexed %d units", n), &logger.LogContext{Data: map[string]any{"roots": r.roots}})

	if r.rtr == nil {
		rtr, err := LoadRoutes(r.routesFile)
		switch {
		case errors.Is(err, switchback.ErrNotExist):
			r.l.Warn(fmt.Sprintf("no routes file at %s, serving no routes", r.routesFile), nil)
			rtr = router.New()
		case err != nil:
			return err
		}

		r.rtr = rtr
	}

	r.l.Info(fmt.Sprintf("routing %d rules", r.rtr.Len()), nil)

	if !r.metricsSet {
		r.reg = defaultRegistry()
	}

	opts := []dispatch.Option{dispatch.WithLogger(r.l)}
	if r.reg != nil {
		opts = append(opts, dispatch.WithMetrics(r.reg))
	}

	r.d = dispatch.New(r.rtr, r.inj, opts...)
	r.h = defaultRouter(r.env, r.l, r.d, r.reg)

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}
	r.srv.Handler = r.h

	if err := r.loadHandlers(); err != nil {
		return err
	}

	return r.preloadUnits()
}

// loadHandlers loads the unit every rule names, so no request waits on loading one.
func (r *Ranger) loadHandlers() error {
	seen := make(map[string]bool)
	for _, rule := range r.rtr.Rules() {
		if seen[rule.Handler] {
			continue
		}
		seen[rule.Handler] = true

		if _, err := r.inj.ResolveUnit(r.ctx, rule.Handler); err != nil {
			return fmt.Errorf("%w: %s %s: %w", dispatch.ErrMisconfigured, rule.Method, rule.Pattern, err)
		}
	}

	r.l.Info(fmt.Sprintf("loaded %d route handlers", len(seen)), nil)
	return nil
}

// preloadUnits resolves the units set by WithPreload or PRELOAD.
func (r *Ranger) preloadUnits() error {
	if len(r.preload) == 0 {
		return nil
	}

	refs := make([]injector.Ref, 0, len(r.preload))
	for _, s := range r.preload {
		refs = append(refs, r.inj.Ref(s))
	}

	units, err := r.inj.Resolve(r.ctx, refs...)
	if err != nil {
		return fmt.Errorf("could not preload: %w", err)
	}

	r.l.Info(fmt.Sprintf("preloaded %d units", len(units)), nil)
	return nil
}

func (r *Ranger) Dispatcher() *dispatch.Dispatcher { return r.d }
func (r *Ranger) Env() switchback.Environment     { return r.env }
func (r *Ranger) Handler() http.Handler            { return r.h }
func (r *Ranger) Injector() *injector.Injector     { return r.inj }
func (r *Ranger) Logger() logger.Logger            { return r.l }
func (r *Ranger) Router() *router.Router           { return r.rtr }
func (r *Ranger) Server() *http.Server             { return r.srv }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - os.Kill
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ctx, cancel := context.WithCancel(r.ctx)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		os.Kill,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		err := r.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}

		err = fmt.Errorf("could not listen: %w", err)
		r.l.Error(err.Error(), nil)
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		return r.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown shutdowns the web server and closes every loaded unit holding resources.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	r.closeUnits()

	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}

func (r *Ranger) closeUnits() {
	for _, u := range r.inj.Units() {
		c, ok := u.Handler.(io.Closer)
		if !ok {
			continue
		}

		if err := c.Close(); err != nil {
			r.l.Warn("failed closing unit", &logger.LogContext{Error: err, Data: map[string]any{"unit": u.Name}})
		}
	}
}

// debug logs msg if a logger has been set.
func (r *Ranger) debug(msg string) {
	if r.l != nil {
		r.l.Debug(msg, nil)
	}
}
