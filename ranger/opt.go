package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/router"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithRoots is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithRoutes is an example of the second.
// Rules are added to the *Ranger's router only when the closure it returns is called,
// after every RangerOption has had the chance to set that router.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the switchback app.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.ctx = ctx
		rng.debug(fmt.Sprintf("using context %T", ctx))

		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the environment variable it names a valid Environment.
//
// If both fail, the Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := switchback.Environment(envVar)
		if err := e.Valid(); err != nil {
			e = switchback.EnvVarOrEnv(envVar, switchback.Development)
		}

		rng.env = e
		rng.debug(fmt.Sprintf("using env %s", e))

		return nil, nil
	}
}

// WithInjector exposes the provided *injector.Injector to the switchback app.
//
// The Ranger configures it with its roots, whether set with WithRoots or read from UNIT_ROOTS.
func WithInjector(inj *injector.Injector) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if inj == nil {
			return nil, fmt.Errorf("%w: nil injector", switchback.ErrNotValid)
		}

		rng.inj = inj
		rng.debug("using injector")

		return nil, nil
	}
}

// WithLoader registers the injector.Loader for unit files with the extension ext,
// e.g., ".lua", replacing any default loader for that extension.
//
// WithLoader has no effect alongside WithInjector.
func WithLoader(ext string, ld injector.Loader) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ext == "" || ext[0] != '.' {
			return nil, fmt.Errorf("%w: extension %q", switchback.ErrNotValid, ext)
		}

		if rng.loaders == nil {
			rng.loaders = make(map[string]injector.Loader)
		}

		rng.loaders[ext] = ld
		rng.debug(fmt.Sprintf("using loader %T for %s", ld, ext))

		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the switchback app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		rng.debug(fmt.Sprintf("using logger %T", l))

		return nil, nil
	}
}

// WithMetrics exposes the provided *prometheus.Registry to the switchback app.
// Dispatch metrics are registered with it and it is served at MetricsPath.
//
// Passing nil disables metrics.
func WithMetrics(reg *prometheus.Registry) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.reg = reg
		rng.metricsSet = true
		rng.debug(fmt.Sprintf("using metrics registry %T", reg))

		return nil, nil
	}
}

// WithPreload sets the references, unit names or categories,
// resolved as the switchback app starts.
// Each is parsed with [*injector.Injector.Ref].
func WithPreload(refs ...string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.preload = refs
		if len(refs) > 0 {
			rng.debug(fmt.Sprintf("preloading %v", refs))
		}

		return nil, nil
	}
}

// WithRoots sets the directories the switchback app finds units under.
func WithRoots(roots ...string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.roots = roots
		rng.debug(fmt.Sprintf("using unit roots %v", roots))

		return nil, nil
	}
}

// WithRouter exposes the provided *router.Router to the switchback app.
// The routes file is not read.
func WithRouter(r *router.Router) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if r == nil {
			return nil, fmt.Errorf("%w: nil router", switchback.ErrNotValid)
		}

		rng.rtr = r
		rng.debug(fmt.Sprintf("using router with %d rules", r.Len()))

		return nil, nil
	}
}

// WithRoutes constructs a followup option that, when called,
// adds rules to the switchback app's router, after any rules already on it.
// If no router has been set, the routes file is not read and rules are the only rules.
func WithRoutes(rules ...router.Rule) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.rtr == nil {
				rng.rtr = router.New()
			}

			for _, rule := range rules {
				if err := rng.rtr.Add(rule); err != nil {
					return err
				}
			}

			rng.debug(fmt.Sprintf("added %d rules", len(rules)))

			return nil
		}, nil
	}
}

// WithRoutesFile sets the path routes are read from.
// Confer LoadRoutes for the format of the file.
func WithRoutesFile(path string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.routesFile = path
		rng.debug(fmt.Sprintf("using routes file %s", path))

		return nil, nil
	}
}

// WithServer exposes the *http.Server to the switchback app.
// The Ranger sets its Handler.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil server", switchback.ErrNotValid)
		}

		rng.srv = s
		rng.debug(fmt.Sprintf("using server at %s", s.Addr))

		return nil, nil
	}
}
