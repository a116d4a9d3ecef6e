package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer a Dispatcher uses by default.
const TracerName = "github.com/xy-planning-network/switchback/dispatch"

// ErrMisconfigured reports a route whose handler cannot be resolved.
var ErrMisconfigured = fmt.Errorf("%w: route handler unavailable", switchback.ErrBadConfig)

// A Matcher finds the rule a request path and method match.
type Matcher interface {
	Dispatch(path, method string, params switchback.Params) (router.Match, bool)
}

// A Resolver resolves a handler name to a loaded unit.
type Resolver interface {
	ResolveUnit(ctx context.Context, name string) (*injector.Unit, error)
}

// A Result reports how a Request was dispatched.
type Result struct {
	// Matched is false when no rule matched; nothing else is set then.
	Matched bool

	// Match is the rule matched and the params the handler was called with.
	Match router.Match

	// Unit is the unit that handled the request.
	// It is nil if the rule's handler could not be resolved.
	Unit *injector.Unit
}

// A Dispatcher matches Requests to rules and calls the unit each rule names.
type Dispatcher struct {
	log      logger.Logger
	matcher  Matcher
	metrics  *metrics
	resolver Resolver
	tracer   trace.Tracer
}

// An Option configures a *Dispatcher when constructing a new one.
type Option func(*Dispatcher)

// WithLogger sets the logger.Logger the Dispatcher logs through.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithMetrics registers dispatch metrics with reg and records them on every Handle.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *Dispatcher) {
		d.metrics = newMetrics(reg)
	}
}

// WithTracer sets the tracer spans are started with.
// By default, that is the global provider's tracer named TracerName.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// New constructs a *Dispatcher.
func New(m Matcher, res Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{matcher: m, resolver: res}
	for _, opt := range opts {
		opt(d)
	}

	if d.log == nil {
		d.log = logger.NewLogger()
	}

	if d.tracer == nil {
		d.tracer = otel.Tracer(TracerName)
	}

	return d
}

// Handle dispatches req, calling the handler of the first rule it matches with w.
//
// If no rule matches, Handle returns a Result that is not Matched and a nil error;
// nothing is resolved.
// If the matched rule's handler is not a unit the Resolver knows,
// Handle returns an error wrapping ErrMisconfigured.
// Otherwise, Handle returns any error from resolving or calling the handler.
func (d *Dispatcher) Handle(ctx context.Context, w io.Writer, req Request) (Result, error) {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "switchback.dispatch",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("switchback.method", req.Method),
			attribute.String("switchback.path", req.Path),
		),
	)
	defer span.End()

	m, ok := d.matcher.Dispatch(req.Path, req.Method, req.Params)
	if !ok {
		d.metrics.observe("", outcomeUnmatched, start)
		return Result{}, nil
	}

	res := Result{Matched: true, Match: m}
	span.SetAttributes(
		attribute.String("switchback.pattern", m.Rule.Pattern),
		attribute.String("switchback.handler", m.Rule.Handler),
	)

	u, err := d.resolver.ResolveUnit(ctx, m.Rule.Handler)
	if err != nil {
		err = d.resolveFailed(m.Rule, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		d.metrics.observe(m.Rule.Handler, outcomeMisconfigured, start)
		return res, err
	}

	res.Unit = u
	if err := u.Handle(ctx, w, m.Params); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		d.metrics.observe(m.Rule.Handler, outcomeFailed, start)
		return res, err
	}

	d.metrics.observe(m.Rule.Handler, outcomeHandled, start)
	return res, nil
}

// resolveFailed logs why rule's handler could not be resolved
// and wraps err in ErrMisconfigured when the handler does not exist.
func (d *Dispatcher) resolveFailed(rule router.Rule, err error) error {
	data := map[string]any{"handler": rule.Handler, "method": rule.Method, "pattern": rule.Pattern}

	var nf *injector.NotFoundError
	if errors.As(err, &nf) {
		data["roots"] = nf.Roots
		err = fmt.Errorf("%w: %s %s: %w", ErrMisconfigured, rule.Method, rule.Pattern, err)
	}

	d.log.Error("failed resolving route handler", &logger.LogContext{Data: data, Error: err})
	return err
}
