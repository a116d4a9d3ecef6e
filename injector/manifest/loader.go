package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Ext is the file extension unit manifests carry.
const Ext = ".hcl"

var (
	ErrManifest       = fmt.Errorf("%w: unit manifest", switchback.ErrNotValid)
	ErrUnknownFactory = fmt.Errorf("%w: unknown factory", switchback.ErrNotExist)
	ErrMissingSetting = errors.New("missing setting")
)

// Settings are a manifest's settings, evaluated to strings.
type Settings map[string]string

// Require returns the value of each key, in order,
// or an error wrapping ErrMissingSetting naming the first one absent.
func (s Settings) Require(keys ...string) ([]string, error) {
	vals := make([]string, len(keys))
	for i, k := range keys {
		v, ok := s[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSetting, k)
		}
		vals[i] = v
	}

	return vals, nil
}

// Params converts s to switchback.Params, keys sorted.
func (s Settings) Params() switchback.Params {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p switchback.Params
	for _, k := range keys {
		p.Set(k, s[k])
	}

	return p
}

// Decode copies s into the struct structPtr points at and validates it,
// as switchback.Params.Decode does.
func (s Settings) Decode(structPtr any) error {
	return s.Params().Decode(structPtr)
}

// A Factory builds a Handler from a manifest's settings.
type Factory func(settings Settings) (injector.Handler, error)

// A Loader binds .hcl unit manifests to Go factories.
//
// A manifest names the factory to build its handler with and the settings to pass it:
//
//	factory = "static"
//	settings = {
//	  body = "served by ${env.HOSTNAME}"
//	}
//
// Settings are evaluated with the env object in scope, holding the Loader's environment variables.
type Loader struct {
	env       map[string]string
	factories map[string]Factory
	log       logger.Logger
}

// An Option configures a *Loader when constructing a new one.
type Option func(*Loader)

// WithEnv replaces the variables manifests see as env, which by default are the process's.
func WithEnv(env map[string]string) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithFactory registers fn under name, replacing any factory already called that.
func WithFactory(name string, fn Factory) Option {
	return func(l *Loader) {
		l.factories[name] = fn
	}
}

// WithLogger sets the logger.Logger the Loader logs through.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader constructs a *Loader with the Echo and Static factories registered.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		factories: map[string]Factory{
			"echo":   Echo,
			"static": Static,
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.env == nil {
		l.env = environ()
	}

	if l.log == nil {
		l.log = logger.NewLogger()
	}

	return l
}

// Factories lists the names of registered factories, sorted.
func (l *Loader) Factories() []string {
	names := make([]string, 0, len(l.factories))
	for name := range l.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

type manifestFile struct {
	Factory  string         `hcl:"factory"`
	Settings hcl.Expression `hcl:"settings,optional"`
}

// Load parses the manifest at path and builds its Handler.
func (l *Loader) Load(_ context.Context, path string) (injector.Handler, error) {
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", ErrManifest, path, diags)
	}

	var m manifestFile
	if diags := gohcl.DecodeBody(f.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %s", ErrManifest, path, diags)
	}

	factory, ok := l.factories[m.Factory]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownFactory, m.Factory, path)
	}

	settings, err := l.settings(m.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrManifest, path, err)
	}

	h, err := factory(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: factory %q in %s: %w", ErrManifest, m.Factory, path, err)
	}

	l.log.Debug("loaded unit manifest", &logger.LogContext{Data: map[string]any{"factory": m.Factory, "path": path}})
	return h, nil
}

func (l *Loader) settings(expr hcl.Expression) (Settings, error) {
	settings := make(Settings)
	if expr == nil {
		return settings, nil
	}

	val, diags := expr.Value(l.evalContext())
	if diags.HasErrors() {
		return nil, diags
	}

	if val.IsNull() {
		return settings, nil
	}

	val, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("settings must be an object of strings: %w", err)
	}

	var m map[string]string
	if err := gocty.FromCtyValue(val, &m); err != nil {
		return nil, err
	}

	for k, v := range m {
		settings[k] = v
	}

	return settings, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value, len(l.env))
	for k, v := range l.env {
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

// Echo builds a Handler writing the params it is called with as a JSON object.
// It takes no settings.
func Echo(Settings) (injector.Handler, error) {
	return injector.HandlerFunc(func(_ context.Context, w io.Writer, params switchback.Params) error {
		return json.NewEncoder(w).Encode(params.Map())
	}), nil
}

type staticSettings struct {
	Body string `param:"body" validate:"required"`
}

// Static builds a Handler writing the body setting verbatim.
// body must be set and not empty.
func Static(s Settings) (injector.Handler, error) {
	var cfg staticSettings
	if err := s.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrMissingSetting, err)
	}

	body := cfg.Body
	return injector.HandlerFunc(func(_ context.Context, w io.Writer, _ switchback.Params) error {
		_, err := io.WriteString(w, body)
		return err
	}), nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}
