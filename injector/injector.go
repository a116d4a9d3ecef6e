package injector

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xy-planning-network/switchback/logger"
)

// DefaultSelf is the unit name an Injector excludes from category resolution by default.
const DefaultSelf = "injector"

// An Injector discovers units under a set of roots and loads each at most once.
//
// Units are files whose extension has a Loader registered for it.
// The Injector indexes them by base name when configured
// and loads one the first time it is resolved, through the Loader for its extension.
// Resolving the same name again returns the same *Unit without loading it again.
//
// An Injector is safe for concurrent use.
// Configuring and resolving are serialized.
type Injector struct {
	mu      sync.Mutex
	index   *Index
	loaders map[string]Loader
	log     logger.Logger
	roots   []string
	self    []string
	units   map[string]*Unit
	loaded  []string
}

// An Option configures an *Injector when constructing a new one.
type Option func(*Injector)

// WithLogger sets the logger.Logger the Injector logs through.
func WithLogger(l logger.Logger) Option {
	return func(inj *Injector) {
		inj.log = l
	}
}

// WithSelf replaces the names of units that category resolution never returns.
// Names are compared without their extension, ignoring case.
//
// By default, that is DefaultSelf.
func WithSelf(names ...string) Option {
	return func(inj *Injector) {
		inj.self = names
	}
}

// New constructs an *Injector recognizing units by the extensions loaders is keyed by,
// e.g., ".lua".
func New(loaders map[string]Loader, opts ...Option) *Injector {
	inj := &Injector{
		index:   NewIndex(),
		loaders: make(map[string]Loader, len(loaders)),
		self:    []string{DefaultSelf},
		units:   make(map[string]*Unit),
	}

	for ext, l := range loaders {
		inj.loaders[ext] = l
	}

	for _, opt := range opts {
		opt(inj)
	}

	if inj.log == nil {
		inj.log = logger.NewLogger()
	}

	return inj
}

// Configure scans each root for units and indexes them,
// returning how many paths this call indexed.
//
// Configure may be called repeatedly;
// later calls add or overwrite names in the index and never remove any.
// Units already loaded stay loaded.
func (inj *Injector) Configure(roots ...string) int {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	return inj.configure(roots)
}

func (inj *Injector) configure(roots []string) int {
	exts := inj.extensions()

	var n int
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = root
		}

		paths := Scan(root, exts...)
		for _, path := range paths {
			inj.index.Register(abs, path)
		}

		n += len(paths)
		inj.addRoot(root)
		inj.log.Debug(fmt.Sprintf("indexed %d units under %s", len(paths), root), nil)
	}

	return n
}

// Resolve resolves each Ref in order to loaded Units.
//
// A unit Ref yields exactly one *Unit or an error.
// If the unit is not indexed, the error is a *NotFoundError.
// A category Ref yields every indexed unit found under a directory of that name,
// in index order, and may yield none.
// Units from a category are inlined where the category appears in refs.
func (inj *Injector) Resolve(ctx context.Context, refs ...Ref) ([]*Unit, error) {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	return inj.resolve(ctx, refs)
}

// ResolveIn configures the Injector with roots before resolving refs.
func (inj *Injector) ResolveIn(ctx context.Context, roots []string, refs ...Ref) ([]*Unit, error) {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	inj.configure(roots)
	return inj.resolve(ctx, refs)
}

// ResolveUnit resolves the single unit called name.
func (inj *Injector) ResolveUnit(ctx context.Context, name string) (*Unit, error) {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	return inj.resolveUnit(ctx, name)
}

// Entries lists every indexed unit.
func (inj *Injector) Entries() []Entry {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	return inj.index.Entries()
}

// Extensions lists the file extensions the Injector recognizes as units, sorted.
func (inj *Injector) Extensions() []string {
	return inj.extensions()
}

// Loaded reports whether the unit called name has been loaded.
func (inj *Injector) Loaded(name string) bool {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	_, ok := inj.units[filepath.Base(name)]
	return ok
}

// Ref parses s into a Ref using the extensions the Injector recognizes.
func (inj *Injector) Ref(s string) Ref {
	return ParseRef(s, inj.extensions()...)
}

// Roots lists every root the Injector has been configured with.
func (inj *Injector) Roots() []string {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	roots := make([]string, len(inj.roots))
	copy(roots, inj.roots)
	return roots
}

// Units lists loaded units in the order they were loaded.
func (inj *Injector) Units() []*Unit {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	units := make([]*Unit, 0, len(inj.loaded))
	for _, name := range inj.loaded {
		units = append(units, inj.units[name])
	}

	return units
}

func (inj *Injector) resolve(ctx context.Context, refs []Ref) ([]*Unit, error) {
	units := make([]*Unit, 0, len(refs))
	for _, ref := range refs {
		if ref.Kind == KindCategory {
			found, err := inj.resolveCategory(ctx, ref.Name)
			if err != nil {
				return nil, err
			}

			units = append(units, found...)
			continue
		}

		u, err := inj.resolveUnit(ctx, ref.Name)
		if err != nil {
			return nil, err
		}

		units = append(units, u)
	}

	return units, nil
}

func (inj *Injector) resolveCategory(ctx context.Context, category string) ([]*Unit, error) {
	segment := "/" + strings.ToLower(strings.Trim(filepath.ToSlash(category), "/")) + "/"

	var units []*Unit
	for _, e := range inj.index.Entries() {
		// Only directories beneath the root count, never those the root itself sits in.
		if !strings.Contains("/"+strings.ToLower(e.Rel()), segment) || inj.isSelf(e.Name) {
			continue
		}

		u, err := inj.resolveUnit(ctx, e.Path)
		if err != nil {
			return nil, err
		}

		units = append(units, u)
	}

	if len(units) == 0 {
		inj.log.Warn(fmt.Sprintf("no units found for category %q", category), &logger.LogContext{
			Data: map[string]any{"category": category, "roots": inj.roots},
		})
	}

	return units, nil
}

func (inj *Injector) resolveUnit(ctx context.Context, name string) (*Unit, error) {
	name = filepath.Clean(name)
	base := filepath.Base(name)
	if u, ok := inj.units[base]; ok {
		return u, nil
	}

	path, ok := inj.index.Lookup(base)
	if !ok || !pathEndsWith(path, name) {
		return nil, &NotFoundError{Name: name, Roots: append([]string(nil), inj.roots...)}
	}

	loader, ok := inj.loaders[inj.extensionOf(base)]
	if !ok {
		return nil, &NotFoundError{Name: name, Roots: append([]string(nil), inj.roots...)}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	h, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	u := &Unit{Name: base, Path: path, Handler: h}
	inj.units[base] = u
	inj.loaded = append(inj.loaded, base)
	inj.log.Debug(fmt.Sprintf("loaded unit %s from %s", base, path), nil)

	return u, nil
}

func (inj *Injector) addRoot(root string) {
	for _, r := range inj.roots {
		if r == root {
			return
		}
	}

	inj.roots = append(inj.roots, root)
}

// extensionOf returns the longest recognized extension name ends in.
func (inj *Injector) extensionOf(name string) string {
	var found string
	for ext := range inj.loaders {
		if strings.HasSuffix(name, ext) && len(ext) > len(found) {
			found = ext
		}
	}

	return found
}

func (inj *Injector) extensions() []string {
	exts := make([]string, 0, len(inj.loaders))
	for ext := range inj.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	return exts
}

func (inj *Injector) isSelf(name string) bool {
	stem := strings.TrimSuffix(name, inj.extensionOf(name))
	for _, self := range inj.self {
		if strings.EqualFold(stem, self) {
			return true
		}
	}

	return false
}

// pathEndsWith reports whether path ends in name on a path segment boundary.
func pathEndsWith(path, name string) bool {
	path, name = filepath.ToSlash(path), filepath.ToSlash(name)
	return path == name || strings.HasSuffix(path, "/"+name)
}
