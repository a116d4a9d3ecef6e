package injector

import "strings"

// A Kind distinguishes how a Ref resolves.
type Kind int

const (
	// KindUnit refers to exactly one unit by its file name,
	// optionally prefixed with the directories containing it.
	KindUnit Kind = iota

	// KindCategory refers to every unit found under a directory of that name.
	KindCategory
)

func (k Kind) String() string {
	if k == KindCategory {
		return "category"
	}
	return "unit"
}

// A Ref names what to resolve.
type Ref struct {
	Kind Kind
	Name string
}

// UnitRef refers to a concrete unit, e.g., "Home.lua" or "controllers/Home.lua".
func UnitRef(name string) Ref { return Ref{Kind: KindUnit, Name: name} }

// CategoryRef refers to every unit under a directory, e.g., "controllers".
func CategoryRef(name string) Ref { return Ref{Kind: KindCategory, Name: name} }

// ParseRef reads s as a UnitRef if it ends in one of exts
// and as a CategoryRef otherwise.
//
// ParseRef suits configuration files and CLI flags, where refs are plain strings.
// Go callers ought to construct a Ref directly.
func ParseRef(s string, exts ...string) Ref {
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(s, ext) {
			return UnitRef(s)
		}
	}

	return CategoryRef(s)
}

func (r Ref) String() string { return r.Kind.String() + ":" + r.Name }
