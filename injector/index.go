package injector

import "path/filepath"

// An Entry pairs a unit name with the path it maps to
// and the root the path was found under.
type Entry struct {
	Name string
	Path string
	Root string
}

// Rel returns e.Path relative to e.Root, slash separated.
// If e.Path is not beneath e.Root, Rel returns e.Path itself, slash separated.
func (e Entry) Rel() string {
	if e.Root != "" {
		if rel, err := filepath.Rel(e.Root, e.Path); err == nil && rel != ".." && !hasDotDotPrefix(rel) {
			return filepath.ToSlash(rel)
		}
	}

	return filepath.ToSlash(e.Path)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

// An Index maps unit names, the base name of a file, to the file's path.
//
// Registering a path whose base name is already present overwrites the earlier path;
// the last write wins.
// Since scan order is not guaranteed, neither is which of two same-named files wins.
//
// An Index is not safe for concurrent use; an Injector guards its own.
type Index struct {
	names   []string
	entries map[string]Entry
}

// NewIndex constructs an empty *Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Register maps the base name of path, found under root, to path, returning the name.
func (ix *Index) Register(root, path string) string {
	name := filepath.Base(path)
	if _, ok := ix.entries[name]; !ok {
		ix.names = append(ix.names, name)
	}

	ix.entries[name] = Entry{Name: name, Path: path, Root: root}
	return name
}

// Lookup returns the path name maps to.
func (ix *Index) Lookup(name string) (string, bool) {
	e, ok := ix.entries[name]
	return e.Path, ok
}

// Len returns the number of names in the Index.
func (ix *Index) Len() int { return len(ix.names) }

// Entries lists every name, path and root in the order names were first registered.
func (ix *Index) Entries() []Entry {
	entries := make([]Entry, 0, len(ix.names))
	for _, name := range ix.names {
		entries = append(entries, ix.entries[name])
	}

	return entries
}

// Names lists every name in the order it was first registered.
func (ix *Index) Names() []string {
	names := make([]string, len(ix.names))
	copy(names, ix.names)
	return names
}
