package injector

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Scan recursively searches root for files ending in any of exts,
// returning their absolute paths.
//
// Scan never fails: an unreadable root yields no paths,
// and unreadable directories beneath it are skipped.
// Paths come back in lexical walk order, but callers must not rely on that order.
func Scan(root string, exts ...string) []string {
	if len(exts) == 0 {
		return nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil
	}

	var paths []string
	filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// NOTE: WalkDir reports a directory it cannot read a second time with err set;
			// returning nil moves on to its siblings.
			return nil
		}

		if !d.IsDir() && hasExt(d.Name(), exts) {
			paths = append(paths, path)
		}

		return nil
	})

	return paths
}

func hasExt(name string, exts []string) bool {
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}
