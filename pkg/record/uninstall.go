package record

import (
	"iter"
	"path/filepath"
	"strings"
)

const (
	sourceExt   = ".py"
	compiledExt = ".pyc"
)

// UninstallPaths yields every path an uninstall of the distribution rooted at
// location has to remove: each RECORD path, plus the .pyc sibling of each .py
// file. Paths are yielded once, in order of first occurrence. Absolute RECORD
// paths (generated launchers) are yielded as-is.
func UninstallPaths(location string, rec Record) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		emit := func(p string) bool {
			if _, ok := seen[p]; ok {
				return true
			}
			seen[p] = struct{}{}
			return yield(p)
		}

		for _, e := range rec {
			path := filepath.FromSlash(e.Path)
			if !filepath.IsAbs(path) {
				path = filepath.Join(location, path)
			}
			if !emit(path) {
				return
			}
			if strings.HasSuffix(path, sourceExt) {
				if !emit(strings.TrimSuffix(path, sourceExt) + compiledExt) {
					return
				}
			}
		}
	}
}
