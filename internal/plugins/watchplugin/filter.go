package watchplugin

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterChangedPaths is the pure filter spec.md's Testable Property #8
// requires: the same (changedPaths, entry) always produces the same
// accepted subset. It canonicalises each path, keeps only those strictly
// under one of the entry's base directories, relativises them, and
// accepts only paths matching the positive glob set but not the negative
// one.
func FilterChangedPaths(changedPaths []string, entry WatchEntry) []string {
	var accepted []string
	for _, raw := range changedPaths {
		clean := filepath.Clean(raw)
		rel, ok := relativeToAnyBase(clean, entry.BaseDirs)
		if !ok {
			continue
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(entry.Positive, rel) {
			continue
		}
		if matchesAny(entry.Negative, rel) {
			continue
		}
		accepted = append(accepted, clean)
	}
	return accepted
}

func relativeToAnyBase(path string, baseDirs []string) (string, bool) {
	for _, base := range baseDirs {
		cleanBase := filepath.Clean(base)
		rel, err := filepath.Rel(cleanBase, path)
		if err != nil {
			continue
		}
		if rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return rel, true
	}
	return "", false
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
