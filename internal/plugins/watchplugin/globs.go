package watchplugin

import (
	"path/filepath"
	"strings"
)

// baseDirsFor derives one base directory per pattern: the longest
// non-wildcard path prefix, per spec.md §4.7. A pattern beginning with
// "**/" reduces to the current directory, since its wildcard prefix could
// match anywhere.
func baseDirsFor(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	var dirs []string
	for _, pattern := range patterns {
		dir := baseDirForPattern(pattern)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func baseDirForPattern(pattern string) string {
	if strings.HasPrefix(pattern, "**/") {
		return "."
	}

	segments := strings.Split(pattern, "/")
	var literal []string
	for _, seg := range segments {
		if containsWildcard(seg) {
			break
		}
		literal = append(literal, seg)
	}

	if len(literal) == 0 {
		return "."
	}
	if len(literal) == len(segments) {
		// No wildcard segment at all: pattern names a literal file: its
		// base directory is the file's own parent.
		return filepath.Dir(filepath.Join(literal...))
	}
	return filepath.Join(literal...)
}

func containsWildcard(segment string) bool {
	return strings.ContainsAny(segment, "*?[")
}
