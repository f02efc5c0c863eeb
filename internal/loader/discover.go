package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// discoveredFile pairs a file's path (relative to baseDir) with the
// display name its tasks will be qualified under.
type discoveredFile struct {
	RelPath     string
	DisplayName string
}

func isGlobSpec(spec string) bool {
	return strings.ContainsAny(spec, "*?[")
}

// scriptRoot returns the longest path prefix of a glob-bearing scripts_dirs
// entry that contains no wildcard characters, used as the base for
// relativising display names.
func scriptRoot(spec string) string {
	parts := strings.Split(filepath.ToSlash(spec), "/")
	var clean []string
	for _, part := range parts {
		if isGlobSpec(part) {
			break
		}
		clean = append(clean, part)
	}
	if len(clean) == 0 {
		return "."
	}
	return filepath.Join(clean...)
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func displayNameFor(root, relPath string) string {
	rel, err := filepath.Rel(root, relPath)
	if err != nil {
		rel = relPath
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return rel
}

// discoverScriptFiles enumerates the YAML files contributed by one
// scripts_dirs entry: a plain directory is read non-recursively; an entry
// containing any glob wildcard is matched as a doublestar glob (recursive
// where the pattern uses "**").
func discoverScriptFiles(baseDir, spec string) ([]discoveredFile, error) {
	if isGlobSpec(spec) {
		return discoverGlob(baseDir, spec)
	}
	return discoverFlat(baseDir, spec)
}

func discoverFlat(baseDir, dir string) ([]discoveredFile, error) {
	full := filepath.Join(baseDir, dir)
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	var files []discoveredFile
	for _, e := range entries {
		if e.IsDir() || !isYAMLFile(e.Name()) {
			continue
		}
		rel := filepath.Join(dir, e.Name())
		files = append(files, discoveredFile{
			RelPath:     rel,
			DisplayName: displayNameFor(dir, rel),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func discoverGlob(baseDir, spec string) ([]discoveredFile, error) {
	root := scriptRoot(spec)
	matches, err := doublestar.Glob(os.DirFS(baseDir), spec)
	if err != nil {
		return nil, err
	}

	var files []discoveredFile
	for _, m := range matches {
		if !isYAMLFile(m) {
			continue
		}
		info, err := fs.Stat(os.DirFS(baseDir), m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, discoveredFile{
			RelPath:     m,
			DisplayName: displayNameFor(root, m),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}
