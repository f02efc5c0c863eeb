package watchplugin

import (
	"io/fs"
	"os"
	"path/filepath"
)

// filepathWalkDir visits root and every directory beneath it, ignoring
// entries that vanish mid-walk (e.g. a build directory cleaned concurrently).
func filepathWalkDir(root string, visit func(dir string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return visit(path)
	})
}
