package driver

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// listModelFiles returns every *.model file under dir, sorted for a
// deterministic check order.
func listModelFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".model") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
