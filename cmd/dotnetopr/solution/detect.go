package solution

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNoSolution is returned by Find when no solution file is found.
var ErrNoSolution = errors.New("no solution file found")

// IsSolutionFile reports whether path has a solution file extension.
func IsSolutionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sln", ".slnx", ".slnf":
		return true
	}
	return false
}

// Find looks for a single solution file under dir. Hidden directories and
// the bin, obj and node_modules directories are skipped. More than one
// match is an error listing the candidates.
func Find(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "bin" || name == "obj" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSolutionFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("error searching for solution files: %w", err)
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoSolution, dir)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("multiple solution files found in %s: %s. Specify which solution to use",
			dir, strings.Join(found, ", "))
	}
}
