package solution

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// slnfDocument is the JSON layout of a solution filter.
type slnfDocument struct {
	Solution struct {
		Path     string   `json:"path"`
		Projects []string `json:"projects"`
	} `json:"solution"`
}

// parseSlnf reads a solution filter and returns its parent solution reduced
// to the listed projects. FilePath stays the filter's path.
func parseSlnf(path string) (*Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}

	var doc slnfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("failed to parse JSON: %v", err)}
	}
	if doc.Solution.Path == "" {
		return nil, &ParseError{FilePath: path, Message: "missing solution path in filter file"}
	}

	parentPath := filepath.FromSlash(normalizePath(doc.Solution.Path))
	if !filepath.IsAbs(parentPath) {
		parentPath = filepath.Join(filepath.Dir(path), parentPath)
	}
	if strings.EqualFold(filepath.Ext(parentPath), ".slnf") {
		return nil, &ParseError{FilePath: path, Message: "a solution filter cannot refer to another filter"}
	}

	parent, err := Parse(parentPath)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("failed to parse parent solution: %v", err)}
	}

	keep := make(map[string]bool, len(doc.Solution.Projects))
	for _, p := range doc.Solution.Projects {
		keep[strings.ToLower(normalizePath(p))] = true
	}

	filtered := &Solution{
		FilePath:      path,
		FormatVersion: parent.FormatVersion,
		Projects:      []Project{},
		Folders:       parent.Folders,
	}
	for _, p := range parent.Projects {
		if keep[strings.ToLower(p.Path)] {
			// Keep paths resolvable from the filter's directory.
			p.Path = filepath.ToSlash(relOrAbs(filepath.Dir(path), parent.AbsPath(p)))
			filtered.Projects = append(filtered.Projects, p)
		}
	}
	return filtered, nil
}

func relOrAbs(base, target string) string {
	if rel, err := filepath.Rel(base, target); err == nil {
		return rel
	}
	return target
}
