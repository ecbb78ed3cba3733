// Package solution reads .sln, .slnx and .slnf solution files.
package solution

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Project type GUIDs found in .sln files.
const (
	ProjectTypeCSProject      = "{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}"
	ProjectTypeCSProjectSDK   = "{9A19103F-16F7-4668-BE54-9A1E7A4F7556}"
	ProjectTypeVBProject      = "{F184B08F-C81C-45F6-A57F-5ABD9991F28F}"
	ProjectTypeFSProject      = "{F2A71F9B-5D33-465A-A702-920D77279786}"
	ProjectTypeSolutionFolder = "{2150E333-8FDC-42A3-9474-1A3956D46DE8}"
)

// Solution is a parsed solution file.
type Solution struct {
	// FilePath is the absolute path to the solution file
	FilePath string `json:"path"`

	// FormatVersion is the .sln format version ("12.00"); empty for .slnx
	FormatVersion string `json:"formatVersion,omitempty"`

	// Projects lists project entries in file order, excluding solution folders
	Projects []Project `json:"projects"`

	// Folders lists solution folder names
	Folders []string `json:"folders,omitempty"`
}

// Project is a project entry of a solution.
type Project struct {
	Name string `json:"name"`
	// Path is the project path as written, with forward slashes
	Path     string `json:"path"`
	TypeGUID string `json:"typeGuid,omitempty"`
	// Folder is the solution folder holding the project, if any
	Folder string `json:"folder,omitempty"`
}

// Dir returns the directory holding the solution file.
func (s *Solution) Dir() string {
	return filepath.Dir(s.FilePath)
}

// AbsPath resolves the project's path against the solution directory.
func (s *Solution) AbsPath(p Project) string {
	path := filepath.FromSlash(p.Path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.Dir(), path)
}

// Contains reports whether projectPath is listed in the solution. Paths are
// compared after resolving both against the solution directory, ignoring case.
func (s *Solution) Contains(projectPath string) bool {
	target := filepath.FromSlash(normalizePath(projectPath))
	if !filepath.IsAbs(target) {
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
	}
	target = filepath.Clean(target)

	for _, p := range s.Projects {
		if strings.EqualFold(s.AbsPath(p), target) {
			return true
		}
	}
	return false
}

// ParseError is returned for unreadable or malformed solution files.
type ParseError struct {
	FilePath string
	Line     int
	Message  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Parse reads a .sln, .slnx or .slnf file, chosen by extension.
func Parse(path string) (*Solution, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".sln":
		return parseSln(abs)
	case ".slnx":
		return parseSlnx(abs)
	case ".slnf":
		return parseSlnf(abs)
	default:
		return nil, &ParseError{FilePath: path, Message: "not a .sln, .slnx or .slnf file"}
	}
}

// normalizePath converts Windows-style separators to forward slashes.
func normalizePath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	return normalized
}
