package solution

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type slnxDocument struct {
	XMLName  xml.Name      `xml:"Solution"`
	Projects []slnxProject `xml:"Project"`
	Folders  []slnxFolder  `xml:"Folder"`
}

type slnxFolder struct {
	Name     string        `xml:"Name,attr"`
	Projects []slnxProject `xml:"Project"`
	Folders  []slnxFolder  `xml:"Folder"`
}

type slnxProject struct {
	Path string `xml:"Path,attr"`
}

func parseSlnx(path string) (*Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}

	var doc slnxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{FilePath: path, Line: syntaxErr.Line, Message: "XML syntax error: " + syntaxErr.Msg}
		}
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("failed to parse XML: %v", err)}
	}

	sol := &Solution{FilePath: path, Projects: []Project{}}
	addSlnxProjects(sol, doc.Projects, "")
	for _, f := range doc.Folders {
		addSlnxFolder(sol, f)
	}
	return sol, nil
}

func addSlnxFolder(sol *Solution, f slnxFolder) {
	// Folder names are written as "/src/tests/".
	name := strings.Trim(f.Name, "/")
	sol.Folders = append(sol.Folders, name)
	addSlnxProjects(sol, f.Projects, name)
	for _, nested := range f.Folders {
		addSlnxFolder(sol, nested)
	}
}

func addSlnxProjects(sol *Solution, projects []slnxProject, folder string) {
	for _, p := range projects {
		path := normalizePath(p.Path)
		sol.Projects = append(sol.Projects, Project{
			Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path:     path,
			TypeGUID: typeGUIDForPath(path),
			Folder:   folder,
		})
	}
}

func typeGUIDForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vbproj":
		return ProjectTypeVBProject
	case ".fsproj":
		return ProjectTypeFSProject
	default:
		return ProjectTypeCSProjectSDK
	}
}
