package solution

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	formatVersionRegex = regexp.MustCompile(`^Microsoft Visual Studio Solution File, Format Version (\S+)`)

	// Project("{TYPE}") = "Name", "Path", "{GUID}"
	projectRegex = regexp.MustCompile(
		`(?i)^Project\("\{([A-F0-9-]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{([A-F0-9-]+)\}"`,
	)

	// {CHILD} = {PARENT} inside GlobalSection(NestedProjects)
	nestedProjectRegex = regexp.MustCompile(`(?i)^\s*\{([A-F0-9-]+)\}\s*=\s*\{([A-F0-9-]+)\}`)
)

func parseSln(path string) (*Solution, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer file.Close()

	sol := &Solution{FilePath: path, Projects: []Project{}}
	folderNames := map[string]string{} // GUID -> folder name
	projectIndex := map[string]int{}   // GUID -> index in sol.Projects
	parents := map[string]string{}     // child GUID -> parent GUID

	scanner := bufio.NewScanner(file)
	lineNum := 0
	open := false
	inNested := false

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		case formatVersionRegex.MatchString(line):
			sol.FormatVersion = formatVersionRegex.FindStringSubmatch(line)[1]
		case projectRegex.MatchString(line):
			if open {
				return nil, &ParseError{FilePath: path, Line: lineNum, Message: "nested Project without EndProject"}
			}
			open = true
			m := projectRegex.FindStringSubmatch(line)
			typeGUID := "{" + strings.ToUpper(m[1]) + "}"
			guid := "{" + strings.ToUpper(m[4]) + "}"
			if typeGUID == ProjectTypeSolutionFolder {
				folderNames[guid] = m[2]
				sol.Folders = append(sol.Folders, m[2])
				continue
			}
			projectIndex[guid] = len(sol.Projects)
			sol.Projects = append(sol.Projects, Project{
				Name:     m[2],
				Path:     normalizePath(m[3]),
				TypeGUID: typeGUID,
			})
		case trimmed == "EndProject":
			open = false
		case strings.HasPrefix(trimmed, "GlobalSection(NestedProjects)"):
			inNested = true
		case trimmed == "EndGlobalSection":
			inNested = false
		case inNested:
			if m := nestedProjectRegex.FindStringSubmatch(line); m != nil {
				parents["{"+strings.ToUpper(m[1])+"}"] = "{" + strings.ToUpper(m[2]) + "}"
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("error reading file: %v", err)}
	}
	if open {
		return nil, &ParseError{FilePath: path, Line: lineNum, Message: "unexpected end of file: missing EndProject"}
	}
	if sol.FormatVersion == "" {
		return nil, &ParseError{FilePath: path, Line: 1, Message: "missing solution file header"}
	}

	for child, parent := range parents {
		if i, ok := projectIndex[child]; ok {
			sol.Projects[i].Folder = folderNames[parent]
		}
	}
	return sol, nil
}
