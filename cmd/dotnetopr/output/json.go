package output

import (
	"encoding/json"
	"io"
	"time"
)

// JSON output types matching the schema contract

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// PackageListOutput represents the JSON output for package list command
type PackageListOutput struct {
	SchemaVersion    string         `json:"schemaVersion"`
	Project          string         `json:"project"`
	TargetFrameworks []string       `json:"targetFrameworks"`
	Packages         []PackageEntry `json:"packages"`
	ElapsedMs        int64          `json:"elapsedMs"`
}

// PackageEntry represents a package reference in JSON output
type PackageEntry struct {
	ID            string `json:"id"`
	Version       string `json:"version,omitempty"`
	ExcludeAssets string `json:"excludeAssets,omitempty"`
	PrivateAssets string `json:"privateAssets,omitempty"`
	Condition     string `json:"condition,omitempty"`
}

// PropertyListOutput represents the JSON output for property list command
type PropertyListOutput struct {
	SchemaVersion string          `json:"schemaVersion"`
	Project       string          `json:"project"`
	Properties    []PropertyEntry `json:"properties"`
	ElapsedMs     int64           `json:"elapsedMs"`
}

// PropertyEntry is one MSBuild property in JSON output
type PropertyEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SolutionListOutput represents the JSON output for sln list command
type SolutionListOutput struct {
	SchemaVersion string            `json:"schemaVersion"`
	Solution      string            `json:"solution"`
	Projects      []SolutionProject `json:"projects"`
	ElapsedMs     int64             `json:"elapsedMs"`
}

// SolutionProject is one project entry of a solution in JSON output
type SolutionProject struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Folder string `json:"folder,omitempty"`
}

// DoctorOutput represents the JSON output for the doctor command
type DoctorOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	Status        string       `json:"status"`
	Checks        []CheckEntry `json:"checks"`
	ElapsedMs     int64        `json:"elapsedMs"`
}

// CheckEntry is one health check result in JSON output
type CheckEntry struct {
	Name    string            `json:"name"`
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// NewPackageListOutput creates a new PackageListOutput with schema version
func NewPackageListOutput(project string, frameworks []string, start time.Time) *PackageListOutput {
	if frameworks == nil {
		frameworks = []string{}
	}
	return &PackageListOutput{
		SchemaVersion:    CurrentSchemaVersion,
		Project:          project,
		TargetFrameworks: frameworks,
		Packages:         []PackageEntry{},
		ElapsedMs:        MeasureElapsed(start),
	}
}

// NewPropertyListOutput creates a new PropertyListOutput with schema version
func NewPropertyListOutput(project string, start time.Time) *PropertyListOutput {
	return &PropertyListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Project:       project,
		Properties:    []PropertyEntry{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewSolutionListOutput creates a new SolutionListOutput with schema version
func NewSolutionListOutput(solution string, start time.Time) *SolutionListOutput {
	return &SolutionListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Solution:      solution,
		Projects:      []SolutionProject{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewDoctorOutput creates a new DoctorOutput with schema version
func NewDoctorOutput(status string, start time.Time) *DoctorOutput {
	return &DoctorOutput{
		SchemaVersion: CurrentSchemaVersion,
		Status:        status,
		Checks:        []CheckEntry{},
		ElapsedMs:     MeasureElapsed(start),
	}
}
