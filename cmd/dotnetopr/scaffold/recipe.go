// Package scaffold creates a project from a YAML recipe: it scaffolds the
// solution and project with the toolchain, edits the project file, then
// optionally builds and runs it.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/pkgversion"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/project"
	"github.com/dumbnessrf/DotNetOpr/frameworks"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

// Recipe describes one scaffolding run.
type Recipe struct {
	// Directory is the working directory; relative paths in the recipe are
	// resolved against the recipe file's directory.
	Directory   string         `yaml:"directory"`
	Clean       bool           `yaml:"clean"`
	Solution    string         `yaml:"solution,omitempty"`
	Project     ProjectSpec    `yaml:"project"`
	LangVersion string         `yaml:"langVersion,omitempty"`
	Properties  []PropertySpec `yaml:"properties,omitempty"`
	Packages    []PackageSpec  `yaml:"packages,omitempty"`
	References  ReferenceSpec  `yaml:"references,omitempty"`
	Sources     SourceSpec     `yaml:"sources,omitempty"`
	Build       bool           `yaml:"build"`
	Run         RunSpec        `yaml:"run,omitempty"`

	baseDir string
}

// ProjectSpec selects the template to scaffold.
type ProjectSpec struct {
	Name      string   `yaml:"name"`
	Template  string   `yaml:"template"`
	Framework string   `yaml:"framework,omitempty"`
	Args      []string `yaml:"args,omitempty"`
}

// PropertySpec is one MSBuild property to set.
type PropertySpec struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// PackageSpec is one package reference, with optional asset metadata.
type PackageSpec struct {
	ID            string `yaml:"id"`
	Version       string `yaml:"version,omitempty"`
	ExcludeAssets string `yaml:"excludeAssets,omitempty"`
	PrivateAssets string `yaml:"privateAssets,omitempty"`
}

// ReferenceSpec lists assembly references to add.
type ReferenceSpec struct {
	CopyLocal bool     `yaml:"copyLocal"`
	Paths     []string `yaml:"paths,omitempty"`
}

// SourceSpec lists files to copy next to the project.
type SourceSpec struct {
	Overwrite bool     `yaml:"overwrite"`
	Paths     []string `yaml:"paths,omitempty"`
}

// RunSpec controls the final "dotnet run".
type RunSpec struct {
	Enabled bool     `yaml:"enabled"`
	Args    []string `yaml:"args,omitempty"`
}

// LoadRecipe reads and validates a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}

	recipe, err := ParseRecipe(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	recipe.baseDir = abs
	return recipe, nil
}

// ParseRecipe decodes and validates a recipe. Relative paths resolve
// against the current directory.
func ParseRecipe(data []byte) (*Recipe, error) {
	var recipe Recipe
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Validate checks the enumerated fields and required names.
func (r *Recipe) Validate() error {
	var errs []error
	if r.Project.Name == "" {
		errs = append(errs, errors.New("project.name is required"))
	}
	if _, err := toolchain.ParseTemplate(r.Project.Template); err != nil {
		errs = append(errs, fmt.Errorf("project.template: %w", err))
	}
	if r.Project.Framework != "" {
		if _, err := frameworks.ParseFramework(r.Project.Framework); err != nil {
			errs = append(errs, fmt.Errorf("project.framework: %w", err))
		}
	}
	if r.LangVersion != "" {
		if _, err := project.ParseLanguageVersion(r.LangVersion); err != nil {
			errs = append(errs, fmt.Errorf("langVersion: %w", err))
		}
	}
	for i, p := range r.Properties {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("properties[%d].name is required", i))
		} else if err := project.CheckPropertyName(p.Name); err != nil {
			errs = append(errs, fmt.Errorf("properties[%d].name: %w", i, err))
		}
	}
	for i, p := range r.Packages {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("packages[%d].id is required", i))
		}
		if p.Version != "" {
			if _, err := pkgversion.ParseSpec(p.Version); err != nil {
				errs = append(errs, fmt.Errorf("packages[%d].version: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Template returns the parsed project template.
func (r *Recipe) Template() toolchain.Template {
	t, _ := toolchain.ParseTemplate(r.Project.Template)
	return t
}

// Framework returns the parsed framework, or Unspecified.
func (r *Recipe) Framework() frameworks.Framework {
	if r.Project.Framework == "" {
		return frameworks.Unspecified
	}
	fw, _ := frameworks.ParseFramework(r.Project.Framework)
	return fw
}

// Dir returns the absolute working directory.
func (r *Recipe) Dir() string {
	return r.resolve(r.Directory)
}

// ProjectDir returns the directory the project is scaffolded into.
func (r *Recipe) ProjectDir() string {
	return filepath.Join(r.Dir(), r.Project.Name)
}

// SolutionPath returns the solution file path, or "" when the recipe has none.
func (r *Recipe) SolutionPath() string {
	if r.Solution == "" {
		return ""
	}
	name := r.Solution
	if filepath.Ext(name) == "" {
		name += ".sln"
	}
	return filepath.Join(r.Dir(), name)
}

func (r *Recipe) resolve(path string) string {
	if path == "" {
		path = "."
	}
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (r *Recipe) resolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = r.resolve(p)
	}
	return out
}
