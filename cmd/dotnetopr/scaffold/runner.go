package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/project"
	"github.com/dumbnessrf/DotNetOpr/frameworks"
	"github.com/dumbnessrf/DotNetOpr/observability"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

// Scaffolder is the toolchain surface the runner needs.
type Scaffolder interface {
	CreateSolution(ctx context.Context, slnPath string) bool
	CreateProject(ctx context.Context, template toolchain.Template, outputDir string, framework frameworks.Framework, extraArgs ...string) bool
	AddProjectToSolution(ctx context.Context, slnPath, projectPath string) bool
	BuildProject(ctx context.Context, projectPath string, extraArgs ...string) bool
	RunProject(ctx context.Context, projectPath string, extraArgs ...string) toolchain.RunResult
}

// Editor is the project file surface the runner needs.
type Editor interface {
	SetProperty(path, name, value string) bool
	SetLanguageVersion(path string, version project.LanguageVersion) bool
	AddReferences(path string, copyLocal bool, dllPaths ...string) bool
	AddSourceFiles(path string, overwrite bool, files ...string) bool
	AddPackageReference(path, id, version string) bool
	SetPackageMetadata(path, id string, md project.PackageMetadata) bool
}

// Outcome reports what a run produced.
type Outcome struct {
	SolutionPath string
	ProjectPath  string
	// Run is set when the recipe ran the project.
	Run *toolchain.RunResult
}

// Runner executes recipes.
type Runner struct {
	scaffolder Scaffolder
	editor     Editor
	logger     observability.Logger
}

// NewRunner creates a Runner.
func NewRunner(scaffolder Scaffolder, editor Editor, logger observability.Logger) *Runner {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Runner{scaffolder: scaffolder, editor: editor, logger: logger}
}

// Run executes the recipe. A failed toolchain step stops the run; failed
// project edits are collected and returned together once the remaining
// steps have run.
func (r *Runner) Run(ctx context.Context, recipe *Recipe) (*Outcome, error) {
	if err := recipe.Validate(); err != nil {
		return &Outcome{}, fmt.Errorf("invalid recipe: %w", err)
	}

	out := &Outcome{SolutionPath: recipe.SolutionPath()}
	dir := recipe.Dir()

	if recipe.Clean {
		r.logger.Info("Cleaning {Directory}", dir)
		if err := os.RemoveAll(dir); err != nil {
			return out, fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return out, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if out.SolutionPath != "" && !r.scaffolder.CreateSolution(ctx, out.SolutionPath) {
		return out, fmt.Errorf("failed to create solution %s", out.SolutionPath)
	}

	projectDir := recipe.ProjectDir()
	if !r.scaffolder.CreateProject(ctx, recipe.Template(), projectDir, recipe.Framework(), recipe.Project.Args...) {
		return out, fmt.Errorf("failed to create %s project in %s", recipe.Template(), projectDir)
	}
	projectPath, err := project.FindProjectFile(projectDir)
	if err != nil {
		return out, err
	}
	out.ProjectPath = projectPath

	if out.SolutionPath != "" && !r.scaffolder.AddProjectToSolution(ctx, out.SolutionPath, projectPath) {
		return out, fmt.Errorf("failed to add %s to %s", projectPath, out.SolutionPath)
	}

	editErr := r.edit(recipe, projectPath)

	if recipe.Build && !r.scaffolder.BuildProject(ctx, projectPath) {
		return out, errors.Join(editErr, fmt.Errorf("build of %s failed", projectPath))
	}

	if recipe.Run.Enabled {
		res := r.scaffolder.RunProject(ctx, projectPath, recipe.Run.Args...)
		out.Run = &res
		switch {
		case res.LaunchFailed():
			return out, errors.Join(editErr, fmt.Errorf("failed to launch %s: %w", projectPath, res.Err))
		case !res.OK():
			return out, errors.Join(editErr, fmt.Errorf("%s exited with code %d", projectPath, res.ExitCode))
		}
	}

	return out, editErr
}

// edit applies the recipe's project file changes. SetProperty reports false
// both for "unchanged" and for failures, so only the batch operations
// contribute errors.
func (r *Runner) edit(recipe *Recipe, projectPath string) error {
	var errs []error

	if recipe.LangVersion != "" {
		v, err := project.ParseLanguageVersion(recipe.LangVersion)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("langVersion: %w", err))
		case !r.editor.SetLanguageVersion(projectPath, v):
			r.logger.Debug("LangVersion of {Project} not changed", projectPath)
		}
	}

	for _, p := range recipe.Properties {
		if !r.editor.SetProperty(projectPath, p.Name, p.Value) {
			r.logger.Debug("Property {Property} of {Project} not changed", p.Name, projectPath)
		}
	}

	for _, pkg := range recipe.Packages {
		if !r.editor.AddPackageReference(projectPath, pkg.ID, pkg.Version) {
			errs = append(errs, fmt.Errorf("add package %s failed", pkg.ID))
			continue
		}
		if pkg.ExcludeAssets == "" && pkg.PrivateAssets == "" {
			continue
		}
		md := project.PackageMetadata{ExcludeAssets: pkg.ExcludeAssets, PrivateAssets: pkg.PrivateAssets}
		if !r.editor.SetPackageMetadata(projectPath, pkg.ID, md) {
			errs = append(errs, fmt.Errorf("set metadata of package %s failed", pkg.ID))
		}
	}

	if len(recipe.References.Paths) > 0 &&
		!r.editor.AddReferences(projectPath, recipe.References.CopyLocal, recipe.resolveAll(recipe.References.Paths)...) {
		errs = append(errs, errors.New("add references failed"))
	}

	if len(recipe.Sources.Paths) > 0 &&
		!r.editor.AddSourceFiles(projectPath, recipe.Sources.Overwrite, recipe.resolveAll(recipe.Sources.Paths)...) {
		errs = append(errs, errors.New("add source files failed"))
	}

	return errors.Join(errs...)
}
