package commands

import (
	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/scaffold"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/solution"
)

// NewScaffoldCommand creates the "scaffold" command, which runs a YAML recipe.
func NewScaffoldCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold <RECIPE>",
		Short: "Create, edit, build and run a project from a YAML recipe",
		Long: `Run a recipe: create the solution and project, set the language version
and properties, add packages, references and source files, then build and
run. Relative paths in the recipe are resolved against the recipe's
directory.

Example recipe:
  directory: ./out
  solution: demo
  project: { name: demo, template: console, framework: net8.0 }
  langVersion: latest
  properties: [{ name: AllowUnsafeBlocks, value: "true" }]
  packages: [{ id: Newtonsoft.Json, version: 13.0.3 }]
  build: true
  run: { enabled: true }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := scaffold.LoadRecipe(args[0])
			if err != nil {
				return err
			}

			runner := scaffold.NewRunner(rt.Toolchain, rt.Modifier, rt.Logger)
			out, err := runner.Run(cmd.Context(), recipe)
			if out.ProjectPath != "" {
				rt.Console.Info("Project: %s", out.ProjectPath)
			}
			if out.SolutionPath != "" && out.ProjectPath != "" {
				if sln, perr := solution.Parse(out.SolutionPath); perr == nil && sln.Contains(out.ProjectPath) {
					rt.Console.Info("Solution: %s (%d projects)", out.SolutionPath, len(sln.Projects))
				}
			}
			if out.Run != nil && out.Run.Launched && out.Run.ExitCode != 0 {
				rt.Console.Error("%v", err)
				return &ExitError{Code: out.Run.ExitCode}
			}
			if err != nil {
				return err
			}
			rt.Console.Success("Scaffolded %s", recipe.Project.Name)
			return nil
		},
	}
}
