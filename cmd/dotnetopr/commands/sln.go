package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/solution"
)

// NewSolutionCommand creates the "sln" parent command.
func NewSolutionCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sln",
		Short: "Create and inspect solution files",
		Example: `  dotnetopr sln new ./MyApp.sln
  dotnetopr sln add ./MyApp.sln ./src/App/App.csproj
  dotnetopr sln list ./MyApp.sln --format json`,
	}

	cmd.AddCommand(
		newSolutionNewCommand(rt),
		newSolutionAddCommand(rt),
		newSolutionListCommand(rt),
	)

	return cmd
}

func newSolutionNewCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "new <SLN_PATH>",
		Short: "Create an empty solution file",
		Long: `Create an empty solution. The solution name is the file name without its
extension, and the directory is created when missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rt.Toolchain.CreateSolution(cmd.Context(), args[0]) {
				return errFailed("creating solution %s", args[0])
			}
			rt.Console.Success("Created solution %s", args[0])
			return nil
		},
	}
}

func newSolutionAddCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add <SLN_PATH> <PROJECT>",
		Short: "Add a project to a solution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := resolveProject(args[1])
			if err != nil {
				return err
			}
			if !rt.Toolchain.AddProjectToSolution(cmd.Context(), args[0], projectPath) {
				return errFailed("adding %s to %s", projectPath, args[0])
			}
			rt.Console.Success("Added %s to %s", projectPath, args[0])
			return nil
		},
	}
}

func newSolutionListCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [SLN_PATH]",
		Short: "List the projects of a .sln, .slnx or .slnf file",
		Long: `List the projects of a solution. Without SLN_PATH the working directory is
searched for exactly one solution file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			slnPath := firstArg(args)
			if slnPath == "" {
				found, err := solution.Find(".")
				if err != nil {
					return err
				}
				slnPath = found
			}
			sln, err := solution.Parse(slnPath)
			if err != nil {
				return err
			}

			if format == "json" {
				out := output.NewSolutionListOutput(sln.FilePath, start)
				for _, p := range sln.Projects {
					out.Projects = append(out.Projects, output.SolutionProject{
						Name:   p.Name,
						Path:   p.Path,
						Folder: p.Folder,
					})
				}
				out.ElapsedMs = output.MeasureElapsed(start)
				return output.WriteJSON(rt.Console.Out(), out)
			}

			if len(sln.Projects) == 0 {
				rt.Console.Println(fmt.Sprintf("Solution '%s' has no projects.", sln.FilePath))
				return nil
			}
			rows := make([][]string, 0, len(sln.Projects))
			for _, p := range sln.Projects {
				rows = append(rows, []string{p.Name, p.Path, p.Folder})
			}
			rt.Console.Table([]string{"Project", "Path", "Folder"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "console", "Output format: console or json")

	return cmd
}
