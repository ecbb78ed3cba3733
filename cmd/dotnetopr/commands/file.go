package commands

import (
	"github.com/spf13/cobra"
)

// NewFileCommand creates the "file" parent command.
func NewFileCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage project source files",
	}

	cmd.AddCommand(newFileAddCommand(rt))

	return cmd
}

func newFileAddCommand(rt *Runtime) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "add <PROJECT> <FILE>...",
		Short: "Copy files into the project directory and register them",
		Long: `Copy each file next to the project and add it as Compile (.cs, .vb, .fs),
EmbeddedResource (.resx) or None. Default compile items are disabled so that
only registered files are compiled.`,
		Example: `  dotnetopr file add ./App.csproj ../shared/Util.cs ../shared/Strings.resx
  dotnetopr file add ./App.csproj ../shared/Util.cs --overwrite`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			if !rt.Modifier.AddSourceFiles(projectPath, overwrite, args[1:]...) {
				return errFailed("adding files to %s", projectPath)
			}
			rt.Console.Success("Updated source files of %s", projectPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files that already exist in the project directory")

	return cmd
}
