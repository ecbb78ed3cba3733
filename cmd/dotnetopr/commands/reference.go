package commands

import (
	"github.com/spf13/cobra"
)

// NewReferenceCommand creates the "reference" parent command.
func NewReferenceCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage assembly references",
	}

	cmd.AddCommand(newReferenceAddCommand(rt))

	return cmd
}

func newReferenceAddCommand(rt *Runtime) *cobra.Command {
	var copyLocal bool

	cmd := &cobra.Command{
		Use:   "add <PROJECT> <DLL>...",
		Short: "Add assembly references with a HintPath",
		Long: `Add a Reference item for each DLL. DLLs that do not exist are skipped with a
warning, and references already present (compared by name, ignoring case)
are left alone.`,
		Example: `  dotnetopr reference add ./App.csproj ./lib/Vendor.dll
  dotnetopr reference add ./App.csproj ./lib/*.dll --copy-local=false`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			if !rt.Modifier.AddReferences(projectPath, copyLocal, args[1:]...) {
				return errFailed("adding references to %s", projectPath)
			}
			rt.Console.Success("Updated references of %s", projectPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyLocal, "copy-local", true, "Copy the referenced DLLs to the output directory (Private)")

	return cmd
}
