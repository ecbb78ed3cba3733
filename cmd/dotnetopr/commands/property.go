package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/project"
)

// NewPropertyCommand creates the "property" parent command.
func NewPropertyCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Read and set MSBuild properties",
		Example: `  dotnetopr property set ./App.csproj AllowUnsafeBlocks true
  dotnetopr property langversion ./App.csproj 12
  dotnetopr property list ./App.csproj`,
	}

	cmd.AddCommand(
		newPropertySetCommand(rt),
		newPropertyLangVersionCommand(rt),
		newPropertyListCommand(rt),
	)

	return cmd
}

func newPropertySetCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set <PROJECT> <NAME> <VALUE>",
		Short: "Set a property in the first unconditioned property group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			return setProperty(rt, projectPath, args[1], args[2], func() bool {
				return rt.Modifier.SetProperty(projectPath, args[1], args[2])
			})
		},
	}
}

func newPropertyLangVersionCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "langversion <PROJECT> <VERSION>",
		Short: "Set the C# language version",
		Long: `Set LangVersion. VERSION is latest, preview, or a C# version from 3 to 13
("12", "12.0" and "csharp12" are equivalent).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := project.ParseLanguageVersion(args[1])
			if err != nil {
				return err
			}
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			return setProperty(rt, projectPath, "LangVersion", v.String(), func() bool {
				return rt.Modifier.SetLanguageVersion(projectPath, v)
			})
		},
	}
}

// setProperty runs set and tells "already set" apart from a failure, both of
// which the modifier reports as false.
func setProperty(rt *Runtime, projectPath, name, value string, set func() bool) error {
	if set() {
		rt.Console.Success("Set %s=%s in %s", name, value, projectPath)
		return nil
	}
	proj, err := project.LoadProject(projectPath)
	if err != nil {
		return err
	}
	if current, ok := proj.Property(name); ok && current == value {
		rt.Console.Info("%s is already %s in %s", name, value, projectPath)
		return nil
	}
	return errFailed("setting %s in %s", name, projectPath)
}

func newPropertyListCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List the properties of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			projectPath, err := resolveProject(firstArg(args))
			if err != nil {
				return err
			}
			props, err := rt.Modifier.Properties(projectPath)
			if err != nil {
				return err
			}

			if format == "json" {
				out := output.NewPropertyListOutput(projectPath, start)
				for _, p := range props {
					out.Properties = append(out.Properties, output.PropertyEntry{Name: p.Name, Value: p.Value})
				}
				out.ElapsedMs = output.MeasureElapsed(start)
				return output.WriteJSON(rt.Console.Out(), out)
			}

			rows := make([][]string, 0, len(props))
			for _, p := range props {
				rows = append(rows, []string{p.Name, p.Value})
			}
			rt.Console.Table([]string{"Property", "Value"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "console", "Output format: console or json")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
