package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/frameworks"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

type newOptions struct {
	output    string
	framework string
	name      string
}

// NewNewCommand creates the "new" command, which scaffolds a project from a
// template.
func NewNewCommand(rt *Runtime) *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <TEMPLATE> -o <DIR> [-- extra template args]",
		Short: "Create a project from a template",
		Long: `Create a project by running "dotnet new" with one of the supported templates:
console, classlib, webapi, mvc, winforms, wpf, worker, xunit, nunit, mstest,
razorclasslibrary.

Examples:
  dotnetopr new console -o ./src/App
  dotnetopr new classlib -o ./src/Lib -f net8.0
  dotnetopr new webapi -o ./src/Api -n Api -- --no-https`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, rt, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory to create the project in (required)")
	cmd.Flags().StringVarP(&opts.framework, "framework", "f", "", "Target framework moniker, e.g. net8.0")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Project name (defaults to the output directory name)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runNew(cmd *cobra.Command, rt *Runtime, opts *newOptions, args []string) error {
	if suggestion := detectVerbFirstPattern(append([]string{"new"}, args...)); suggestion != "" {
		return fmt.Errorf("use %s to create a solution", suggestion)
	}

	template, err := toolchain.ParseTemplate(args[0])
	if err != nil {
		return err
	}

	framework := frameworks.Unspecified
	if opts.framework != "" {
		if framework, err = frameworks.ParseFramework(opts.framework); err != nil {
			return err
		}
	}

	extra := extraArgs(cmd, args)
	if opts.name != "" {
		extra = append([]string{"-n", opts.name}, extra...)
	}

	if !rt.Toolchain.CreateProject(cmd.Context(), template, opts.output, framework, extra...) {
		return errFailed("creating %s project in %s", template, opts.output)
	}
	rt.Console.Success("Created %s project in %s", template, opts.output)
	return nil
}

// extraArgs returns the arguments after "--", which are passed to the
// toolchain unchanged.
func extraArgs(cmd *cobra.Command, args []string) []string {
	at := cmd.ArgsLenAtDash()
	if at < 0 {
		return nil
	}
	return args[at:]
}
