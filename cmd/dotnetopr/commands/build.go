package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBuildCommand creates the "build" command.
func NewBuildCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "build [PROJECT] [-- extra build args]",
		Short: "Build a project",
		Long: `Build a project with "dotnet build". PROJECT is a project file or a
directory holding one; the working directory is used when omitted.
Toolchain output is streamed as it is produced.`,
		Example: `  dotnetopr build ./src/App/App.csproj
  dotnetopr build -- -c Release`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, extra, err := splitProjectArgs(cmd, args)
			if err != nil {
				return err
			}
			projectPath, err := resolveProject(target)
			if err != nil {
				return err
			}
			if !rt.Toolchain.BuildProject(cmd.Context(), projectPath, extra...) {
				return errFailed("build of %s", projectPath)
			}
			rt.Console.Success("Build of %s succeeded", projectPath)
			return nil
		},
	}
}

// NewRunCommand creates the "run" command. dotnetopr exits with the
// program's exit code when the program was started.
func NewRunCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "run [PROJECT] [-- program args]",
		Short: "Run a project",
		Long: `Run a project with "dotnet run". Arguments after "--" are passed to the
program. dotnetopr exits with the program's exit code.`,
		Example: `  dotnetopr run ./src/App
  dotnetopr run ./src/App/App.csproj -- --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, extra, err := splitProjectArgs(cmd, args)
			if err != nil {
				return err
			}
			projectPath, err := resolveProject(target)
			if err != nil {
				return err
			}
			if len(extra) > 0 {
				extra = append([]string{"--"}, extra...)
			}
			res := rt.Toolchain.RunProject(cmd.Context(), projectPath, extra...)
			switch {
			case res.LaunchFailed():
				return fmt.Errorf("failed to launch %s: %w", projectPath, res.Err)
			case res.Err != nil:
				return fmt.Errorf("run of %s: %w", projectPath, res.Err)
			case res.ExitCode != 0:
				return &ExitError{Code: res.ExitCode}
			}
			return nil
		},
	}
}

// splitProjectArgs separates the optional PROJECT argument from the
// arguments after "--".
func splitProjectArgs(cmd *cobra.Command, args []string) (string, []string, error) {
	positional, extra := args, []string(nil)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		positional, extra = args[:at], args[at:]
	}
	switch len(positional) {
	case 0:
		return "", extra, nil
	case 1:
		return positional[0], extra, nil
	default:
		return "", nil, fmt.Errorf("expected at most one project, got %d", len(positional))
	}
}
