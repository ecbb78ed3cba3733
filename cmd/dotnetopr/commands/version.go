package commands

import (
	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/cli"
)

// NewVersionCommand creates the version command
func NewVersionCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  `Display detailed version information including commit, build date, Go version and platform.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.Console.Println(cli.GetFullVersion())
			return nil
		},
	}

	return cmd
}
