package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
)

// NewConfigCommand creates the "config" parent command.
func NewConfigCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect dotnetopr configuration",
	}

	cmd.AddCommand(newConfigShowCommand(rt))

	return cmd
}

func newConfigShowCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
DOTNETOPR_* environment variables and command line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json":
				return output.WriteJSON(rt.Console.Out(), rt.Config)
			case "yaml", "":
				if rt.Config.File != "" {
					rt.Console.Printf("# %s\n", rt.Config.File)
				}
				enc := yaml.NewEncoder(rt.Console.Out())
				enc.SetIndent(2)
				if err := enc.Encode(rt.Config); err != nil {
					return fmt.Errorf("failed to encode configuration: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported format %q (want yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	return cmd
}
