// Package cli holds the dotnetopr root command and its global flags.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
)

// Global flag names.
const (
	FlagConfig         = "config"
	FlagVerbosity      = "verbosity"
	FlagToolchain      = "toolchain"
	FlagOutputEncoding = "output-encoding"
	FlagLogLevel       = "log-level"
	FlagTraceExporter  = "trace-exporter"
	FlagTraceEndpoint  = "trace-endpoint"
	FlagMetricsFile    = "metrics-file"
)

var rootCmd = NewRootCommand()

// Console is the global console for CLI commands
var Console = output.DefaultConsole()

// NewRootCommand creates a root command carrying the global flags and no
// subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dotnetopr",
		Short: "Scaffold, edit, build and run .NET projects",
		Long: `dotnetopr drives the dotnet CLI to scaffold projects and solutions, edits
project files in place (properties, references, source files, packages), and
builds and runs the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// Show help when no command is provided
			_ = cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(FlagConfig, "", "Configuration file (default: ./dotnetopr.yaml, then the user config directory)")
	flags.StringP(FlagVerbosity, "v", "normal", "Display verbosity (quiet, minimal, normal, detailed, diagnostic)")
	flags.String(FlagToolchain, "", "Path to the dotnet executable")
	flags.String(FlagOutputEncoding, "", "Encoding of toolchain output (default: platform code page)")
	flags.String(FlagLogLevel, "", "Structured log level (verbose, debug, info, warn, error)")
	flags.String(FlagTraceExporter, "", "Trace exporter (none, stdout, otlp)")
	flags.String(FlagTraceEndpoint, "", "OTLP gRPC collector endpoint")
	flags.String(FlagMetricsFile, "", "Write Prometheus metrics to this file on exit")

	return cmd
}

// Root returns the process-wide root command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
