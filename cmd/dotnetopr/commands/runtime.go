// Package commands implements the dotnetopr subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/cli"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/config"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/project"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/version"
	"github.com/dumbnessrf/DotNetOpr/observability"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

// Runtime holds the services shared by all commands. It is populated by
// Initialize before any command runs.
type Runtime struct {
	Console   *output.Console
	Config    *config.Config
	Logger    observability.Logger
	Toolchain *toolchain.Toolchain
	Modifier  *project.Modifier

	tracer        *sdktrace.TracerProvider
	toolchainOpts []toolchain.Option
}

// NewRuntime creates an uninitialized Runtime writing to console.
func NewRuntime(console *output.Console) *Runtime {
	return &Runtime{Console: console}
}

// Initialize loads the configuration from cmd's flags and builds the logger,
// tracer, toolchain and modifier.
func (rt *Runtime) Initialize(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if v, err := flags.GetString(cli.FlagVerbosity); err == nil {
		verbosity, err := output.ParseVerbosity(v)
		if err != nil {
			return err
		}
		rt.Console.SetVerbosity(verbosity)
	}

	cfgFile, _ := flags.GetString(cli.FlagConfig)
	cfg, err := config.Load(cfgFile, flags)
	if err != nil {
		return err
	}
	rt.Config = cfg

	rt.Logger = observability.NewLogger(rt.Console.ErrOut(), cfg.LogLevel())
	if cfg.File != "" {
		rt.Logger.Debug("Loaded configuration from {ConfigFile}", cfg.File)
	}

	tp, err := observability.SetupTracing(cmd.Context(), cfg.TracerConfig(version.Version))
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	rt.tracer = tp

	enc, err := toolchain.LookupEncoding(cfg.Toolchain.OutputEncoding)
	if err != nil {
		return err
	}
	rt.toolchainOpts = []toolchain.Option{
		toolchain.WithExecutable(cfg.Toolchain.Executable),
		toolchain.WithOutputEncoding(enc),
	}
	rt.Toolchain = toolchain.New(rt.Logger, append(rt.toolchainOpts,
		toolchain.WithLineHandler(func(stream toolchain.Stream, line string) {
			rt.Console.ToolOutput(stream == toolchain.Stderr, line)
		}),
	)...)
	rt.Modifier = project.NewModifier(rt.Logger)

	return nil
}

// QuietToolchain returns a toolchain that keeps process output off the
// console. Lines are still captured in the Result and logged at Verbose.
func (rt *Runtime) QuietToolchain() *toolchain.Toolchain {
	return toolchain.New(rt.Logger, append(rt.toolchainOpts,
		toolchain.WithLineHandler(func(toolchain.Stream, string) {}),
	)...)
}

// Close flushes traces and writes the metrics textfile when configured.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.tracer != nil {
		if err := observability.ShutdownTracing(ctx, rt.tracer); err != nil {
			errs = append(errs, err)
		}
		rt.tracer = nil
	}
	if rt.Config != nil && rt.Config.Metrics.Textfile != "" {
		if err := observability.WriteMetricsFile(rt.Config.Metrics.Textfile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics to %s: %w", rt.Config.Metrics.Textfile, err))
		}
	}
	return errors.Join(errs...)
}

// Register attaches every dotnetopr command to root and initializes rt
// before any of them runs.
func Register(root *cobra.Command, rt *Runtime) {
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rt.Initialize(cmd)
	}
	root.Args = cobra.ArbitraryArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return HandleUnknownCommand(cmd, args)
	}
	root.Run = nil

	root.AddCommand(
		NewVersionCommand(rt),
		NewDoctorCommand(rt),
		NewConfigCommand(rt),
		NewNewCommand(rt),
		NewSolutionCommand(rt),
		NewBuildCommand(rt),
		NewRunCommand(rt),
		NewPropertyCommand(rt),
		NewReferenceCommand(rt),
		NewFileCommand(rt),
		NewPackageCommand(rt),
		NewScaffoldCommand(rt),
	)
}

// resolveProject turns a PROJECT argument (a file, a directory, or "" for
// the working directory) into a project file path.
func resolveProject(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}
	path, err := project.ResolveProjectPath(arg)
	if err != nil {
		return "", fmt.Errorf("failed to find project file: %w", err)
	}
	return path, nil
}
