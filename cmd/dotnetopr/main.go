package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/cli"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/commands"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "0.0.0-dev"
	commit       = "unknown"
	date         = "unknown"
)

func main() {
	version.Version = buildVersion
	version.Commit = commit
	version.Date = date

	// Setup version after variables are set
	cli.SetupVersion()

	rt := commands.NewRuntime(cli.Console)
	commands.Register(cli.Root(), rt)

	// Cancelling the context kills a running toolchain process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	interrupted := ctx.Err() != nil
	stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if cerr := rt.Close(closeCtx); cerr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", cerr)
	}
	cancel()

	os.Exit(exitCode(err, interrupted))
}

func exitCode(err error, interrupted bool) int {
	if interrupted {
		return 130 // 128 + SIGINT
	}
	if err == nil {
		return 0
	}
	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Print error to stderr since SilenceErrors is true in rootCmd
	_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
