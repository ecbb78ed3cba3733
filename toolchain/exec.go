package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/dumbnessrf/DotNetOpr/observability"
)

// Invocation results recorded in dotnetopr_toolchain_invocations_total.
const (
	resultSuccess      = "success"
	resultFailure      = "failure"
	resultLaunchFailed = "launch_failed"
)

const maxLineSize = 1024 * 1024

// ErrNotFound is returned when the toolchain executable cannot be started
// because it does not exist.
var ErrNotFound = errors.New("toolchain executable not found")

// Stream identifies the output stream a line was read from.
type Stream int

// Output streams.
const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Result is the outcome of a process that was started.
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
	Duration time.Duration
}

// Success reports whether the process exited with code 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Exec runs the toolchain with args in dir and blocks until it exits.
// Output lines are decoded with the configured encoding, passed to the line
// handler and logger as they arrive, and captured in the Result.
//
// A non-zero exit is not an error; err is set only when the process could not
// be started or waited for, or when ctx was cancelled.
func (tc *Toolchain) Exec(ctx context.Context, dir string, args ...string) (*Result, error) {
	command := subcommand(args)
	ctx, span := observability.StartToolchainSpan(ctx, command, args, dir)
	log := tc.logger.ForContext("Invocation", uuid.NewString())

	start := time.Now()
	res, err := tc.run(ctx, log, dir, args)
	elapsed := time.Since(start)

	observability.ToolchainDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	switch {
	case res == nil:
		observability.ToolchainInvocationsTotal.WithLabelValues(command, resultLaunchFailed).Inc()
		observability.EndSpanWithError(span, err)
		return nil, err
	case err == nil && res.Success():
		observability.ToolchainInvocationsTotal.WithLabelValues(command, resultSuccess).Inc()
	default:
		observability.ToolchainInvocationsTotal.WithLabelValues(command, resultFailure).Inc()
	}

	res.Duration = elapsed
	observability.RecordExitCode(span, res.ExitCode)
	spanErr := err
	if spanErr == nil && !res.Success() {
		spanErr = fmt.Errorf("%s exited with code %d", command, res.ExitCode)
	}
	observability.EndSpanWithError(span, spanErr)

	log.Debug("{Command} exited with code {ExitCode} after {Elapsed}", command, res.ExitCode, elapsed)
	return res, err
}

func (tc *Toolchain) run(ctx context.Context, log observability.Logger, dir string, args []string) (*Result, error) {
	argv := make([]string, 0, len(tc.prefixArgs)+len(args))
	argv = append(argv, tc.prefixArgs...)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, tc.executable, argv...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr: %w", err)
	}

	log.Debug("Running {Executable} {Arguments} in {Directory}", tc.executable, strings.Join(args, " "), dir)
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, tc.executable)
		}
		return nil, fmt.Errorf("failed to start %s: %w", tc.executable, err)
	}

	res := &Result{}
	var g errgroup.Group
	g.Go(func() error {
		return tc.scan(stdout, Stdout, log, &res.Stdout)
	})
	g.Go(func() error {
		return tc.scan(stderr, Stderr, log, &res.Stderr)
	})

	// Both pipes must be drained before Wait closes them.
	readErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("failed waiting for %s: %w", tc.executable, waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s interrupted: %w", subcommand(args), ctxErr)
	}
	if readErr != nil {
		return res, fmt.Errorf("failed reading output: %w", readErr)
	}
	return res, nil
}

func (tc *Toolchain) scan(r io.Reader, stream Stream, log observability.Logger, lines *[]string) error {
	sc := bufio.NewScanner(transform.NewReader(r, tc.encoding.NewDecoder()))
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		*lines = append(*lines, line)

		switch {
		case tc.lineHandler != nil:
			log.Verbose("{Stream}: {Line}", stream.String(), line)
			tc.lineHandler(stream, line)
		case stream == Stderr:
			log.Error("{Line}", line)
		default:
			log.Info("{Line}", line)
		}
	}
	if err := sc.Err(); err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// subcommand names an invocation for metrics and spans.
func subcommand(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	if len(args) > 0 {
		return strings.TrimLeft(args[0], "-")
	}
	return "dotnet"
}
