// Package toolchain drives the dotnet command line: scaffolding projects and
// solutions, building and running them.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/dumbnessrf/DotNetOpr/frameworks"
	"github.com/dumbnessrf/DotNetOpr/observability"
)

// DefaultExecutable is the toolchain looked up on PATH when none is configured.
const DefaultExecutable = "dotnet"

// LineHandler receives each decoded output line as it is read.
type LineHandler func(stream Stream, line string)

// Toolchain runs dotnet subcommands. It is safe for sequential use; callers
// wanting concurrent builds should use one Toolchain per goroutine.
type Toolchain struct {
	executable  string
	prefixArgs  []string
	encoding    encoding.Encoding
	lineHandler LineHandler
	logger      observability.Logger
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithExecutable sets the executable and arguments placed before every
// subcommand.
func WithExecutable(path string, prefixArgs ...string) Option {
	return func(tc *Toolchain) {
		if path != "" {
			tc.executable = path
		}
		tc.prefixArgs = prefixArgs
	}
}

// WithOutputEncoding sets the encoding used to decode process output.
func WithOutputEncoding(enc encoding.Encoding) Option {
	return func(tc *Toolchain) {
		if enc != nil {
			tc.encoding = enc
		}
	}
}

// WithLineHandler routes output lines to h instead of logging them at
// Info and Error level.
func WithLineHandler(h LineHandler) Option {
	return func(tc *Toolchain) {
		tc.lineHandler = h
	}
}

// New creates a Toolchain that runs "dotnet" and decodes output with the
// platform code page unless configured otherwise.
func New(logger observability.Logger, opts ...Option) *Toolchain {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	tc := &Toolchain{
		executable: DefaultExecutable,
		encoding:   DefaultEncoding(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Executable returns the configured executable.
func (tc *Toolchain) Executable() string {
	return tc.executable
}

// succeeded runs args and reports whether the process exited with code 0.
func (tc *Toolchain) succeeded(ctx context.Context, dir string, args ...string) bool {
	res, err := tc.Exec(ctx, dir, args...)
	if err != nil {
		tc.logger.Error("dotnet {Command} failed: {Error}", subcommand(args), err)
		return false
	}
	if !res.Success() {
		tc.logger.Error("dotnet {Command} exited with code {ExitCode}", subcommand(args), res.ExitCode)
		return false
	}
	return true
}

// IsAvailable reports whether "dotnet --version" runs and exits with code 0.
func (tc *Toolchain) IsAvailable(ctx context.Context) bool {
	res, err := tc.Exec(ctx, "", "--version")
	if err != nil {
		tc.logger.Warn("Toolchain {Executable} is not available: {Error}", tc.executable, err)
		return false
	}
	return res.Success()
}

// Version returns the SDK version reported by "dotnet --version".
func (tc *Toolchain) Version(ctx context.Context) (string, error) {
	res, err := tc.Exec(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", fmt.Errorf("%s --version exited with code %d", tc.executable, res.ExitCode)
	}
	for _, line := range res.Stdout {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%s --version printed nothing", tc.executable)
}

// CreateProject scaffolds a project from template into outputDir. An
// unspecified framework leaves the choice to the template.
func (tc *Toolchain) CreateProject(ctx context.Context, template Template, outputDir string, framework frameworks.Framework, extraArgs ...string) bool {
	args := []string{"new", template.ShortName(), "-o", outputDir}
	if framework.IsSpecified() {
		args = append(args, "-f", framework.Moniker())
	}
	args = append(args, extraArgs...)

	if !tc.succeeded(ctx, "", args...) {
		return false
	}
	tc.logger.Info("Created {Template} project in {OutputDir}", template.String(), outputDir)
	return true
}

// CreateSolution creates a solution file at slnPath. The solution name is
// the file name without extension; the parent directory is created if needed.
func (tc *Toolchain) CreateSolution(ctx context.Context, slnPath string) bool {
	abs, err := filepath.Abs(slnPath)
	if err != nil {
		tc.logger.Error("Invalid solution path {Solution}: {Error}", slnPath, err)
		return false
	}
	dir := filepath.Dir(abs)
	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tc.logger.Error("Failed to create solution directory {Directory}: {Error}", dir, err)
		return false
	}

	if !tc.succeeded(ctx, dir, "new", "sln", "-n", name, "-o", dir) {
		return false
	}
	tc.logger.Info("Created solution {Solution}", slnPath)
	return true
}

// AddProjectToSolution registers projectPath in the solution.
func (tc *Toolchain) AddProjectToSolution(ctx context.Context, slnPath, projectPath string) bool {
	for _, p := range []string{slnPath, projectPath} {
		if _, err := os.Stat(p); err != nil {
			tc.logger.Error("Cannot add to solution: {Path} does not exist", p)
			return false
		}
	}

	if !tc.succeeded(ctx, "", "sln", slnPath, "add", projectPath) {
		return false
	}
	tc.logger.Info("Added {Project} to {Solution}", projectPath, slnPath)
	return true
}

// BuildProject builds projectPath with the project directory as working
// directory.
func (tc *Toolchain) BuildProject(ctx context.Context, projectPath string, extraArgs ...string) bool {
	projectPath = absPath(projectPath)
	args := append([]string{"build", projectPath}, extraArgs...)
	return tc.succeeded(ctx, projectDir(projectPath), args...)
}

// RunResult is the outcome of RunProject.
type RunResult struct {
	// Launched is false when the process could not be started at all.
	Launched bool
	// ExitCode is the program's exit code when Launched is set.
	ExitCode int
	// Err holds the launch or wait failure, if any.
	Err error
}

// OK reports whether the program ran and exited with code 0.
func (r RunResult) OK() bool {
	return r.Launched && r.Err == nil && r.ExitCode == 0
}

// LaunchFailed reports whether the program never started.
func (r RunResult) LaunchFailed() bool {
	return !r.Launched
}

// RunProject runs projectPath through "dotnet run" and waits for it to exit.
func (tc *Toolchain) RunProject(ctx context.Context, projectPath string, extraArgs ...string) RunResult {
	projectPath = absPath(projectPath)
	args := append([]string{"run", "--project", projectPath}, extraArgs...)
	res, err := tc.Exec(ctx, projectDir(projectPath), args...)
	if res == nil {
		if errors.Is(err, ErrNotFound) {
			tc.logger.Error("Cannot run {Project}: {Error}", projectPath, err)
		} else {
			tc.logger.Error("Failed to launch {Project}: {Error}", projectPath, err)
		}
		return RunResult{Err: err}
	}

	if res.ExitCode != 0 {
		tc.logger.Warn("{Project} exited with code {ExitCode}", projectPath, res.ExitCode)
	}
	return RunResult{Launched: true, ExitCode: res.ExitCode, Err: err}
}

// projectDir returns the directory holding projectPath, or "" (the current
// directory) when it does not exist so the toolchain can report the error.
func projectDir(projectPath string) string {
	dir := filepath.Dir(projectPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
