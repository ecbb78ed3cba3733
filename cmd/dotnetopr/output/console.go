package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
)

// Verbosity levels, named after the dotnet CLI's -v values.
type Verbosity int

const (
	// VerbosityQuiet shows errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityMinimal shows errors, warnings and results
	VerbosityMinimal
	// VerbosityNormal also shows toolchain output and progress (default)
	VerbosityNormal
	// VerbosityDetailed shows above + per-item details
	VerbosityDetailed
	// VerbosityDiagnostic shows above + debug messages
	VerbosityDiagnostic
)

var verbosityNames = map[string]Verbosity{
	"q": VerbosityQuiet, "quiet": VerbosityQuiet,
	"m": VerbosityMinimal, "minimal": VerbosityMinimal,
	"n": VerbosityNormal, "normal": VerbosityNormal,
	"d": VerbosityDetailed, "detailed": VerbosityDetailed,
	"diag": VerbosityDiagnostic, "diagnostic": VerbosityDiagnostic,
}

// ParseVerbosity accepts q[uiet], m[inimal], n[ormal], d[etailed] and diag[nostic].
func ParseVerbosity(s string) (Verbosity, error) {
	if v, ok := verbosityNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return VerbosityNormal, fmt.Errorf("invalid verbosity %q (want quiet, minimal, normal, detailed or diagnostic)", s)
}

// Console provides output abstraction
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    IsColorEnabled(),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the writer used for regular output.
func (c *Console) Out() io.Writer {
	return c.out
}

// ErrOut returns the writer used for errors.
func (c *Console) ErrOut() io.Writer {
	return c.err
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

func (c *Console) write(w io.Writer, min Verbosity, col colorPrinter, format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < min {
		return
	}
	if c.colors && col != nil {
		col.Fprintf(w, format+"\n", a...)
	} else {
		fmt.Fprintf(w, format+"\n", a...)
	}
}

type colorPrinter interface {
	Fprintf(w io.Writer, format string, a ...any) (int, error)
}

// Println writes a line to output regardless of verbosity
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output regardless of verbosity
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	c.write(c.out, VerbosityMinimal, ColorSuccess, format, a...)
}

// Error writes error message (red) to the error stream
func (c *Console) Error(format string, a ...any) {
	c.write(c.err, VerbosityQuiet, ColorError, "Error: "+format, a...)
}

// Warning writes warning message (yellow) to the error stream
func (c *Console) Warning(format string, a ...any) {
	c.write(c.err, VerbosityMinimal, ColorWarning, "Warning: "+format, a...)
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	c.write(c.out, VerbosityNormal, ColorInfo, format, a...)
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	c.write(c.out, VerbosityDetailed, nil, format, a...)
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	c.write(c.out, VerbosityDiagnostic, ColorDebug, "[DEBUG] "+format, a...)
}

// ToolOutput echoes a line printed by the toolchain. Standard output is
// shown from normal verbosity up; standard error is always shown.
func (c *Console) ToolOutput(isStderr bool, line string) {
	if isStderr {
		c.write(c.err, VerbosityQuiet, nil, "%s", line)
		return
	}
	c.write(c.out, VerbosityNormal, nil, "%s", line)
}

// Table writes rows aligned under a bold header.
func (c *Console) Table(headers []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	header := strings.Join(headers, "\t")
	if c.colors {
		ColorHeader.Fprintln(tw, header)
	} else {
		fmt.Fprintln(tw, header)
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
