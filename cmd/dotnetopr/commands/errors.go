package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code back to main without an error
// message, for example the exit code of a program started by "run".
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// errFailed reports a mutation or toolchain operation that returned false.
// The cause has already been logged.
func errFailed(format string, a ...any) error {
	return fmt.Errorf(format+" failed (see log for details)", a...)
}

// Verb-first patterns that should be detected and rejected
var verbFirstPatterns = map[string]string{
	"add package":     "dotnetopr package add",
	"list package":    "dotnetopr package list",
	"list packages":   "dotnetopr package list",
	"set package":     "dotnetopr package set",
	"add reference":   "dotnetopr reference add",
	"add references":  "dotnetopr reference add",
	"add file":        "dotnetopr file add",
	"add files":       "dotnetopr file add",
	"set property":    "dotnetopr property set",
	"list property":   "dotnetopr property list",
	"list properties": "dotnetopr property list",
	"new sln":         "dotnetopr sln new",
	"new solution":    "dotnetopr sln new",
	"add project":     "dotnetopr sln add",
	"list projects":   "dotnetopr sln list",
	"set langversion": "dotnetopr property langversion",
	"show config":     "dotnetopr config show",
}

// detectVerbFirstPattern checks whether args look like verb-first and
// suggests the noun-first form.
func detectVerbFirstPattern(args []string) string {
	if len(args) < 2 {
		return ""
	}
	pattern := strings.ToLower(args[0] + " " + args[1])
	return verbFirstPatterns[pattern]
}

// HandleUnknownCommand provides suggestions for unknown commands
func HandleUnknownCommand(cmd *cobra.Command, args []string) error {
	if suggestion := detectVerbFirstPattern(args); suggestion != "" {
		return fmt.Errorf("the verb-first form is not supported. Try: %s", suggestion)
	}

	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += "\n\nDid you mean this?\n\t" + strings.Join(suggestions, "\n\t")
	}
	return fmt.Errorf("%s", msg)
}
