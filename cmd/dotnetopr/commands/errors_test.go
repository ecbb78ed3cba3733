package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVerbFirstPattern(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"add", "package", "Serilog"}, "dotnetopr package add"},
		{[]string{"Add", "Reference"}, "dotnetopr reference add"},
		{[]string{"set", "property", "x", "y"}, "dotnetopr property set"},
		{[]string{"new", "sln"}, "dotnetopr sln new"},
		{[]string{"add"}, ""},
		{[]string{"package", "add"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectVerbFirstPattern(tt.args), "%v", tt.args)
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
}

func TestSplitProjectArgs(t *testing.T) {
	parse := func(args ...string) (string, []string, error) {
		var target string
		var extra []string
		var splitErr error
		cmd := &cobra.Command{
			Use: "build",
			RunE: func(cmd *cobra.Command, args []string) error {
				target, extra, splitErr = splitProjectArgs(cmd, args)
				return nil
			},
		}
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return target, extra, splitErr
	}

	target, extra, err := parse("App", "--", "-c", "Release")
	require.NoError(t, err)
	assert.Equal(t, "App", target)
	assert.Equal(t, []string{"-c", "Release"}, extra)

	target, extra, err = parse("--", "x")
	require.NoError(t, err)
	assert.Empty(t, target)
	assert.Equal(t, []string{"x"}, extra)

	target, extra, err = parse()
	require.NoError(t, err)
	assert.Empty(t, target)
	assert.Empty(t, extra)

	_, _, err = parse("A", "B")
	assert.Error(t, err)
}
