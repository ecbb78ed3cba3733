package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/dumbnessrf/DotNetOpr/frameworks"
	"github.com/dumbnessrf/DotNetOpr/observability"
)

type capturedLine struct {
	stream Stream
	line   string
}

type lineRecorder struct {
	mu    sync.Mutex
	lines []capturedLine
}

func (r *lineRecorder) handle(stream Stream, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, capturedLine{stream, line})
}

func (r *lineRecorder) stream(s Stream) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.lines {
		if l.stream == s {
			out = append(out, l.line)
		}
	}
	return out
}

func newFake(t *testing.T, opts ...Option) (*Toolchain, string) {
	t.Helper()
	exe, logPath := useFakeDotnet(t)
	all := append([]Option{exe, WithOutputEncoding(unicode.UTF8)}, opts...)
	return New(observability.NewNullLogger(), all...), logPath
}

func TestIsAvailable(t *testing.T) {
	tc, _ := newFake(t)
	assert.True(t, tc.IsAvailable(context.Background()))

	version, err := tc.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeSDKVersion, version)
}

func TestIsAvailable_NonZeroExit(t *testing.T) {
	tc, _ := newFake(t)
	t.Setenv(fakeVersionEnv, "145")

	assert.False(t, tc.IsAvailable(context.Background()))
	_, err := tc.Version(context.Background())
	assert.Error(t, err)
}

func TestIsAvailable_MissingExecutable(t *testing.T) {
	tc := New(nil, WithExecutable(filepath.Join(t.TempDir(), "dotnet-missing")))

	assert.False(t, tc.IsAvailable(context.Background()))

	_, err := tc.Exec(context.Background(), "", "--version")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProject(t *testing.T) {
	tc, logPath := newFake(t)
	out := filepath.Join(t.TempDir(), "Calc")

	ok := tc.CreateProject(context.Background(), ClassLib, out, frameworks.Net80, "--force")
	require.True(t, ok)
	assert.FileExists(t, filepath.Join(out, "Calc.csproj"))

	calls := invocations(t, logPath)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "\tnew classlib -o "+out+" -f net8.0 --force")
}

func TestCreateProject_UnspecifiedFramework(t *testing.T) {
	tc, logPath := newFake(t)
	out := filepath.Join(t.TempDir(), "Svc")

	require.True(t, tc.CreateProject(context.Background(), Worker, out, frameworks.Unspecified))

	calls := invocations(t, logPath)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "\tnew worker -o "+out)
	assert.NotContains(t, calls[0], "-f")
}

func TestCreateProject_FailsOnUnknownTemplate(t *testing.T) {
	rec := &lineRecorder{}
	tc, _ := newFake(t, WithLineHandler(rec.handle))

	ok := tc.CreateProject(context.Background(), Template(42), t.TempDir(), frameworks.Net80)
	assert.False(t, ok)
	assert.Equal(t, []string{"No templates or subcommands found matching: 'template(42)'."}, rec.stream(Stderr))
}

func TestCreateSolution(t *testing.T) {
	tc, logPath := newFake(t)
	dir := filepath.Join(t.TempDir(), "nested", "sln")
	slnPath := filepath.Join(dir, "Contoso.sln")

	require.True(t, tc.CreateSolution(context.Background(), slnPath))
	assert.FileExists(t, slnPath)

	calls := invocations(t, logPath)
	require.Len(t, calls, 1)
	assert.Equal(t, dir+"\tnew sln -n Contoso -o "+dir, calls[0])
}

func TestAddProjectToSolution(t *testing.T) {
	tc, logPath := newFake(t)
	dir := t.TempDir()
	slnPath := filepath.Join(dir, "All.sln")
	projPath := filepath.Join(dir, "App", "App.csproj")

	assert.False(t, tc.AddProjectToSolution(context.Background(), slnPath, projPath))
	assert.Empty(t, invocations(t, logPath))

	require.True(t, tc.CreateSolution(context.Background(), slnPath))
	require.True(t, tc.CreateProject(context.Background(), Console, filepath.Join(dir, "App"), frameworks.Unspecified))
	require.True(t, tc.AddProjectToSolution(context.Background(), slnPath, projPath))

	calls := invocations(t, logPath)
	require.Len(t, calls, 3)
	assert.Contains(t, calls[2], "\tsln "+slnPath+" add "+projPath)
}

func TestBuildProject(t *testing.T) {
	rec := &lineRecorder{}
	tc, logPath := newFake(t, WithLineHandler(rec.handle))
	dir := t.TempDir()
	require.True(t, tc.CreateProject(context.Background(), Console, filepath.Join(dir, "App"), frameworks.Net80))
	projPath := filepath.Join(dir, "App", "App.csproj")

	require.True(t, tc.BuildProject(context.Background(), projPath, "-c", "Release"))
	assert.Contains(t, rec.stream(Stdout), "Build succeeded.")

	calls := invocations(t, logPath)
	require.Len(t, calls, 2)
	assert.Equal(t, filepath.Dir(projPath)+"\tbuild "+projPath+" -c Release", calls[1])
}

func TestBuildProject_MissingProject(t *testing.T) {
	rec := &lineRecorder{}
	tc, _ := newFake(t, WithLineHandler(rec.handle))
	projPath := filepath.Join(t.TempDir(), "Nope", "Nope.csproj")

	assert.False(t, tc.BuildProject(context.Background(), projPath))
	assert.Equal(t, []string{
		"MSBUILD : error MSB1009: Project file does not exist.",
		"Switch: " + projPath,
	}, rec.stream(Stderr))
}

func TestRunProject(t *testing.T) {
	tc, _ := newFake(t)
	projPath := filepath.Join(t.TempDir(), "App.csproj")
	require.NoError(t, os.WriteFile(projPath, []byte("<Project/>"), 0644))

	res, err := tc.Exec(context.Background(), filepath.Dir(projPath), "run", "--project", projPath, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{fakeGreeting, "a,b"}, res.Stdout)

	run := tc.RunProject(context.Background(), projPath, "a", "b")
	assert.True(t, run.OK())
	assert.True(t, run.Launched)
	assert.Equal(t, 0, run.ExitCode)
}

func TestRunProject_NonZeroExit(t *testing.T) {
	tc, _ := newFake(t)
	t.Setenv(fakeRunExitEnv, "3")

	run := tc.RunProject(context.Background(), filepath.Join(t.TempDir(), "App.csproj"))
	assert.False(t, run.OK())
	assert.False(t, run.LaunchFailed())
	assert.Equal(t, 3, run.ExitCode)
	assert.NoError(t, run.Err)
}

func TestRunProject_LaunchFailure(t *testing.T) {
	tc := New(nil, WithExecutable(filepath.Join(t.TempDir(), "dotnet-missing")))

	run := tc.RunProject(context.Background(), filepath.Join(t.TempDir(), "App.csproj"))
	assert.False(t, run.OK())
	assert.True(t, run.LaunchFailed())
	assert.ErrorIs(t, run.Err, ErrNotFound)
}

func TestExec_DecodesOutputEncoding(t *testing.T) {
	tc, _ := newFake(t, WithOutputEncoding(simplifiedchinese.GBK))

	res, err := tc.Exec(context.Background(), "", "gbk")
	require.NoError(t, err)
	assert.Equal(t, []string{fakeGBKGreeting}, res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestExec_ContextCancellation(t *testing.T) {
	tc, _ := newFake(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := tc.Exec(ctx, "", "sleep")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, res)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExec_RecordsMetrics(t *testing.T) {
	tc, _ := newFake(t)

	before, err := observability.GetCounterValue(observability.ToolchainInvocationsTotal, "build", resultFailure)
	require.NoError(t, err)

	tc.BuildProject(context.Background(), filepath.Join(t.TempDir(), "Missing.csproj"))

	after, err := observability.GetCounterValue(observability.ToolchainInvocationsTotal, "build", resultFailure)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "version", subcommand([]string{"--version"}))
	assert.Equal(t, "new", subcommand([]string{"new", "sln"}))
	assert.Equal(t, "build", subcommand([]string{"-v", "build"}))
	assert.Equal(t, "dotnet", subcommand(nil))
}
