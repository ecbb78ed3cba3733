package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// When fakeDotnetEnv is set the test binary behaves as a minimal dotnet CLI.
const (
	fakeDotnetEnv   = "DOTNETOPR_FAKE_DOTNET"
	fakeLogEnv      = "DOTNETOPR_FAKE_LOG"
	fakeRunExitEnv  = "DOTNETOPR_FAKE_RUN_EXIT"
	fakeVersionEnv  = "DOTNETOPR_FAKE_VERSION_EXIT"
	fakeSDKVersion  = "8.0.404"
	fakeGreeting    = "Hello, World!"
	fakeGBKGreeting = "你好，世界"
)

func TestMain(m *testing.M) {
	if os.Getenv(fakeDotnetEnv) == "1" {
		os.Exit(fakeDotnet(os.Args[1:]))
	}
	goleak.VerifyTestMain(m)
}

// useFakeDotnet points a toolchain at the test binary and returns the file
// the fake appends each invocation to.
func useFakeDotnet(t *testing.T) (Option, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv(fakeDotnetEnv, "1")
	t.Setenv(fakeLogEnv, logPath)
	return WithExecutable(os.Args[0]), logPath
}

// invocations returns the recorded "cwd<TAB>args" lines.
func invocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read invocation log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func fakeDotnet(args []string) int {
	if logPath := os.Getenv(fakeLogEnv); logPath != "" {
		cwd, _ := os.Getwd()
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%s\t%s\n", cwd, strings.Join(args, " "))
			f.Close()
		}
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: dotnet [options] [command]")
		return 1
	}

	switch args[0] {
	case "--version":
		if code := os.Getenv(fakeVersionEnv); code != "" {
			n, _ := strconv.Atoi(code)
			return n
		}
		fmt.Println(fakeSDKVersion)
		return 0
	case "new":
		return fakeNew(args[1:])
	case "sln":
		if len(args) < 4 || args[2] != "add" {
			fmt.Fprintln(os.Stderr, "Required command was not provided.")
			return 1
		}
		for _, p := range []string{args[1], args[3]} {
			if _, err := os.Stat(p); err != nil {
				fmt.Fprintf(os.Stderr, "Could not find project or directory `%s`.\n", p)
				return 1
			}
		}
		fmt.Printf("Project `%s` added to the solution.\n", args[3])
		return 0
	case "build":
		if len(args) < 2 {
			return 1
		}
		if _, err := os.Stat(args[1]); err != nil {
			fmt.Println("MSBuild version 17.8.3+195e7f5a3 for .NET")
			fmt.Fprintf(os.Stderr, "MSBUILD : error MSB1009: Project file does not exist.\r\nSwitch: %s\r\n", args[1])
			return 1
		}
		fmt.Println("Build succeeded.")
		fmt.Println("    0 Warning(s)")
		fmt.Println("    0 Error(s)")
		return 0
	case "run":
		if code := os.Getenv(fakeRunExitEnv); code != "" {
			n, _ := strconv.Atoi(code)
			fmt.Fprintln(os.Stderr, "Unhandled exception.")
			return n
		}
		fmt.Println(fakeGreeting)
		if len(args) > 3 {
			fmt.Println(strings.Join(args[3:], ","))
		}
		return 0
	case "gbk":
		out, _ := simplifiedchinese.GBK.NewEncoder().String(fakeGBKGreeting)
		fmt.Print(out + "\r\n")
		return 0
	case "sleep":
		time.Sleep(30 * time.Second)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Could not execute because the specified command or file was not found: %s\n", args[0])
		return 1
	}
}

func fakeNew(args []string) int {
	if len(args) == 0 {
		return 1
	}
	flags := map[string]string{}
	for i := 1; i+1 < len(args); i += 2 {
		flags[args[i]] = args[i+1]
	}

	if args[0] == "sln" {
		name, dir := flags["-n"], flags["-o"]
		if err := os.WriteFile(filepath.Join(dir, name+".sln"), []byte("Microsoft Visual Studio Solution File, Format Version 12.00\n"), 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(`The template "Solution File" was created successfully.`)
		return 0
	}

	if _, err := ParseTemplate(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "No templates or subcommands found matching: '%s'.\n", args[0])
		return 103
	}
	dir := flags["-o"]
	tfm := flags["-f"]
	if tfm == "" {
		tfm = "net8.0"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	project := fmt.Sprintf("<Project Sdk=\"Microsoft.NET.Sdk\">\n  <PropertyGroup>\n    <TargetFramework>%s</TargetFramework>\n  </PropertyGroup>\n</Project>\n", tfm)
	if err := os.WriteFile(filepath.Join(dir, filepath.Base(dir)+".csproj"), []byte(project), 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("The template \"%s\" was created successfully.\n", args[0])
	return 0
}
