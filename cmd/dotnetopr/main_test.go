package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// When DOTNETOPR_FAKE_DOTNET is set the test binary impersonates dotnet, so
// the CLI under test can be pointed at it with --toolchain.
func TestMain(m *testing.M) {
	if os.Getenv("DOTNETOPR_FAKE_DOTNET") == "1" {
		os.Exit(fakeDotnet(os.Args[1:]))
	}
	os.Exit(m.Run())
}

const fakeProject = `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>%s</TargetFramework>
    <Nullable>enable</Nullable>
  </PropertyGroup>

</Project>
`

const fakeSolution = `
Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
Global
EndGlobal
`

func fakeDotnet(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: dotnet [command]")
		return 1
	}

	switch args[0] {
	case "--version":
		fmt.Println("8.0.403")
		return 0

	case "new":
		flags := fakeFlags(args[2:])
		if args[1] == "sln" {
			path := filepath.Join(flags["-o"], flags["-n"]+".sln")
			if err := os.WriteFile(path, []byte(fakeSolution), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Printf("The template \"Solution File\" was created successfully.\n")
			return 0
		}
		dir := flags["-o"]
		name := flags["-n"]
		if name == "" {
			name = filepath.Base(dir)
		}
		framework := flags["-f"]
		if framework == "" {
			framework = "net8.0"
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		content := fmt.Sprintf(fakeProject, framework)
		if err := os.WriteFile(filepath.Join(dir, name+".csproj"), []byte(content), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("The template \"%s\" was created successfully.\n", args[1])
		return 0

	case "sln":
		sln, proj := args[1], args[3]
		data, err := os.ReadFile(sln)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		rel, err := filepath.Rel(filepath.Dir(sln), proj)
		if err != nil {
			rel = proj
		}
		name := strings.TrimSuffix(filepath.Base(proj), filepath.Ext(proj))
		entry := fmt.Sprintf("Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"%s\", \"%s\", \"{%s}\"\nEndProject\n",
			name, strings.ReplaceAll(rel, "/", `\`), strings.ToUpper(uuid.NewString()))
		updated := strings.Replace(string(data), "Global\n", entry+"Global\n", 1)
		if err := os.WriteFile(sln, []byte(updated), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Project `%s` added to the solution.\n", rel)
		return 0

	case "build":
		if _, err := os.Stat(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "MSBUILD : error MSB1009: Project file does not exist.\n")
			return 1
		}
		fmt.Println("Build succeeded.")
		return 0

	case "run":
		fmt.Println("Hello, World!")
		for i, a := range args {
			if a == "--" {
				fmt.Printf("args: %s\n", strings.Join(args[i+1:], " "))
				break
			}
		}
		code, _ := strconv.Atoi(os.Getenv("DOTNETOPR_FAKE_RUN_EXIT"))
		return code
	}

	fmt.Fprintf(os.Stderr, "Could not execute because the specified command or file was not found: %s\n", args[0])
	return 1
}

// fakeFlags reads "-x value" pairs.
func fakeFlags(args []string) map[string]string {
	flags := map[string]string{}
	for i := 0; i+1 < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags[args[i]] = args[i+1]
			i++
		}
	}
	return flags
}
