package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/pkgversion"
	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/project"
)

// NewPackageCommand creates the parent "package" command with subcommands
func NewPackageCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Manage package references",
		Long: `Manage NuGet package references in .NET project files.

Packages are only written to the project file; nothing is downloaded or
restored until the project is built.`,
		Example: `  # Add a package
  dotnetopr package add ./App.csproj Newtonsoft.Json --version 13.0.3

  # Keep an analyzer out of the output
  dotnetopr package set ./App.csproj StyleCop.Analyzers --private-assets all

  # List packages in a project
  dotnetopr package list ./App.csproj --format json`,
		// Parent commands have no Run function - they are containers only
	}

	cmd.AddCommand(
		newPackageAddCommand(rt),
		newPackageSetCommand(rt),
		newPackageListCommand(rt),
	)

	return cmd
}

func newPackageAddCommand(rt *Runtime) *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "add <PROJECT> <PACKAGE_ID>",
		Short: "Add a package reference",
		Long: `Add a PackageReference. A package that is already referenced is left
unchanged, including its version.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			if version != "" {
				if _, err := pkgversion.ParseSpec(version); err != nil {
					return fmt.Errorf("invalid package version '%s': %w", version, err)
				}
			}
			if !rt.Modifier.AddPackageReference(projectPath, args[1], version) {
				return errFailed("adding package %s to %s", args[1], projectPath)
			}
			rt.Console.Success("Package %s is referenced by %s", args[1], projectPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "The version of the package to add: exact (13.0.3), floating (13.*) or a range ([13.0,14.0))")

	return cmd
}

func newPackageSetCommand(rt *Runtime) *cobra.Command {
	var md project.PackageMetadata

	cmd := &cobra.Command{
		Use:   "set <PROJECT> <PACKAGE_ID>",
		Short: "Set asset metadata on a package reference",
		Long: `Set ExcludeAssets and PrivateAssets on an existing package reference.
Values that are not given are left unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if md.ExcludeAssets == "" && md.PrivateAssets == "" {
				return errors.New("at least one of --exclude-assets or --private-assets is required")
			}
			projectPath, err := resolveProject(args[0])
			if err != nil {
				return err
			}
			if !rt.Modifier.SetPackageMetadata(projectPath, args[1], md) {
				return errFailed("updating package %s in %s", args[1], projectPath)
			}
			rt.Console.Success("Updated package %s in %s", args[1], projectPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&md.ExcludeAssets, "exclude-assets", "", "Assets to exclude, e.g. runtime or \"compile;runtime\"")
	cmd.Flags().StringVar(&md.PrivateAssets, "private-assets", "", "Assets that do not flow to consumers, e.g. all")

	return cmd
}

func newPackageListCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List package references in a project file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			projectPath, err := resolveProject(firstArg(args))
			if err != nil {
				return err
			}
			proj, err := project.LoadProject(projectPath)
			if err != nil {
				return err
			}
			refs := proj.PackageReferences()

			if format == "json" {
				absPath, err := filepath.Abs(projectPath)
				if err != nil {
					absPath = projectPath
				}
				out := output.NewPackageListOutput(absPath, proj.TargetFrameworks(), start)
				for _, ref := range refs {
					out.Packages = append(out.Packages, output.PackageEntry{
						ID:            ref.ID,
						Version:       ref.Version,
						ExcludeAssets: ref.ExcludeAssets,
						PrivateAssets: ref.PrivateAssets,
						Condition:     ref.Condition,
					})
				}
				out.ElapsedMs = output.MeasureElapsed(start)
				return output.WriteJSON(rt.Console.Out(), out)
			}

			rt.Console.Println(fmt.Sprintf("Project '%s' has the following package references:", filepath.Base(projectPath)))
			if len(refs) == 0 {
				rt.Console.Println("   [No package references found]")
				return nil
			}
			rows := make([][]string, 0, len(refs))
			for _, ref := range refs {
				rows = append(rows, []string{ref.ID, ref.Version, ref.ExcludeAssets, ref.PrivateAssets})
			}
			rt.Console.Table([]string{"Package", "Version", "ExcludeAssets", "PrivateAssets"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "console", "Output format: console or json")

	return cmd
}
