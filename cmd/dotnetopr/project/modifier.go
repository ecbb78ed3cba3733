package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dumbnessrf/DotNetOpr/observability"
)

// Operation names recorded in dotnetopr_project_mutations_total.
const (
	OpSetProperty         = "set_property"
	OpSetLanguageVersion  = "set_language_version"
	OpAddReferences       = "add_references"
	OpAddSourceFiles      = "add_source_files"
	OpAddPackageReference = "add_package_reference"
	OpSetPackageMetadata  = "set_package_metadata"
)

var errProjectMissing = errors.New("project file does not exist")

// PackageMetadata holds the optional asset metadata of a package reference.
// Empty fields are left untouched.
type PackageMetadata struct {
	ExcludeAssets string
	PrivateAssets string
}

// Modifier applies idempotent edits to project files on disk. Each operation
// loads the file, applies the edit and saves only when the document changed.
// Failures are logged and reported as false; nothing is returned as an error.
//
// A Modifier holds no project state. Edits to the same file must be
// serialized by the caller.
type Modifier struct {
	logger observability.Logger
}

// NewModifier creates a Modifier logging to logger. A nil logger discards output.
func NewModifier(logger observability.Logger) *Modifier {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Modifier{logger: logger}
}

// edit runs fn against the loaded project and saves when fn changed it.
func (m *Modifier) edit(path string, fn func(p *Project) error) (bool, error) {
	if !fileExists(path) {
		return false, errProjectMissing
	}
	proj, err := LoadProject(path)
	if err != nil {
		return false, err
	}
	if err := fn(proj); err != nil {
		return false, err
	}
	if !proj.Modified() {
		return false, nil
	}
	if err := proj.Save(); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Modifier) fail(op, path string, err error) bool {
	if errors.Is(err, errProjectMissing) {
		m.logger.Error("Project file {ProjectPath} does not exist", path)
	} else {
		m.logger.Error("{Operation} failed for {ProjectPath}: {Error}", op, path, err)
	}
	observability.RecordMutation(op, observability.MutationFailed)
	return false
}

func record(op string, changed bool) {
	if changed {
		observability.RecordMutation(op, observability.MutationChanged)
	} else {
		observability.RecordMutation(op, observability.MutationUnchanged)
	}
}

// SetProperty sets an MSBuild property in the first unconditioned property
// group. It returns true only when the file was rewritten.
func (m *Modifier) SetProperty(path, name, value string) bool {
	return m.setProperty(OpSetProperty, path, name, value)
}

func (m *Modifier) setProperty(op, path, name, value string) bool {
	if err := CheckPropertyName(name); err != nil {
		return m.fail(op, path, err)
	}

	changed, err := m.edit(path, func(p *Project) error {
		p.SetProperty(name, value)
		return nil
	})
	if err != nil {
		return m.fail(op, path, err)
	}

	record(op, changed)
	if changed {
		m.logger.Info("Set {Property} to {Value} in {ProjectPath}", name, value, path)
	} else {
		m.logger.Debug("{Property} already set to {Value} in {ProjectPath}", name, value, path)
	}
	return changed
}

// SetLanguageVersion sets the LangVersion property.
func (m *Modifier) SetLanguageVersion(path string, version LanguageVersion) bool {
	return m.setProperty(OpSetLanguageVersion, path, "LangVersion", version.String())
}

// AddReferences adds a Reference item with HintPath and Private metadata for
// every DLL that exists. Missing DLLs are skipped with a warning and
// duplicates are ignored. It returns true unless the project could not be
// loaded or saved.
func (m *Modifier) AddReferences(path string, copyLocal bool, dllPaths ...string) bool {
	if len(dllPaths) == 0 {
		return true
	}

	added := 0
	changed, err := m.edit(path, func(p *Project) error {
		for _, dll := range dllPaths {
			abs, err := filepath.Abs(dll)
			if err != nil || !fileExists(abs) {
				m.logger.Warn("Reference {Dll} not found, skipping", dll)
				continue
			}

			name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
			item, ok := p.AddItem(ItemReference, name)
			if !ok {
				m.logger.Debug("Reference {Reference} already present in {ProjectPath}", name, path)
				continue
			}
			item.SetMetadata("HintPath", abs)
			item.SetMetadata("Private", strconv.FormatBool(copyLocal))
			added++
			m.logger.Info("Added reference {Reference} ({HintPath})", name, abs)
		}
		return nil
	})
	if err != nil {
		return m.fail(OpAddReferences, path, err)
	}

	record(OpAddReferences, changed)
	m.logger.Debug("Added {Count} references to {ProjectPath}", added, path)
	return true
}

// AddSourceFiles copies files next to the project, registers each under the
// item type matching its extension and disables default compile items. An
// existing destination is only replaced when overwrite is set.
func (m *Modifier) AddSourceFiles(path string, overwrite bool, files ...string) bool {
	projectDir := filepath.Dir(path)

	changed, err := m.edit(path, func(p *Project) error {
		p.SetProperty("EnableDefaultCompileItems", "false")

		for _, file := range files {
			src, err := filepath.Abs(file)
			if err != nil || !fileExists(src) {
				m.logger.Warn("Source file {File} not found, skipping", file)
				continue
			}

			base := filepath.Base(src)
			dst, err := filepath.Abs(filepath.Join(projectDir, base))
			if err != nil {
				return err
			}
			if err := m.copySource(src, dst, overwrite); err != nil {
				return err
			}

			itemType := ItemTypeForExtension(filepath.Ext(base))
			existing := p.FindItemFunc(itemType, func(include string) bool {
				return strings.EqualFold(includeBase(include), base)
			})
			if existing != nil {
				m.logger.Debug("{ItemType} item {File} already present", string(itemType), base)
				continue
			}
			p.AddItem(itemType, base)
			m.logger.Info("Added {ItemType} item {File}", string(itemType), base)
		}
		return nil
	})
	if err != nil {
		return m.fail(OpAddSourceFiles, path, err)
	}

	record(OpAddSourceFiles, changed)
	return true
}

func (m *Modifier) copySource(src, dst string, overwrite bool) error {
	if src == dst {
		return nil
	}
	if fileExists(dst) && !overwrite {
		m.logger.Debug("{Destination} exists, not overwriting", dst)
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	m.logger.Debug("Copied {Source} to {Destination}", src, dst)
	return nil
}

// AddPackageReference adds a PackageReference. An existing reference to the
// same package is left as it is, including its version.
func (m *Modifier) AddPackageReference(path, id, version string) bool {
	if strings.TrimSpace(id) == "" {
		m.logger.Error("Package id must not be empty")
		observability.RecordMutation(OpAddPackageReference, observability.MutationFailed)
		return false
	}

	changed, err := m.edit(path, func(p *Project) error {
		item, added := p.AddItem(ItemPackageReference, id)
		if !added {
			m.logger.Info("Package {PackageId} already referenced in {ProjectPath}", id, path)
			return nil
		}
		if version != "" {
			item.SetMetadata("Version", version)
		}
		return nil
	})
	if err != nil {
		return m.fail(OpAddPackageReference, path, err)
	}

	record(OpAddPackageReference, changed)
	if changed {
		m.logger.Info("Added package {PackageId} {Version} to {ProjectPath}", id, version, path)
	}
	return true
}

// SetPackageMetadata upserts ExcludeAssets and PrivateAssets on an existing
// PackageReference. It fails when the package is not referenced.
func (m *Modifier) SetPackageMetadata(path, id string, md PackageMetadata) bool {
	changed, err := m.edit(path, func(p *Project) error {
		item, err := p.FindPackageReference(id)
		if err != nil {
			return err
		}
		if md.ExcludeAssets != "" {
			item.SetMetadata("ExcludeAssets", md.ExcludeAssets)
		}
		if md.PrivateAssets != "" {
			item.SetMetadata("PrivateAssets", md.PrivateAssets)
		}
		return nil
	})
	if err != nil {
		return m.fail(OpSetPackageMetadata, path, err)
	}

	record(OpSetPackageMetadata, changed)
	if changed {
		m.logger.Info("Updated metadata of package {PackageId} in {ProjectPath}", id, path)
	}
	return true
}

// Properties returns every property of the project, in document order.
func (m *Modifier) Properties(path string) ([]Property, error) {
	proj, err := LoadProject(path)
	if err != nil {
		return nil, err
	}
	return proj.Properties(), nil
}

// PackageReferences returns the package references of the project.
func (m *Modifier) PackageReferences(path string) ([]PackageReference, error) {
	proj, err := LoadProject(path)
	if err != nil {
		return nil, err
	}
	return proj.PackageReferences(), nil
}

// includeBase returns the file name of an include path written with either
// separator.
func includeBase(include string) string {
	include = strings.ReplaceAll(include, `\`, "/")
	if i := strings.LastIndexByte(include, '/'); i >= 0 {
		return include[i+1:]
	}
	return include
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
