package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consoleProject = `<?xml version="1.0" encoding="utf-8"?>
<Project Sdk="Microsoft.NET.Sdk">
  <!-- app settings -->
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
  <PropertyGroup Condition="'$(Configuration)' == 'Debug'">
    <DefineConstants>DEBUG;TRACE</DefineConstants>
  </PropertyGroup>
</Project>
`

func writeProject(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "App.csproj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadProject_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadProject(filepath.Join(dir, "missing.csproj"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read project file")

	bad := filepath.Join(dir, "bad.csproj")
	require.NoError(t, os.WriteFile(bad, []byte("<Project Sdk=></Project>"), 0644))
	_, err = LoadProject(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse project XML")

	wrongRoot := filepath.Join(dir, "wrong.csproj")
	require.NoError(t, os.WriteFile(wrongRoot, []byte("<Solution/>"), 0644))
	_, err = LoadProject(wrongRoot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected <Project>")
}

func TestLoadProject_ReadsGroups(t *testing.T) {
	path := writeProject(t, t.TempDir(), consoleProject)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	assert.True(t, proj.IsSDKStyle())
	groups := proj.PropertyGroups()
	require.Len(t, groups, 2)
	assert.Empty(t, groups[0].Condition())
	assert.Equal(t, "'$(Configuration)' == 'Debug'", groups[1].Condition())

	want := []Property{
		{Name: "OutputType", Value: "Exe"},
		{Name: "TargetFramework", Value: "net8.0"},
	}
	if diff := cmp.Diff(want, groups[0].Properties()); diff != "" {
		t.Errorf("Properties() mismatch (-want +got):\n%s", diff)
	}

	v, ok := groups[0].Property("outputtype")
	assert.True(t, ok)
	assert.Equal(t, "Exe", v)
	assert.Equal(t, []string{"net8.0"}, proj.TargetFrameworks())
	assert.Empty(t, proj.ItemGroups())
}

func TestTargetFrameworks_Multiple(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFrameworks>net8.0; net48;</TargetFrameworks>
  </PropertyGroup>
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"net8.0", "net48"}, proj.TargetFrameworks())
}

func TestSave_NoOpWhenUnmodified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.csproj")

	proj, err := parseProject(path, []byte(consoleProject))
	require.NoError(t, err)
	assert.False(t, proj.SetProperty("OutputType", "Exe"))
	assert.False(t, proj.Modified())

	require.NoError(t, proj.Save())
	assert.NoFileExists(t, path)
}

func TestSave_PreservesBOMAndFormatting(t *testing.T) {
	path := writeProject(t, t.TempDir(), string(utf8BOM)+consoleProject)

	proj, err := LoadProject(path)
	require.NoError(t, err)
	item, added := proj.AddItem(ItemPackageReference, "Newtonsoft.Json")
	require.True(t, added)
	item.SetMetadata("Version", "13.0.3")
	require.NoError(t, proj.Save())

	out := readFile(t, path)
	assert.True(t, strings.HasPrefix(out, string(utf8BOM)+`<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, out, "<!-- app settings -->")
	assert.Contains(t, out, `<PropertyGroup Condition="'$(Configuration)' == 'Debug'">
    <DefineConstants>DEBUG;TRACE</DefineConstants>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.3" />
  </ItemGroup>
</Project>`)
}

func TestSave_PreservesCRLF(t *testing.T) {
	content := strings.ReplaceAll(consoleProject, "\n", "\r\n")
	path := writeProject(t, t.TempDir(), content)

	proj, err := LoadProject(path)
	require.NoError(t, err)
	require.True(t, proj.SetProperty("Nullable", "enable"))
	require.NoError(t, proj.Save())

	out := readFile(t, path)
	assert.Contains(t, out, "<TargetFramework>net8.0</TargetFramework>\r\n    <Nullable>enable</Nullable>\r\n  </PropertyGroup>")
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestSetProperty_EmptyProject(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project Sdk="Microsoft.NET.Sdk">
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)
	require.True(t, proj.SetProperty("LangVersion", "latest"))
	require.NoError(t, proj.Save())

	assert.Equal(t, `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <LangVersion>latest</LangVersion>
  </PropertyGroup>
</Project>`, readFile(t, path))
}

func TestSetProperty_NewGroupGoesFirst(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project>
  <PropertyGroup Condition="'$(OS)' == 'Windows_NT'">
    <DefineConstants>WINDOWS</DefineConstants>
  </PropertyGroup>
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)
	require.True(t, proj.SetProperty("Nullable", "enable"))

	groups := proj.PropertyGroups()
	require.Len(t, groups, 2)
	assert.Equal(t, "'$(OS)' == 'Windows_NT'", groups[1].Condition())
	v, ok := groups[1].Property("Nullable")
	assert.False(t, ok)
	assert.Empty(t, v)
	v, ok = groups[0].Property("Nullable")
	assert.True(t, ok)
	assert.Equal(t, "enable", v)
}

func TestAddItem_UsesGroupHoldingSameType(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="Program.cs" />
  </ItemGroup>
  <ItemGroup>
    <reference Include="System.Drawing" />
  </ItemGroup>
  <Target Name="Stamp" />
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	_, added := proj.AddItem(ItemReference, "System.Xml")
	require.True(t, added)
	_, added = proj.AddItem(ItemReference, "SYSTEM.DRAWING")
	assert.False(t, added)
	_, added = proj.AddItem(ItemNone, "app.config")
	require.True(t, added)

	groups := proj.ItemGroups()
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Items(), 1)
	assert.Len(t, groups[1].Items(), 2)
	assert.Equal(t, "System.Xml", groups[1].Items()[1].Include())
	assert.Equal(t, "app.config", groups[2].Items()[0].Include())

	out, err := proj.Bytes()
	require.NoError(t, err)
	// The new group lands after the last item group, ahead of the target.
	assert.Contains(t, string(out), `  <ItemGroup>
    <None Include="app.config" />
  </ItemGroup>
  <Target Name="Stamp" />
</Project>`)
}

func TestItemMetadata_BothForms(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Serilog" Version="3.1.1">
      <PrivateAssets>all</PrivateAssets>
    </PackageReference>
    <Reference Include="Legacy">
      <HintPath>lib\Legacy.dll</HintPath>
    </Reference>
  </ItemGroup>
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	pkg, err := proj.FindPackageReference("serilog")
	require.NoError(t, err)
	want := []Metadata{
		{Name: "Version", Value: "3.1.1"},
		{Name: "PrivateAssets", Value: "all"},
	}
	if diff := cmp.Diff(want, pkg.Metadata()); diff != "" {
		t.Errorf("Metadata() mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, pkg.SetMetadata("privateassets", "all"))
	assert.False(t, proj.Modified())
	assert.True(t, pkg.SetMetadata("PrivateAssets", "none"))
	assert.True(t, pkg.SetMetadata("ExcludeAssets", "runtime"))

	ref := proj.FindItem(ItemReference, "legacy")
	require.NotNil(t, ref)
	assert.True(t, ref.SetMetadata("Private", "false"))

	out, err := proj.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `<PackageReference Include="Serilog" Version="3.1.1" ExcludeAssets="runtime">
      <PrivateAssets>none</PrivateAssets>
    </PackageReference>`)
	assert.Contains(t, string(out), `<Reference Include="Legacy">
      <HintPath>lib\Legacy.dll</HintPath>
      <Private>false</Private>
    </Reference>`)
}

func TestPackageReferences(t *testing.T) {
	path := writeProject(t, t.TempDir(), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.3" />
  </ItemGroup>
  <ItemGroup Condition="'$(TargetFramework)' == 'net48'">
    <PackageReference Include="System.Memory" Version="4.5.5" PrivateAssets="all" />
  </ItemGroup>
</Project>`)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	want := []PackageReference{
		{ID: "Newtonsoft.Json", Version: "13.0.3"},
		{ID: "System.Memory", Version: "4.5.5", PrivateAssets: "all", Condition: "'$(TargetFramework)' == 'net48'"},
	}
	if diff := cmp.Diff(want, proj.PackageReferences()); diff != "" {
		t.Errorf("PackageReferences() mismatch (-want +got):\n%s", diff)
	}

	_, err = proj.FindPackageReference("Missing")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestFindProjectFile_Single(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := filepath.Join(tempDir, "Test.csproj")

	err := os.WriteFile(projectPath, []byte("<Project/>"), 0644)
	require.NoError(t, err)

	found, err := FindProjectFile(tempDir)
	require.NoError(t, err)
	assert.Equal(t, projectPath, found)
}

func TestFindProjectFile_FSharp(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := filepath.Join(tempDir, "Test.fsproj")

	err := os.WriteFile(projectPath, []byte("<Project/>"), 0644)
	require.NoError(t, err)

	found, err := FindProjectFile(tempDir)
	require.NoError(t, err)
	assert.Equal(t, projectPath, found)
}

func TestFindProjectFile_Multiple(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "A.csproj"), []byte("<Project/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "B.vbproj"), []byte("<Project/>"), 0644))

	_, err := FindProjectFile(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple project files")
}

func TestFindProjectFile_None(t *testing.T) {
	_, err := FindProjectFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no project file found")
}

func TestResolveProjectPath(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := writeProject(t, tempDir, "<Project/>")

	got, err := ResolveProjectPath(tempDir)
	require.NoError(t, err)
	assert.Equal(t, projectPath, got)

	got, err = ResolveProjectPath(projectPath)
	require.NoError(t, err)
	assert.Equal(t, projectPath, got)

	_, err = ResolveProjectPath(filepath.Join(tempDir, "nope"))
	assert.Error(t, err)
}

func TestCheckPropertyName(t *testing.T) {
	for _, name := range []string{"LangVersion", "_Private", "My.Setting", "Build-Flag2"} {
		assert.NoError(t, CheckPropertyName(name), name)
	}

	assert.ErrorContains(t, CheckPropertyName(""), "must not be empty")
	assert.ErrorContains(t, CheckPropertyName("  "), "must not be empty")
	for _, name := range []string{"Foo Bar", "9Lives", "-Flag", "A&B", "x:y"} {
		assert.ErrorContains(t, CheckPropertyName(name), "invalid property name", name)
	}
}

func TestSetProperty_InvalidNameLeavesDocument(t *testing.T) {
	proj, err := parseProject("App.csproj", []byte(consoleProject))
	require.NoError(t, err)

	assert.False(t, proj.SetProperty("Foo Bar", "x"))
	assert.False(t, proj.Modified())
	out, err := proj.Bytes()
	require.NoError(t, err)
	assert.Equal(t, consoleProject, string(out))
}

func TestItemTypeForExtension(t *testing.T) {
	tests := map[string]ItemType{
		".cs":      ItemCompile,
		".CS":      ItemCompile,
		".vb":      ItemCompile,
		".fs":      ItemCompile,
		".resx":    ItemEmbeddedResource,
		".config":  ItemNone,
		".json":    ItemNone,
		".txt":     ItemNone,
		".xml":     ItemNone,
		"":         ItemNone,
		".unknown": ItemNone,
	}
	for ext, want := range tests {
		assert.Equal(t, want, ItemTypeForExtension(ext), "extension %q", ext)
	}
}

func TestLanguageVersion(t *testing.T) {
	assert.Equal(t, "latest", LangLatest.String())
	assert.Equal(t, "preview", LangPreview.String())
	assert.Equal(t, "3.0", CSharp3.String())
	assert.Equal(t, "13.0", CSharp13.String())
	assert.Equal(t, "latest", LanguageVersion(99).String())

	for in, want := range map[string]LanguageVersion{
		"latest":   LangLatest,
		"Preview":  LangPreview,
		"12":       CSharp12,
		"7.0":      CSharp7,
		"csharp10": CSharp10,
	} {
		got, err := ParseLanguageVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLanguageVersion("7.3")
	assert.Error(t, err)
}
