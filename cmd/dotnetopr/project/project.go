// Package project loads, edits and saves MSBuild project files (.csproj,
// .fsproj, .vbproj) while leaving untouched content as it was written.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrPackageNotFound is returned when a PackageReference lookup has no match.
var ErrPackageNotFound = errors.New("package reference not found")

// propertyNamePattern is the MSBuild property name grammar.
var propertyNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// CheckPropertyName returns an error unless name can be written as an
// MSBuild property element.
func CheckPropertyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("property name must not be empty")
	}
	if !propertyNamePattern.MatchString(name) {
		return fmt.Errorf("invalid property name %q", name)
	}
	return nil
}

// projectExtensions are the project file extensions FindProjectFile looks for.
var projectExtensions = []string{".csproj", ".fsproj", ".vbproj"}

// Project is a loaded project file.
type Project struct {
	Path string

	doc      *etree.Document
	root     *etree.Element
	bom      bool
	crlf     bool
	modified bool

	source map[*etree.Element]*sourceTag
}

// LoadProject loads and parses a project file from the given path.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return parseProject(path, data)
}

func parseProject(path string, data []byte) (*Project, error) {
	proj := &Project{Path: path}
	if bytes.HasPrefix(data, utf8BOM) {
		proj.bom = true
		data = data[len(utf8BOM):]
	}
	proj.crlf = bytes.Contains(data, []byte("\r\n"))
	if proj.crlf {
		data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	}
	data, tags := scanMarkup(data)

	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse project XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("failed to parse project XML: no root element")
	}
	if root.Tag != elemProject {
		return nil, fmt.Errorf("failed to parse project XML: root element is <%s>, expected <%s>", root.Tag, elemProject)
	}

	proj.doc = doc
	proj.root = root
	proj.indexSourceTags(tags)
	return proj, nil
}

// Modified reports whether the in-memory document differs from the file.
func (p *Project) Modified() bool {
	return p.modified
}

// Save writes the project back to Path. It does nothing when the project is
// unmodified. A BOM present on load is written back, as are CRLF line endings.
func (p *Project) Save() error {
	if !p.modified {
		return nil
	}

	out, err := p.Bytes()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(p.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(p.Path, out, mode); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	p.modified = false
	return nil
}

// Bytes renders the document as it would be saved.
func (p *Project) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if p.bom {
		buf.Write(utf8BOM)
	}
	p.writeTokens(&buf, p.doc.Child)

	out := bytes.ReplaceAll(buf.Bytes(), []byte(refMark), []byte("&"))
	if p.crlf {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out, nil
}

// IsSDKStyle returns true if this is an SDK-style project.
func (p *Project) IsSDKStyle() bool {
	return attrValue(p.root, attrSdk) != ""
}

// PropertyGroups returns the top-level property groups in document order.
func (p *Project) PropertyGroups() []*PropertyGroup {
	els := childrenFold(p.root, elemPropertyGroup)
	groups := make([]*PropertyGroup, 0, len(els))
	for _, el := range els {
		groups = append(groups, &PropertyGroup{el: el})
	}
	return groups
}

// ItemGroups returns the top-level item groups in document order.
func (p *Project) ItemGroups() []*ItemGroup {
	els := childrenFold(p.root, elemItemGroup)
	groups := make([]*ItemGroup, 0, len(els))
	for _, el := range els {
		groups = append(groups, &ItemGroup{el: el, project: p})
	}
	return groups
}

// Property returns the first value of name across all property groups.
func (p *Project) Property(name string) (string, bool) {
	for _, g := range p.PropertyGroups() {
		if v, ok := g.Property(name); ok {
			return v, true
		}
	}
	return "", false
}

// Properties returns every property of every group, in document order.
func (p *Project) Properties() []Property {
	var props []Property
	for _, g := range p.PropertyGroups() {
		props = append(props, g.Properties()...)
	}
	return props
}

// TargetFrameworks returns the monikers from TargetFramework or the
// semicolon separated TargetFrameworks property.
func (p *Project) TargetFrameworks() []string {
	if v, ok := p.Property("TargetFrameworks"); ok && v != "" {
		var out []string
		for _, tfm := range strings.Split(v, ";") {
			if tfm = strings.TrimSpace(tfm); tfm != "" {
				out = append(out, tfm)
			}
		}
		return out
	}
	if v, ok := p.Property("TargetFramework"); ok && v != "" {
		return []string{v}
	}
	return nil
}

// SetProperty sets name to value in the first unconditioned property group,
// creating the group when the project has none. It reports whether the
// document changed. Invalid names leave the document untouched.
func (p *Project) SetProperty(name, value string) bool {
	if CheckPropertyName(name) != nil {
		return false
	}
	group := p.unconditionedPropertyGroup()
	if group == nil {
		group = etree.NewElement(elemPropertyGroup)
		p.insertPropertyGroup(group)
		p.modified = true
	}

	if el := childFold(group, name); el != nil {
		if textOf(el) == value {
			return false
		}
		el.SetText(value)
		p.modified = true
		return true
	}

	el := etree.NewElement(name)
	el.SetText(value)
	appendElement(p.doc, group, el)
	p.modified = true
	return true
}

func (p *Project) unconditionedPropertyGroup() *etree.Element {
	for _, el := range childrenFold(p.root, elemPropertyGroup) {
		if attrValue(el, attrCondition) == "" {
			return el
		}
	}
	return nil
}

// insertPropertyGroup places a new group after the last property group, or
// first in the project when there is none.
func (p *Project) insertPropertyGroup(group *etree.Element) {
	if last := lastOf(childrenFold(p.root, elemPropertyGroup)); last != nil {
		insertElementAfter(last, group)
		return
	}
	if children := p.root.ChildElements(); len(children) > 0 {
		insertElementBefore(children[0], group)
		return
	}
	appendElement(p.doc, p.root, group)
}

// insertItemGroup places a new group after the last item group, else after
// the last property group, else at the end of the project.
func (p *Project) insertItemGroup(group *etree.Element) {
	if last := lastOf(childrenFold(p.root, elemItemGroup)); last != nil {
		insertElementAfter(last, group)
		return
	}
	if last := lastOf(childrenFold(p.root, elemPropertyGroup)); last != nil {
		insertElementAfter(last, group)
		return
	}
	appendElement(p.doc, p.root, group)
}

// ItemGroupFor returns the first item group that already holds an item of
// itemType, or nil.
func (p *Project) ItemGroupFor(itemType ItemType) *ItemGroup {
	for _, g := range p.ItemGroups() {
		if g.HasItemType(itemType) {
			return g
		}
	}
	return nil
}

// Items returns every item of itemType across all item groups.
func (p *Project) Items(itemType ItemType) []*Item {
	var items []*Item
	for _, g := range p.ItemGroups() {
		for _, item := range g.Items() {
			if strings.EqualFold(item.Type(), string(itemType)) {
				items = append(items, item)
			}
		}
	}
	return items
}

// FindItem returns the first item of itemType whose include matches,
// ignoring case.
func (p *Project) FindItem(itemType ItemType, include string) *Item {
	return p.FindItemFunc(itemType, func(inc string) bool {
		return strings.EqualFold(inc, include)
	})
}

// FindItemFunc returns the first item of itemType whose include satisfies match.
func (p *Project) FindItemFunc(itemType ItemType, match func(include string) bool) *Item {
	for _, item := range p.Items(itemType) {
		if match(item.Include()) {
			return item
		}
	}
	return nil
}

// AddItem adds an item of itemType unless one with the same include exists
// anywhere in the project. The item goes into ItemGroupFor(itemType), or a
// new group. It returns the item and whether it was added.
func (p *Project) AddItem(itemType ItemType, include string) (*Item, bool) {
	if existing := p.FindItem(itemType, include); existing != nil {
		return existing, false
	}

	group := p.ItemGroupFor(itemType)
	if group == nil {
		el := etree.NewElement(elemItemGroup)
		p.insertItemGroup(el)
		group = &ItemGroup{el: el, project: p}
	}
	return group.addItem(itemType, include), true
}

// PackageReference is a flattened view of a PackageReference item.
type PackageReference struct {
	ID            string `json:"id"`
	Version       string `json:"version,omitempty"`
	ExcludeAssets string `json:"excludeAssets,omitempty"`
	PrivateAssets string `json:"privateAssets,omitempty"`
	Condition     string `json:"condition,omitempty"`
}

// PackageReferences returns all PackageReference items in document order.
func (p *Project) PackageReferences() []PackageReference {
	var refs []PackageReference
	for _, g := range p.ItemGroups() {
		for _, item := range g.Items() {
			if !strings.EqualFold(item.Type(), string(ItemPackageReference)) {
				continue
			}
			ref := PackageReference{ID: item.Include(), Condition: g.Condition()}
			ref.Version, _ = item.Metadatum("Version")
			ref.ExcludeAssets, _ = item.Metadatum("ExcludeAssets")
			ref.PrivateAssets, _ = item.Metadatum("PrivateAssets")
			refs = append(refs, ref)
		}
	}
	return refs
}

// FindPackageReference returns the PackageReference item for id, or
// ErrPackageNotFound.
func (p *Project) FindPackageReference(id string) (*Item, error) {
	if item := p.FindItem(ItemPackageReference, id); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, id)
}

// FindProjectFile finds a single .csproj, .fsproj, or .vbproj file in the directory.
// Returns error if 0 or >1 project files are found.
func FindProjectFile(dir string) (string, error) {
	var matches []string
	for _, ext := range projectExtensions {
		found, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return "", err
		}
		matches = append(matches, found...)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no project file found in directory: %s", dir)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("multiple project files found in directory: %s. Specify which project to use", dir)
	}
	return matches[0], nil
}

// ResolveProjectPath accepts either a project file or a directory holding
// exactly one project file.
func ResolveProjectPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}
	if info.IsDir() {
		return FindProjectFile(path)
	}
	return path, nil
}
