package project

import (
	"strings"

	"github.com/beevik/etree"
)

// Property is a single MSBuild property read from a PropertyGroup.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PropertyGroup is a view over a <PropertyGroup> element.
type PropertyGroup struct {
	el *etree.Element
}

// Condition returns the group's Condition attribute, or "".
func (g *PropertyGroup) Condition() string {
	return attrValue(g.el, attrCondition)
}

// Properties returns the properties of the group in document order.
func (g *PropertyGroup) Properties() []Property {
	children := g.el.ChildElements()
	props := make([]Property, 0, len(children))
	for _, c := range children {
		props = append(props, Property{Name: c.Tag, Value: textOf(c)})
	}
	return props
}

// Property looks up a property by name, ignoring case. The first match wins.
func (g *PropertyGroup) Property(name string) (string, bool) {
	if el := childFold(g.el, name); el != nil {
		return textOf(el), true
	}
	return "", false
}

// Metadata is one piece of item metadata, stored either as a child element
// or as an attribute of the item.
type Metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is a view over a single item element such as <Reference Include="...">.
type Item struct {
	el      *etree.Element
	project *Project
}

// Type returns the item type, which is the element name.
func (i *Item) Type() string {
	return i.el.Tag
}

// Include returns the Include attribute.
func (i *Item) Include() string {
	return attrValue(i.el, attrInclude)
}

// Metadata returns attribute metadata followed by element metadata, each in
// document order.
func (i *Item) Metadata() []Metadata {
	var md []Metadata
	for _, a := range i.el.Attr {
		if a.Space != "" || strings.EqualFold(a.Key, attrInclude) ||
			strings.EqualFold(a.Key, attrCondition) || strings.EqualFold(a.Key, "Update") ||
			strings.EqualFold(a.Key, "Remove") || strings.EqualFold(a.Key, "Exclude") {
			continue
		}
		md = append(md, Metadata{Name: a.Key, Value: a.Value})
	}
	for _, c := range i.el.ChildElements() {
		md = append(md, Metadata{Name: c.Tag, Value: textOf(c)})
	}
	return md
}

// Metadatum looks up one metadata value by name, ignoring case. The
// attribute form is checked before the element form.
func (i *Item) Metadatum(name string) (string, bool) {
	if a := attrFold(i.el, name); a != nil {
		return a.Value, true
	}
	if c := childFold(i.el, name); c != nil {
		return textOf(c), true
	}
	return "", false
}

// SetMetadata upserts a metadata value and reports whether the document
// changed. Existing entries keep their form; new entries are attributes on
// PackageReference items and child elements elsewhere.
func (i *Item) SetMetadata(name, value string) bool {
	if a := attrFold(i.el, name); a != nil {
		if a.Value == value {
			return false
		}
		a.Value = value
		i.project.modified = true
		return true
	}
	if c := childFold(i.el, name); c != nil {
		if textOf(c) == value {
			return false
		}
		c.SetText(value)
		i.project.modified = true
		return true
	}

	if strings.EqualFold(i.el.Tag, string(ItemPackageReference)) {
		i.el.CreateAttr(name, value)
	} else {
		child := etree.NewElement(name)
		child.SetText(value)
		appendElement(i.project.doc, i.el, child)
	}
	i.project.modified = true
	return true
}

// ItemGroup is a view over an <ItemGroup> element.
type ItemGroup struct {
	el      *etree.Element
	project *Project
}

// Condition returns the group's Condition attribute, or "".
func (g *ItemGroup) Condition() string {
	return attrValue(g.el, attrCondition)
}

// Items returns the items of the group in document order.
func (g *ItemGroup) Items() []*Item {
	children := g.el.ChildElements()
	items := make([]*Item, 0, len(children))
	for _, c := range children {
		items = append(items, &Item{el: c, project: g.project})
	}
	return items
}

// HasItemType reports whether the group holds at least one item of itemType.
func (g *ItemGroup) HasItemType(itemType ItemType) bool {
	return childFold(g.el, string(itemType)) != nil
}

// addItem appends a new item element and returns it.
func (g *ItemGroup) addItem(itemType ItemType, include string) *Item {
	el := etree.NewElement(string(itemType))
	el.CreateAttr(attrInclude, include)
	appendElement(g.project.doc, g.el, el)
	g.project.modified = true
	return &Item{el: el, project: g.project}
}
