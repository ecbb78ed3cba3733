package project

import (
	"strings"

	"github.com/beevik/etree"
)

// MSBuild element and attribute names.
const (
	elemProject       = "Project"
	elemPropertyGroup = "PropertyGroup"
	elemItemGroup     = "ItemGroup"
	attrSdk           = "Sdk"
	attrCondition     = "Condition"
	attrInclude       = "Include"
)

const defaultIndentUnit = "  "

// childrenFold returns the child elements of el whose tag equals name, ignoring case.
func childrenFold(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, name) {
			out = append(out, c)
		}
	}
	return out
}

// childFold returns the first child element of el whose tag equals name, ignoring case.
func childFold(el *etree.Element, name string) *etree.Element {
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, name) {
			return c
		}
	}
	return nil
}

// attrFold returns the attribute of el named name, ignoring case.
func attrFold(el *etree.Element, name string) *etree.Attr {
	for i := range el.Attr {
		if el.Attr[i].Space == "" && strings.EqualFold(el.Attr[i].Key, name) {
			return &el.Attr[i]
		}
	}
	return nil
}

// attrValue returns the value of an attribute looked up case-insensitively.
func attrValue(el *etree.Element, name string) string {
	if a := attrFold(el, name); a != nil {
		return a.Value
	}
	return ""
}

// lastOf returns the last element in list, or nil.
func lastOf(list []*etree.Element) *etree.Element {
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// indentOf returns the whitespace that precedes el on its own line.
func indentOf(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	idx := el.Index()
	if idx <= 0 {
		return ""
	}
	cd, ok := parent.Child[idx-1].(*etree.CharData)
	if !ok || !cd.IsWhitespace() {
		return ""
	}
	if i := strings.LastIndexByte(cd.Data, '\n'); i >= 0 {
		return cd.Data[i+1:]
	}
	return ""
}

// indentUnit guesses one level of indentation from the first child of the
// document root.
func indentUnit(doc *etree.Document) string {
	root := doc.Root()
	if root == nil {
		return defaultIndentUnit
	}
	for _, c := range root.ChildElements() {
		if ind := indentOf(c); ind != "" {
			return ind
		}
	}
	return defaultIndentUnit
}

// childIndent returns the indentation for a new child of parent: the
// indentation of an existing child, or one level deeper than parent.
func childIndent(doc *etree.Document, parent *etree.Element) string {
	for _, c := range parent.ChildElements() {
		if ind := indentOf(c); ind != "" {
			return ind
		}
	}
	return indentOf(parent) + indentUnit(doc)
}

// appendElement adds child as the last element of parent on its own line.
func appendElement(doc *etree.Document, parent, child *etree.Element) {
	ind := childIndent(doc, parent)
	if n := len(parent.Child); n > 0 {
		if cd, ok := parent.Child[n-1].(*etree.CharData); ok && cd.IsWhitespace() && strings.Contains(cd.Data, "\n") {
			parent.InsertChildAt(n-1, etree.NewText("\n"+ind))
			parent.InsertChildAt(n, child)
			return
		}
	}
	parent.AddChild(etree.NewText("\n" + ind))
	parent.AddChild(child)
	parent.AddChild(etree.NewText("\n" + indentOf(parent)))
}

// insertElementAfter places child on a new line directly after ref.
func insertElementAfter(ref, child *etree.Element) {
	parent := ref.Parent()
	idx := ref.Index()
	parent.InsertChildAt(idx+1, etree.NewText("\n"+indentOf(ref)))
	parent.InsertChildAt(idx+2, child)
}

// insertElementBefore places child on its own line directly before ref.
func insertElementBefore(ref, child *etree.Element) {
	parent := ref.Parent()
	idx := ref.Index()
	ind := indentOf(ref)
	parent.InsertChildAt(idx, child)
	parent.InsertChildAt(idx+1, etree.NewText("\n"+ind))
}
