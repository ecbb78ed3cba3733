package project

import (
	"bytes"
	"html"
	"strings"

	"github.com/beevik/etree"
)

// refMark stands in for the '&' of an entity or character reference in
// character data, so the reference survives parsing undecoded and is
// written back exactly as it was.
const refMark = "\uE000"

// sourceTag is a start tag as it appeared in the file.
type sourceTag struct {
	raw         string
	selfClosing bool
	tag         string
	attrs       []etree.Attr
}

// unchanged reports whether el still has the tag and attributes it was
// loaded with.
func (s *sourceTag) unchanged(el *etree.Element) bool {
	if el.FullTag() != s.tag || len(el.Attr) != len(s.attrs) {
		return false
	}
	for i, a := range el.Attr {
		o := s.attrs[i]
		if a.Space != o.Space || a.Key != o.Key || a.Value != o.Value {
			return false
		}
	}
	return true
}

// openForm returns the raw start tag with any "/>" turned into ">".
func (s *sourceTag) openForm() string {
	if !s.selfClosing {
		return s.raw
	}
	return strings.TrimRight(strings.TrimSuffix(s.raw, "/>"), " \t\n") + ">"
}

// scanMarkup copies data, replacing the '&' of every reference in character
// data with refMark, and returns the start tags in document order. Comments,
// CDATA sections, processing instructions and tags are copied unchanged.
func scanMarkup(data []byte) ([]byte, []string) {
	out := make([]byte, 0, len(data)+64)
	var tags []string
	for i := 0; i < len(data); {
		switch data[i] {
		case '&':
			out = append(out, refMark...)
			i++
		case '<':
			end := markupEnd(data, i)
			seg := data[i:end]
			if len(seg) > 1 && seg[1] != '/' && seg[1] != '!' && seg[1] != '?' {
				tags = append(tags, string(seg))
			}
			out = append(out, seg...)
			i = end
		default:
			out = append(out, data[i])
			i++
		}
	}
	return out, tags
}

// markupEnd returns the offset just past the markup starting at data[i].
func markupEnd(data []byte, i int) int {
	rest := data[i:]
	until := func(prefix int, term string) int {
		if j := bytes.Index(rest[prefix:], []byte(term)); j >= 0 {
			return i + prefix + j + len(term)
		}
		return len(data)
	}
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		return until(4, "-->")
	case bytes.HasPrefix(rest, []byte("<![CDATA[")):
		return until(9, "]]>")
	case bytes.HasPrefix(rest, []byte("<?")):
		return until(2, "?>")
	}

	var quote byte
	for j := 1; j < len(rest); j++ {
		c := rest[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + j + 1
		}
	}
	return len(data)
}

// indexSourceTags pairs the scanned start tags with the parsed elements. A
// count mismatch leaves the index empty, and every element is then written
// from the tree.
func (p *Project) indexSourceTags(raw []string) {
	var els []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		els = append(els, el)
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(p.root)

	p.source = make(map[*etree.Element]*sourceTag, len(els))
	if len(els) != len(raw) {
		return
	}
	for i, el := range els {
		p.source[el] = &sourceTag{
			raw:         raw[i],
			selfClosing: strings.HasSuffix(raw[i], "/>"),
			tag:         el.FullTag(),
			attrs:       append([]etree.Attr(nil), el.Attr...),
		}
	}
}

// writeTokens serializes tokens. Elements whose tag and attributes are
// untouched keep their original start tag; new or edited elements are
// written with double-quoted attributes, and empty ones close with " />".
func (p *Project) writeTokens(b *bytes.Buffer, tokens []etree.Token) {
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *etree.Element:
			p.writeElement(b, t)
		case *etree.CharData:
			if t.IsCData() {
				b.WriteString("<![CDATA[")
				b.WriteString(t.Data)
				b.WriteString("]]>")
			} else {
				escapeInto(b, t.Data, false)
			}
		default:
			tok.WriteTo(b, &p.doc.WriteSettings)
		}
	}
}

func (p *Project) writeElement(b *bytes.Buffer, el *etree.Element) {
	src := p.source[el]
	empty := len(el.Child) == 0

	if src != nil && src.unchanged(el) {
		if empty && src.selfClosing {
			b.WriteString(src.raw)
			return
		}
		b.WriteString(src.openForm())
	} else {
		b.WriteByte('<')
		b.WriteString(el.FullTag())
		for _, a := range el.Attr {
			b.WriteByte(' ')
			b.WriteString(a.FullKey())
			b.WriteString(`="`)
			escapeInto(b, a.Value, true)
			b.WriteByte('"')
		}
		if empty && (src == nil || src.selfClosing) {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
	}

	p.writeTokens(b, el.Child)
	b.WriteString("</")
	b.WriteString(el.FullTag())
	b.WriteByte('>')
}

// escapeInto writes s with the characters XML requires escaped: '&' and '<',
// plus '"' in attribute values. refMark passes through.
func escapeInto(b *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '"' && attr:
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
}

// textOf returns the trimmed character data of el with references decoded.
func textOf(el *etree.Element) string {
	s := strings.TrimSpace(el.Text())
	if !strings.Contains(s, refMark) {
		return s
	}
	return html.UnescapeString(strings.ReplaceAll(s, refMark, "&"))
}
