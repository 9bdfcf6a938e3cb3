// Package view is the pure render layer: it turns view-model values into
// element trees without touching any session state. Rendering the same value
// twice yields the same tree, so callers may re-render freely.
package view

import (
	"html"
	"sort"
	"strings"
)

// Node is one element of a rendered tree. A node with an empty Tag is a text
// node and only Text is meaningful.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// Elem builds an element node.
func Elem(tag string, attrs map[string]string, children ...*Node) *Node {
	return &Node{Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Attr returns the value of an attribute, or "".
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// HasClass reports whether the node's class attribute contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(n.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

// FindClass returns the first node in the subtree (depth-first, self
// included) carrying the given class, or nil.
func (n *Node) FindClass(name string) *Node {
	if n == nil {
		return nil
	}
	if n.HasClass(name) {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindClass(name); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all text nodes in the subtree.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Tag == "" {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// voidTags never carry children and render self-closed.
var voidTags = map[string]bool{
	"img": true,
	"br":  true,
	"hr":  true,
}

// Markup serializes the tree. Attributes render in sorted order so output is
// deterministic; text and attribute values are escaped.
func (n *Node) Markup() string {
	var b strings.Builder
	n.writeMarkup(&b)
	return b.String()
}

func (n *Node) writeMarkup(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Tag == "" {
		b.WriteString(html.EscapeString(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(n.Attrs[k]))
		b.WriteByte('"')
	}

	if voidTags[n.Tag] {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.writeMarkup(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
