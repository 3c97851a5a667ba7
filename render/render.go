// Package render turns document trees and diff results into HTML
// strings and transport-ready patches.
package render

import (
	"strings"

	"github.com/tola-format/vdom/ir"
)

// DefaultIDAttr is the attribute carrying each element's StableID in
// development output. The hot-reload client resolves patch targets
// with an attribute selector on it.
const DefaultIDAttr = "data-tola-id"

// Config controls HTML output.
type Config struct {
	// EmitIDs writes every element's StableID as an attribute.
	// Required for hot reload; off for production output.
	EmitIDs bool
	// IDAttr is the attribute name for emitted IDs. Empty means
	// DefaultIDAttr.
	IDAttr string
}

// DevConfig renders with stable-ID attributes for hot reload.
func DevConfig() Config {
	return Config{EmitIDs: true, IDAttr: DefaultIDAttr}
}

// ProdConfig renders clean HTML with no ID attributes.
func ProdConfig() Config {
	return Config{}
}

func (c Config) idAttr() string {
	if c.IDAttr == "" {
		return DefaultIDAttr
	}
	return c.IDAttr
}

// voidElements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;")
)

// EscapeText escapes a text node for element content.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes an attribute value for a double-quoted position.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

// Document renders a full document, with a doctype when the root is
// <html>.
func Document(doc *ir.Document, cfg Config) string {
	var b strings.Builder
	if doc.Root.IsElement() && doc.Root.Tag == "html" {
		b.WriteString("<!DOCTYPE html>\n")
	}
	writeNode(&b, doc.Root, cfg, false)
	return b.String()
}

// Node renders a single subtree.
func Node(n *ir.Node, cfg Config) string {
	var b strings.Builder
	writeNode(&b, n, cfg, false)
	return b.String()
}

// Children renders a child list with no wrapping element, as consumed
// by replace_children patches.
func Children(children []*ir.Node, cfg Config, rawText bool) string {
	var b strings.Builder
	for _, c := range children {
		writeNode(&b, c, cfg, rawText)
	}
	return b.String()
}

// rawText marks positions where content is already valid markup and
// must not be escaped: inside SVG subtrees and Raw text nodes.
func writeNode(b *strings.Builder, n *ir.Node, cfg Config, rawText bool) {
	if n.IsText() {
		if rawText || n.Raw {
			b.WriteString(n.Text)
		} else {
			b.WriteString(EscapeText(n.Text))
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, kv := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(kv[0])
		b.WriteString(`="`)
		b.WriteString(EscapeAttr(kv[1]))
		b.WriteByte('"')
	}
	if cfg.EmitIDs && !n.ID.IsDetached() {
		b.WriteByte(' ')
		b.WriteString(cfg.idAttr())
		b.WriteString(`="`)
		b.WriteString(n.ID.AttrValue())
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}

	childRaw := rawText || n.Tag == "svg"
	for _, c := range n.Children {
		writeNode(b, c, cfg, childRaw)
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
