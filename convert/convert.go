// Package convert builds document trees from HTML source using the
// golang.org/x/net/html parser.
package convert

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tola-format/vdom/ir"
)

// Parse reads a full HTML document and returns a raw (unindexed)
// document rooted at the <html> element. Comments and the doctype are
// dropped; they carry no patchable content.
func Parse(r io.Reader) (*ir.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return ir.NewDocument(convertElement(n)), nil
		}
	}
	return nil, fmt.Errorf("parse html: no root element")
}

// ParseString is Parse over a string.
func ParseString(s string) (*ir.Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses markup as body content and returns the
// top-level nodes.
func ParseFragment(s string) ([]*ir.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	var out []*ir.Node
	for _, n := range nodes {
		if c := convertNode(n, false); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// rawTextTags hold text that is source code, not prose: kept verbatim
// as raw text and never escaped on the way back out.
var rawTextTags = map[string]bool{"script": true, "style": true}

// preserveSpaceTags keep whitespace-only text children.
var preserveSpaceTags = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

func convertElement(n *html.Node) *ir.Node {
	var attrs ir.Attrs
	for _, a := range n.Attr {
		attrs = append(attrs, [2]string{a.Key, a.Val})
	}
	el := ir.Elem(n.Data, attrs)
	raw := rawTextTags[n.Data]
	keepSpace := preserveSpaceTags[n.Data]
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertChild(c, raw, keepSpace); child != nil {
			el.Children = append(el.Children, child)
		}
	}
	return el
}

func convertChild(n *html.Node, raw, keepSpace bool) *ir.Node {
	switch n.Type {
	case html.ElementNode:
		return convertElement(n)
	case html.TextNode:
		if raw {
			return ir.RawText(n.Data)
		}
		// Inter-element whitespace is formatting, not content: it
		// would otherwise force the mixed-children path on every
		// indented parent.
		if !keepSpace && strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return ir.TextNode(n.Data)
	}
	return nil
}

func convertNode(n *html.Node, raw bool) *ir.Node {
	return convertChild(n, raw, false)
}
