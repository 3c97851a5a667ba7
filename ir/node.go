// Package ir defines the in-memory document tree the diff engine
// operates on: elements with ordered attributes and children, and
// text nodes. Nodes carry a StableID once the indexing transform has
// run; before that the ID is the detached sentinel.
package ir

import (
	"fmt"

	"github.com/tola-format/vdom/id"
)

type Kind int

const (
	ElementKind Kind = iota
	TextKind
)

func (k Kind) String() string {
	switch k {
	case ElementKind:
		return "Element"
	case TextKind:
		return "Text"
	}
	return "<unknown kind>"
}

// Node is one tree node, tagged by Kind. Element nodes use Tag,
// Attrs and Children; text nodes use Text and Raw. ID and Family are
// filled in by the indexing transform.
type Node struct {
	Kind Kind

	// Element fields.
	Tag      string
	Attrs    Attrs
	Children []*Node

	// Text fields. Raw marks already-valid markup that must be
	// emitted without escaping (script/style contents, SVG innards).
	Text string
	Raw  bool

	ID     id.StableID
	Family FamilyData
}

// Elem builds an unindexed element node.
func Elem(tag string, attrs Attrs, children ...*Node) *Node {
	return &Node{Kind: ElementKind, Tag: tag, Attrs: attrs, Children: children}
}

// TextNode builds an unindexed escaped text node.
func TextNode(content string) *Node {
	return &Node{Kind: TextKind, Text: content}
}

// RawText builds an unindexed text node whose content renders as-is.
func RawText(content string) *Node {
	return &Node{Kind: TextKind, Text: content, Raw: true}
}

func (n *Node) IsElement() bool { return n.Kind == ElementKind }
func (n *Node) IsText() bool    { return n.Kind == TextKind }

// GetAttr returns the value of the named attribute.
func (n *Node) GetAttr(name string) (string, bool) {
	return n.Attrs.Get(name)
}

// SetAttr sets or replaces the named attribute, preserving order for
// existing names and appending new ones.
func (n *Node) SetAttr(name, value string) {
	n.Attrs = n.Attrs.Set(name, value)
}

// Clone deep-copies the node, its attributes and its subtree.
// Family payloads are shared; they are immutable after indexing.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Attrs = n.Attrs.Clone()
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// DeepEqual compares kind, tag, attributes, text, identity and
// recursively the children of both subtrees.
func DeepEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TextKind:
		return a.Text == b.Text && a.Raw == b.Raw
	case ElementKind:
		if a.Tag != b.Tag || a.ID != b.ID || !a.Attrs.Equal(b.Attrs) {
			return false
		}
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !DeepEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (n *Node) String() string {
	switch n.Kind {
	case TextKind:
		return fmt.Sprintf("Text(%q)", n.Text)
	default:
		return fmt.Sprintf("<%s %s>[%d children]", n.Tag, n.ID, len(n.Children))
	}
}
