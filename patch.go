// Package vdom diffs two indexed document trees and produces the
// minimal patch operations that transform the old tree into the new
// one, for hot reload of statically rendered pages.
//
// Diff output is pure data ([PatchOp] holds node references, no
// HTML). The render package turns ops into transport-ready patches
// with pre-rendered HTML fragments; keeping the two apart lets diff
// logic be tested without rendering and rendering strategies vary
// without touching the algorithm.
package vdom

import (
	"fmt"

	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/ir"
)

// OpKind discriminates patch operations.
type OpKind int

const (
	OpReplace OpKind = iota
	OpUpdateText
	OpReplaceChildren
	OpRemove
	OpInsert
	OpMove
	OpUpdateAttrs
)

func (k OpKind) String() string {
	switch k {
	case OpReplace:
		return "replace"
	case OpUpdateText:
		return "update_text"
	case OpReplaceChildren:
		return "replace_children"
	case OpRemove:
		return "remove"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpUpdateAttrs:
		return "update_attrs"
	}
	return "<unknown op>"
}

// AnchorKind places a node relative to an existing one.
type AnchorKind int

const (
	AnchorAfter AnchorKind = iota
	AnchorBefore
	AnchorFirstChild
	AnchorLastChild
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorAfter:
		return "after"
	case AnchorBefore:
		return "before"
	case AnchorFirstChild:
		return "first_child"
	case AnchorLastChild:
		return "last_child"
	}
	return "<unknown anchor>"
}

// Anchor is a relative placement reference. It always names an
// existing node by StableID, never a numeric index, so it stays valid
// while surrounding ops are applied.
type Anchor struct {
	Kind AnchorKind
	ID   id.StableID
}

func After(target id.StableID) Anchor        { return Anchor{AnchorAfter, target} }
func Before(target id.StableID) Anchor       { return Anchor{AnchorBefore, target} }
func FirstChildOf(parent id.StableID) Anchor { return Anchor{AnchorFirstChild, parent} }
func LastChildOf(parent id.StableID) Anchor  { return Anchor{AnchorLastChild, parent} }

func (a Anchor) String() string {
	return fmt.Sprintf("%s(%s)", a.Kind, a.ID)
}

// AttrChange sets (Value non-nil) or removes (Value nil) one
// attribute.
type AttrChange struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// PatchOp is one abstract tree mutation, tagged by Kind:
//
//	OpReplace         Target, Element
//	OpUpdateText      Target, Text
//	OpReplaceChildren Target, Children, IsSVG
//	OpRemove          Target
//	OpInsert          Anchor, Node
//	OpMove            Target, Anchor
//	OpUpdateAttrs     Target, Changes
type PatchOp struct {
	Kind   OpKind
	Target id.StableID
	Anchor Anchor

	Element  *ir.Node
	Node     *ir.Node
	Children []*ir.Node
	Text     string
	IsSVG    bool
	Changes  []AttrChange
}

// TargetID is the StableID an op primarily addresses; for inserts it
// is the anchor's reference node.
func (op *PatchOp) TargetID() id.StableID {
	if op.Kind == OpInsert {
		return op.Anchor.ID
	}
	return op.Target
}

func (op *PatchOp) String() string {
	switch op.Kind {
	case OpUpdateText:
		return fmt.Sprintf("update_text(%s, %q)", op.Target, op.Text)
	case OpInsert:
		return fmt.Sprintf("insert(%s)", op.Anchor)
	case OpMove:
		return fmt.Sprintf("move(%s -> %s)", op.Target, op.Anchor)
	default:
		return fmt.Sprintf("%s(%s)", op.Kind, op.Target)
	}
}
