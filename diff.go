package vdom

import (
	"fmt"

	"github.com/tola-format/vdom/debug"
	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/ir"
	"github.com/tola-format/vdom/libdiff"
)

const (
	defaultMaxDepth = 500
	defaultMaxOps   = 2000
)

// DiffConfig bounds the work one diff may do. Past either limit the
// diff gives up and asks for a full reload instead; both defaults are
// tuned heuristics.
type DiffConfig struct {
	// MaxDepth caps recursion depth.
	MaxDepth int
	// MaxOps caps the number of emitted patch operations.
	MaxOps int
}

// DefaultConfig is the preset for typical pages.
func DefaultConfig() DiffConfig {
	return DiffConfig{MaxDepth: defaultMaxDepth, MaxOps: defaultMaxOps}
}

// LargeConfig raises the limits for big generated documents.
func LargeConfig() DiffConfig {
	return DiffConfig{MaxDepth: 1000, MaxOps: 5000}
}

// SmallConfig lowers the limits for fast fallback on complex changes.
func SmallConfig() DiffConfig {
	return DiffConfig{MaxDepth: 100, MaxOps: 500}
}

// DiffStats counts what one diff run looked at and produced.
type DiffStats struct {
	ElementsCompared  int
	TextNodesCompared int
	NodesKept         int
	NodesMoved        int
	NodesReplaced     int
	TextUpdates       int
	AttrUpdates       int
}

// DiffResult is the outcome of a tree diff. Exactly one of two
// shapes: a populated Ops list with ShouldReload false, or
// ShouldReload true with a reason and no ops at all — a partial patch
// is unsafe, so ops are discarded before the result is returned.
type DiffResult struct {
	Ops          []PatchOp
	ShouldReload bool
	ReloadReason string
	Stats        DiffStats
}

// Reload builds a result that triggers a full reload.
func Reload(reason string) *DiffResult {
	return &DiffResult{ShouldReload: true, ReloadReason: reason}
}

// HasChanges reports whether applying the result would do anything.
func (r *DiffResult) HasChanges() bool {
	return len(r.Ops) != 0 || r.ShouldReload
}

// Diff compares two indexed documents rooted at the same logical
// position using the default limits.
func Diff(old, new *ir.Document) *DiffResult {
	return DiffWithConfig(old, new, DefaultConfig())
}

// DiffWithConfig diffs with custom limits.
func DiffWithConfig(old, new *ir.Document, cfg DiffConfig) *DiffResult {
	ctx := &diffContext{cfg: cfg}
	ctx.diffElement(old.Root, new.Root)
	return ctx.result()
}

type diffContext struct {
	ops          []PatchOp
	depth        int
	shouldReload bool
	reloadReason string
	stats        DiffStats
	cfg          DiffConfig
}

func (c *diffContext) result() *DiffResult {
	res := &DiffResult{
		Ops:          c.ops,
		ShouldReload: c.shouldReload,
		ReloadReason: c.reloadReason,
		Stats:        c.stats,
	}
	if res.ShouldReload {
		// Partial ops must never escape.
		res.Ops = nil
	}
	if debug.Diff() {
		debug.Logf("diff: %d ops, reload=%v (%s), stats %+v\n",
			len(res.Ops), res.ShouldReload, res.ReloadReason, res.Stats)
	}
	return res
}

func (c *diffContext) reload(reason string) {
	if !c.shouldReload {
		c.shouldReload = true
		c.reloadReason = reason
	}
}

// aborted is checked before every recursive step and every emission.
// Crossing a threshold flips the result to reload-with-reason; all
// further work stops.
func (c *diffContext) aborted() bool {
	if c.shouldReload {
		return true
	}
	if len(c.ops) > c.cfg.MaxOps {
		c.reload(fmt.Sprintf("max ops exceeded (%d)", c.cfg.MaxOps))
		return true
	}
	if c.depth > c.cfg.MaxDepth {
		c.reload(fmt.Sprintf("max depth exceeded (%d)", c.cfg.MaxDepth))
		return true
	}
	return false
}

func (c *diffContext) emit(op PatchOp) {
	c.ops = append(c.ops, op)
}

func (c *diffContext) diffElement(old, new *ir.Node) {
	if c.aborted() {
		return
	}
	c.stats.ElementsCompared++
	oldID := old.ID

	// Different tags: the node cannot be patched in place.
	if old.Tag != new.Tag {
		c.emit(PatchOp{Kind: OpReplace, Target: oldID, Element: new})
		c.stats.NodesReplaced++
		return
	}

	c.diffAttrs(old, new)

	isSVG := old.Tag == "svg"

	// Single-text-child fast path: the common case of "a
	// paragraph's text changed" avoids the sequence engine
	// entirely. Skipped for SVG, whose text children hold raw
	// markup that must go through innerHTML, not textContent.
	if !isSVG {
		oldText, oldSingle := singleTextChild(old.Children)
		newText, newSingle := singleTextChild(new.Children)
		switch {
		case oldSingle && newSingle:
			if oldText != newText {
				c.emit(PatchOp{Kind: OpUpdateText, Target: oldID, Text: newText})
				c.stats.TextUpdates++
			}
			c.stats.NodesKept++
			return
		case oldSingle && len(new.Children) == 0:
			c.emit(PatchOp{Kind: OpUpdateText, Target: oldID, Text: ""})
			c.stats.TextUpdates++
			c.stats.NodesKept++
			return
		case newSingle && len(old.Children) == 0:
			c.emit(PatchOp{Kind: OpUpdateText, Target: oldID, Text: newText})
			c.stats.TextUpdates++
			c.stats.NodesKept++
			return
		}
	}

	c.depth++
	c.diffChildren(old.Children, new.Children, oldID, old.Tag)
	c.depth--

	c.stats.NodesKept++
}

// diffAttrs emits the symmetric difference of the two attribute
// lists, with two overrides: a changed href on a <link> forces a
// Replace so the stylesheet is re-fetched, and a changed src on a
// <script> forces a full reload since re-execution has side effects
// no patch can express.
func (c *diffContext) diffAttrs(old, new *ir.Node) {
	if c.aborted() {
		return
	}

	var changes []AttrChange
	for _, kv := range new.Attrs {
		if ov, ok := old.GetAttr(kv[0]); !ok || ov != kv[1] {
			v := kv[1]
			changes = append(changes, AttrChange{Name: kv[0], Value: &v})
		}
	}
	for _, kv := range old.Attrs {
		if !new.Attrs.Has(kv[0]) {
			changes = append(changes, AttrChange{Name: kv[0]})
		}
	}
	if len(changes) == 0 {
		return
	}

	hrefChanged := old.Tag == "link" && changesHave(changes, "href")
	srcChanged := old.Tag == "script" && changesHave(changes, "src")
	switch {
	case hrefChanged:
		c.emit(PatchOp{Kind: OpReplace, Target: old.ID, Element: new})
		c.stats.NodesReplaced++
	case srcChanged:
		c.reload("script src changed")
	default:
		c.emit(PatchOp{Kind: OpUpdateAttrs, Target: old.ID, Changes: changes})
		c.stats.AttrUpdates++
	}
}

func changesHave(changes []AttrChange, name string) bool {
	for _, ch := range changes {
		if ch.Name == name {
			return true
		}
	}
	return false
}

func (c *diffContext) diffChildren(old, new []*ir.Node, parentID id.StableID, parentTag string) {
	if c.aborted() {
		return
	}
	if len(old) == 0 && len(new) == 0 {
		return
	}

	// SVG subtrees are never diffed element-by-element: namespace
	// and content-density rules make fine-grained patching unsafe
	// for the little it would save. Deep-equal or bulk replace.
	if parentTag == "svg" {
		if !svgSubtreesEqual(old, new) {
			c.emit(PatchOp{Kind: OpReplaceChildren, Target: parentID, Children: new, IsSVG: true})
			c.stats.NodesReplaced++
		}
		return
	}

	if len(old) == 0 {
		c.insertAllChildren(new, parentID)
		return
	}
	if len(new) == 0 {
		c.removeAllElementChildren(old)
		return
	}

	if !hasText(old) && !hasText(new) {
		c.diffElementChildren(old, new, parentID)
	} else {
		c.diffMixedChildren(old, new, parentID, parentTag)
	}
}

func (c *diffContext) insertAllChildren(children []*ir.Node, parentID id.StableID) {
	lastElem := id.Detached()
	for _, child := range children {
		if c.aborted() {
			return
		}
		anchor := FirstChildOf(parentID)
		if !lastElem.IsDetached() {
			anchor = After(lastElem)
		}
		c.emit(PatchOp{Kind: OpInsert, Anchor: anchor, Node: child})
		if child.IsElement() {
			lastElem = child.ID
		}
	}
}

func (c *diffContext) removeAllElementChildren(children []*ir.Node) {
	for _, child := range children {
		if c.aborted() {
			return
		}
		if child.IsElement() {
			c.emit(PatchOp{Kind: OpRemove, Target: child.ID})
		}
	}
}

// diffElementChildren handles sibling lists that contain only
// elements: the StableID sequences go through the sequence engine and
// its edits become anchored ops. Removes first (order-independent),
// then moves and inserts ascending by destination so each op's anchor
// is already in place, then recursion into every kept or moved pair.
func (c *diffContext) diffElementChildren(old, new []*ir.Node, parentID id.StableID) {
	oldIDs := make([]id.StableID, len(old))
	for i, n := range old {
		oldIDs[i] = nodeStableID(n)
	}
	newIDs := make([]id.StableID, len(new))
	for i, n := range new {
		newIDs[i] = nodeStableID(n)
	}

	seq := libdiff.DiffSequences(oldIDs, newIDs)
	if seq.Aborted {
		c.reload("child sequences too different to diff")
		return
	}
	if debug.LCS() {
		debug.Logf("lcs: parent %s stats %+v\n", parentID, seq.Stats)
	}

	var (
		keeps   [][2]int
		moves   [][2]int
		deletes []int
		inserts []int
	)
	for _, e := range seq.Edits {
		switch e.Op {
		case libdiff.KeepOp:
			keeps = append(keeps, [2]int{e.OldIdx, e.NewIdx})
		case libdiff.MoveOp:
			moves = append(moves, [2]int{e.OldIdx, e.NewIdx})
		case libdiff.DeleteOp:
			deletes = append(deletes, e.OldIdx)
		case libdiff.InsertOp:
			inserts = append(inserts, e.NewIdx)
		}
	}

	for _, oldIdx := range deletes {
		if c.aborted() {
			return
		}
		c.emit(PatchOp{Kind: OpRemove, Target: oldIDs[oldIdx]})
	}

	// moves and inserts arrive sorted by destination already (the
	// sequence engine's edit order).
	for _, mv := range moves {
		if c.aborted() {
			return
		}
		c.emit(PatchOp{
			Kind:   OpMove,
			Target: oldIDs[mv[0]],
			Anchor: c.anchorFor(mv[1], new, parentID),
		})
		c.stats.NodesMoved++
	}

	for _, newIdx := range inserts {
		if c.aborted() {
			return
		}
		c.emit(PatchOp{
			Kind:   OpInsert,
			Anchor: c.anchorFor(newIdx, new, parentID),
			Node:   new[newIdx],
		})
	}

	for _, pair := range keeps {
		c.diffNodes(old[pair[0]], new[pair[1]])
	}
	for _, pair := range moves {
		c.diffNodes(old[pair[0]], new[pair[1]])
	}
}

// anchorFor finds the nearest still-present element before newIdx in
// the new sequence, falling back to first-child of the parent.
// Computed against the new sequence so the anchor is valid once
// earlier moves and inserts have landed.
func (c *diffContext) anchorFor(newIdx int, new []*ir.Node, parentID id.StableID) Anchor {
	for i := newIdx - 1; i >= 0; i-- {
		if new[i].IsElement() {
			return After(new[i].ID)
		}
	}
	return FirstChildOf(parentID)
}

// diffMixedChildren handles sibling lists where text interleaves with
// elements. Plain text nodes have no addressable identity in the
// patch protocol, so a changed text slot forces one ReplaceChildren
// on the parent; matching shapes with unchanged text recurse
// element-by-element; mismatched shapes bulk-replace.
func (c *diffContext) diffMixedChildren(old, new []*ir.Node, parentID id.StableID, parentTag string) {
	isSVG := parentTag == "svg"

	if !structureMatches(old, new) {
		c.emit(PatchOp{Kind: OpReplaceChildren, Target: parentID, Children: new, IsSVG: isSVG})
		c.stats.NodesReplaced++
		return
	}

	textChanged := false
	for i := range old {
		if old[i].IsText() && new[i].IsText() && old[i].Text != new[i].Text {
			textChanged = true
			break
		}
	}
	if textChanged {
		c.emit(PatchOp{Kind: OpReplaceChildren, Target: parentID, Children: new, IsSVG: isSVG})
		c.stats.TextUpdates++
		return
	}

	for i := range old {
		c.diffNodes(old[i], new[i])
	}
}

func structureMatches(old, new []*ir.Node) bool {
	if len(old) != len(new) {
		return false
	}
	for i := range old {
		if old[i].Kind != new[i].Kind {
			return false
		}
	}
	return true
}

func (c *diffContext) diffNodes(old, new *ir.Node) {
	if c.aborted() {
		return
	}
	switch {
	case old.IsElement() && new.IsElement():
		c.diffElement(old, new)
	case old.IsText() && new.IsText():
		// Text pairs reaching this point are equal; changed text
		// slots are handled by the parent.
		c.stats.TextNodesCompared++
	}
}

func singleTextChild(children []*ir.Node) (string, bool) {
	if len(children) == 1 && children[0].IsText() {
		return children[0].Text, true
	}
	return "", false
}

func hasText(children []*ir.Node) bool {
	for _, n := range children {
		if n.IsText() {
			return true
		}
	}
	return false
}

// nodeStableID falls back to hashing content for detached text nodes;
// indexed trees never hit the fallback.
func nodeStableID(n *ir.Node) id.StableID {
	if !n.ID.IsDetached() {
		return n.ID
	}
	return id.StableID(id.NewHasher().Str(n.Text).Sum64())
}

// svgSubtreesEqual deep-compares two child lists: tag, attributes,
// identity and nested structure.
func svgSubtreesEqual(old, new []*ir.Node) bool {
	if len(old) != len(new) {
		return false
	}
	for i := range old {
		o, n := old[i], new[i]
		if o.Kind != n.Kind {
			return false
		}
		switch o.Kind {
		case ir.TextKind:
			if o.Text != n.Text {
				return false
			}
		case ir.ElementKind:
			if o.Tag != n.Tag || !o.Attrs.Equal(n.Attrs) || o.ID != n.ID {
				return false
			}
			if !svgSubtreesEqual(o.Children, n.Children) {
				return false
			}
		}
	}
	return true
}
