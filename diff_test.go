package vdom

import (
	"testing"

	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/ir"
	"github.com/tola-format/vdom/transform"
)

func indexed(t *testing.T, root *ir.Node) *ir.Document {
	t.Helper()
	doc, err := transform.Index(root, id.ZeroSeed())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	return doc
}

func opsOfKind(res *DiffResult, kind OpKind) []PatchOp {
	var out []PatchOp
	for _, op := range res.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func TestIdenticalDocumentsNoOps(t *testing.T) {
	build := func() *ir.Node {
		return ir.Elem("div", nil,
			ir.Elem("p", nil, ir.TextNode("same")),
			ir.Elem("p", nil, ir.TextNode("content")),
		)
	}
	res := Diff(indexed(t, build()), indexed(t, build()))
	if res.HasChanges() {
		t.Fatalf("identical trees produced %d ops", len(res.Ops))
	}
}

func TestTextEditIsSingleUpdateText(t *testing.T) {
	old := indexed(t, ir.Elem("div", nil,
		ir.Elem("h1", nil, ir.TextNode("cosplay tutorials")),
		ir.Elem("p", nil, ir.TextNode("unchanged")),
	))
	new := indexed(t, ir.Elem("div", nil,
		ir.Elem("h1", nil, ir.TextNode("cosplay tutorials 2")),
		ir.Elem("p", nil, ir.TextNode("unchanged")),
	))
	res := Diff(old, new)
	if res.ShouldReload {
		t.Fatalf("unexpected reload: %s", res.ReloadReason)
	}
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateText {
		t.Fatalf("ops %v", res.Ops)
	}
	if res.Ops[0].Text != "cosplay tutorials 2" {
		t.Fatalf("text %q", res.Ops[0].Text)
	}
	if res.Ops[0].Target != old.Root.Children[0].ID {
		t.Fatalf("target %s, want h1 %s", res.Ops[0].Target, old.Root.Children[0].ID)
	}
}

func TestTextFastPathEmptyTransitions(t *testing.T) {
	full := func() *ir.Node { return ir.Elem("p", nil, ir.TextNode("hello")) }
	empty := func() *ir.Node { return ir.Elem("p", nil) }

	res := Diff(indexed(t, full()), indexed(t, empty()))
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateText || res.Ops[0].Text != "" {
		t.Fatalf("non-empty to empty: %v", res.Ops)
	}

	res = Diff(indexed(t, empty()), indexed(t, full()))
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateText || res.Ops[0].Text != "hello" {
		t.Fatalf("empty to non-empty: %v", res.Ops)
	}
}

func TestTagMismatchReplaces(t *testing.T) {
	old := indexed(t, ir.Elem("div", nil))
	new := indexed(t, ir.Elem("section", nil))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpReplace {
		t.Fatalf("ops %v", res.Ops)
	}
	if res.Ops[0].Target != old.Root.ID || res.Ops[0].Element != new.Root {
		t.Fatalf("replace op %+v", res.Ops[0])
	}
}

func TestAttrChanges(t *testing.T) {
	old := indexed(t, ir.Elem("div", ir.Attrs{{"class", "a"}, {"hidden", ""}}))
	new := indexed(t, ir.Elem("div", ir.Attrs{{"class", "b"}, {"title", "x"}}))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateAttrs {
		t.Fatalf("ops %v", res.Ops)
	}
	got := map[string]*string{}
	for _, ch := range res.Ops[0].Changes {
		got[ch.Name] = ch.Value
	}
	if v := got["class"]; v == nil || *v != "b" {
		t.Fatalf("class change %v", got["class"])
	}
	if v := got["title"]; v == nil || *v != "x" {
		t.Fatalf("title change %v", got["title"])
	}
	if v, ok := got["hidden"]; !ok || v != nil {
		t.Fatalf("hidden should be removed (nil value), got %v present=%v", v, ok)
	}
}

func TestReorderProducesMovesOnly(t *testing.T) {
	old := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "a"}}),
		ir.Elem("li", ir.Attrs{{"id", "b"}}),
		ir.Elem("li", ir.Attrs{{"id", "c"}}),
	))
	new := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "c"}}),
		ir.Elem("li", ir.Attrs{{"id", "b"}}),
		ir.Elem("li", ir.Attrs{{"id", "a"}}),
	))
	res := Diff(old, new)
	if res.ShouldReload {
		t.Fatalf("reload: %s", res.ReloadReason)
	}
	for _, op := range res.Ops {
		if op.Kind != OpMove {
			t.Fatalf("reorder produced %s", op.Kind)
		}
	}
	if len(res.Ops) == 0 {
		t.Fatalf("reorder produced no ops")
	}
}

func TestRemovesPrecedeInserts(t *testing.T) {
	old := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "a"}}),
		ir.Elem("li", ir.Attrs{{"id", "b"}}),
	))
	new := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "a"}}),
		ir.Elem("li", ir.Attrs{{"id", "c"}}),
	))
	res := Diff(old, new)
	lastRemove, firstInsert := -1, -1
	for i, op := range res.Ops {
		switch op.Kind {
		case OpRemove:
			lastRemove = i
		case OpInsert:
			if firstInsert < 0 {
				firstInsert = i
			}
		}
	}
	if lastRemove < 0 || firstInsert < 0 {
		t.Fatalf("ops %v", res.Ops)
	}
	if lastRemove > firstInsert {
		t.Fatalf("remove after insert: %v", res.Ops)
	}
}

func TestInsertAnchors(t *testing.T) {
	old := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "b"}}),
	))
	new := indexed(t, ir.Elem("ul", nil,
		ir.Elem("li", ir.Attrs{{"id", "a"}}),
		ir.Elem("li", ir.Attrs{{"id", "b"}}),
		ir.Elem("li", ir.Attrs{{"id", "c"}}),
	))
	res := Diff(old, new)
	inserts := opsOfKind(res, OpInsert)
	if len(inserts) != 2 {
		t.Fatalf("inserts %v", res.Ops)
	}
	// li#a goes to the head: no preceding element, so first-child of ul.
	if inserts[0].Anchor.Kind != AnchorFirstChild || inserts[0].Anchor.ID != old.Root.ID {
		t.Fatalf("head insert anchor %s", inserts[0].Anchor)
	}
	// li#c anchors after li#b, the nearest preceding element in the
	// new sequence.
	if inserts[1].Anchor.Kind != AnchorAfter || inserts[1].Anchor.ID != new.Root.Children[1].ID {
		t.Fatalf("tail insert anchor %s", inserts[1].Anchor)
	}
}

func TestRecursionIntoKeptChildren(t *testing.T) {
	old := indexed(t, ir.Elem("div", nil,
		ir.Elem("section", nil,
			ir.Elem("p", nil, ir.TextNode("old text")),
		),
		ir.Elem("footer", nil),
	))
	new := indexed(t, ir.Elem("div", nil,
		ir.Elem("section", nil,
			ir.Elem("p", nil, ir.TextNode("new text")),
		),
		ir.Elem("footer", nil),
	))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateText {
		t.Fatalf("ops %v", res.Ops)
	}
}

func TestSvgSubtreeReplacedAtomically(t *testing.T) {
	build := func(r string) *ir.Node {
		return ir.Elem("div", nil,
			ir.Elem("svg", ir.Attrs{{"viewBox", "0 0 10 10"}},
				ir.Elem("circle", ir.Attrs{{"r", r}}),
				ir.Elem("rect", nil),
			),
		)
	}
	old := indexed(t, build("4"))
	new := indexed(t, build("5"))
	res := Diff(old, new)
	if len(res.Ops) != 1 {
		t.Fatalf("ops %v", res.Ops)
	}
	op := res.Ops[0]
	if op.Kind != OpReplaceChildren || !op.IsSVG {
		t.Fatalf("op %+v", op)
	}
	if op.Target != old.Root.Children[0].ID {
		t.Fatalf("target %s, want svg root", op.Target)
	}
}

func TestSvgEqualSubtreeNoOps(t *testing.T) {
	build := func() *ir.Node {
		return ir.Elem("svg", nil,
			ir.Elem("path", ir.Attrs{{"d", "M0 0L10 10"}}),
		)
	}
	res := Diff(indexed(t, build()), indexed(t, build()))
	if res.HasChanges() {
		t.Fatalf("equal svg produced ops %v", res.Ops)
	}
}

func TestScriptSrcChangeForcesReload(t *testing.T) {
	old := indexed(t, ir.Elem("head", nil,
		ir.Elem("script", ir.Attrs{{"src", "/app.js?v=1"}}),
	))
	new := indexed(t, ir.Elem("head", nil,
		ir.Elem("script", ir.Attrs{{"src", "/app.js?v=2"}}),
	))
	res := Diff(old, new)
	if !res.ShouldReload || res.ReloadReason != "script src changed" {
		t.Fatalf("result %+v", res)
	}
	if res.Ops != nil {
		t.Fatalf("reload result carries %d ops", len(res.Ops))
	}
}

func TestLinkHrefChangeReplaces(t *testing.T) {
	old := indexed(t, ir.Elem("head", nil,
		ir.Elem("link", ir.Attrs{{"rel", "stylesheet"}, {"href", "/a.css"}}),
	))
	new := indexed(t, ir.Elem("head", nil,
		ir.Elem("link", ir.Attrs{{"rel", "stylesheet"}, {"href", "/b.css"}}),
	))
	res := Diff(old, new)
	if res.ShouldReload {
		t.Fatalf("reload: %s", res.ReloadReason)
	}
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpReplace {
		t.Fatalf("ops %v", res.Ops)
	}
}

func TestMixedChildrenTextChangeReplacesChildren(t *testing.T) {
	old := indexed(t, ir.Elem("p", nil,
		ir.TextNode("hello "),
		ir.Elem("em", nil, ir.TextNode("world")),
		ir.TextNode("!"),
	))
	new := indexed(t, ir.Elem("p", nil,
		ir.TextNode("goodbye "),
		ir.Elem("em", nil, ir.TextNode("world")),
		ir.TextNode("!"),
	))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpReplaceChildren {
		t.Fatalf("ops %v", res.Ops)
	}
	if res.Ops[0].IsSVG {
		t.Fatalf("html parent flagged svg")
	}
}

func TestMixedChildrenStableTextRecurses(t *testing.T) {
	old := indexed(t, ir.Elem("p", nil,
		ir.TextNode("see "),
		ir.Elem("a", ir.Attrs{{"href", "/x"}, {"class", "old"}}, ir.TextNode("here")),
	))
	new := indexed(t, ir.Elem("p", nil,
		ir.TextNode("see "),
		ir.Elem("a", ir.Attrs{{"href", "/x"}, {"class", "new"}}, ir.TextNode("here")),
	))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpUpdateAttrs {
		t.Fatalf("ops %v", res.Ops)
	}
}

func TestMixedChildrenShapeMismatchReplacesChildren(t *testing.T) {
	old := indexed(t, ir.Elem("p", nil,
		ir.TextNode("a"),
		ir.Elem("b", nil),
	))
	new := indexed(t, ir.Elem("p", nil,
		ir.Elem("b", nil),
		ir.TextNode("a"),
	))
	res := Diff(old, new)
	if len(res.Ops) != 1 || res.Ops[0].Kind != OpReplaceChildren {
		t.Fatalf("ops %v", res.Ops)
	}
}

func TestEmptyToChildrenInsertsAll(t *testing.T) {
	old := indexed(t, ir.Elem("div", nil))
	new := indexed(t, ir.Elem("div", nil,
		ir.Elem("p", nil),
		ir.Elem("span", nil),
	))
	res := Diff(old, new)
	inserts := opsOfKind(res, OpInsert)
	if len(inserts) != 2 {
		t.Fatalf("ops %v", res.Ops)
	}
	if inserts[0].Anchor.Kind != AnchorFirstChild {
		t.Fatalf("first anchor %s", inserts[0].Anchor)
	}
	if inserts[1].Anchor.Kind != AnchorAfter || inserts[1].Anchor.ID != new.Root.Children[0].ID {
		t.Fatalf("second anchor %s", inserts[1].Anchor)
	}
}

func TestMaxOpsFallsBackToReload(t *testing.T) {
	oldKids := make([]*ir.Node, 0, 600)
	newKids := make([]*ir.Node, 0, 600)
	for i := 0; i < 300; i++ {
		oldKids = append(oldKids, ir.Elem("li", ir.Attrs{{"key", "old-" + itoa(i)}}))
		newKids = append(newKids, ir.Elem("li", ir.Attrs{{"key", "new-" + itoa(i)}}))
	}
	old := indexed(t, ir.Elem("ul", nil, oldKids...))
	new := indexed(t, ir.Elem("ul", nil, newKids...))

	res := DiffWithConfig(old, new, SmallConfig())
	if !res.ShouldReload {
		t.Fatalf("expected reload, got %d ops", len(res.Ops))
	}
	if res.Ops != nil {
		t.Fatalf("reload result carries ops")
	}
	if res.ReloadReason == "" {
		t.Fatalf("missing reload reason")
	}
}

func TestMaxDepthFallsBackToReload(t *testing.T) {
	build := func(depth int, leaf string) *ir.Node {
		n := ir.Elem("span", nil, ir.TextNode(leaf))
		for i := 0; i < depth; i++ {
			n = ir.Elem("div", nil, n, ir.Elem("i", nil))
		}
		return n
	}
	old := indexed(t, build(150, "a"))
	new := indexed(t, build(150, "b"))
	res := DiffWithConfig(old, new, SmallConfig())
	if !res.ShouldReload || res.Ops != nil {
		t.Fatalf("result %+v", res)
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
