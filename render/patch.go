package render

import (
	"github.com/tola-format/vdom"
)

// Anchor is the wire form of a patch anchor.
type Anchor struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Patch is one transport-ready operation: targets and anchors as hex
// StableIDs, inserted or replaced markup pre-rendered to HTML. The
// field set per op mirrors vdom.PatchOp.
type Patch struct {
	Op     string            `json:"op"`
	Target string            `json:"target,omitempty"`
	HTML   string            `json:"html,omitempty"`
	Text   *string           `json:"text,omitempty"`
	IsSVG  bool              `json:"is_svg,omitempty"`
	Anchor *Anchor           `json:"anchor,omitempty"`
	To     *Anchor           `json:"to,omitempty"`
	Attrs  []vdom.AttrChange `json:"attrs,omitempty"`
}

func wireAnchor(a vdom.Anchor) *Anchor {
	return &Anchor{Kind: a.Kind.String(), ID: a.ID.AttrValue()}
}

// Patches renders every op of a diff result for transport. The
// result's reload decision is the caller's to forward; a reloading
// result has no ops and yields nil.
func Patches(res *vdom.DiffResult, cfg Config) []Patch {
	if res.ShouldReload || len(res.Ops) == 0 {
		return nil
	}
	out := make([]Patch, 0, len(res.Ops))
	for i := range res.Ops {
		out = append(out, renderOp(&res.Ops[i], cfg))
	}
	return out
}

func renderOp(op *vdom.PatchOp, cfg Config) Patch {
	p := Patch{Op: op.Kind.String()}
	switch op.Kind {
	case vdom.OpReplace:
		p.Target = op.Target.AttrValue()
		p.HTML = Node(op.Element, cfg)
	case vdom.OpUpdateText:
		p.Target = op.Target.AttrValue()
		text := op.Text
		p.Text = &text
	case vdom.OpReplaceChildren:
		p.Target = op.Target.AttrValue()
		p.HTML = Children(op.Children, cfg, op.IsSVG)
		p.IsSVG = op.IsSVG
	case vdom.OpRemove:
		p.Target = op.Target.AttrValue()
	case vdom.OpInsert:
		p.Anchor = wireAnchor(op.Anchor)
		p.HTML = Node(op.Node, cfg)
	case vdom.OpMove:
		p.Target = op.Target.AttrValue()
		p.To = wireAnchor(op.Anchor)
	case vdom.OpUpdateAttrs:
		p.Target = op.Target.AttrValue()
		p.Attrs = op.Changes
	}
	return p
}
