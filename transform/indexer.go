package transform

import (
	"strconv"
	"strings"

	"github.com/tola-format/vdom/debug"
	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/ir"
)

// Indexer assigns StableIDs and family payloads to every node in a
// document. Runs once per tree version; identical content always gets
// identical IDs, and a pure sibling reorder changes no ID at all.
type Indexer struct {
	seed id.PageSeed
}

func NewIndexer() *Indexer {
	return &Indexer{seed: id.ZeroSeed()}
}

// WithPageSeed namespaces all IDs under a page-specific seed.
func (ix *Indexer) WithPageSeed(seed id.PageSeed) *Indexer {
	ix.seed = seed
	return ix
}

func (ix *Indexer) Name() string         { return "index" }
func (ix *Indexer) Requires() []ir.Stage { return []ir.Stage{ir.StageRaw} }
func (ix *Indexer) Provides() ir.Stage   { return ir.StageIndexed }

func (ix *Indexer) Apply(doc *ir.Document) error {
	doc.Stats = ir.IndexStats{}
	root := doc.Root
	root.ID = id.ForElement(root.Tag, root.Attrs, 0, uint64(ix.seed))
	ix.annotate(root, &doc.Stats)
	ix.indexChildren(root, &doc.Stats)
	if debug.Index() {
		debug.Logf("index: %d elements, %d texts (%d svg, %d links, %d headings, %d media)\n",
			doc.Stats.Elements, doc.Stats.Texts,
			doc.Stats.Svg, doc.Stats.Links, doc.Stats.Headings, doc.Stats.Media)
	}
	return nil
}

// textContentKey is the shared content key of all text siblings: text
// nodes are disambiguated purely by occurrence, so editing one leaves
// its identity (and its siblings') intact.
var textContentKey = id.NewHasher().Str("__text__").Sum64()

// indexChildren assigns IDs to a sibling list. Each child's occurrence
// index counts the earlier siblings sharing its content key, and the
// parent's own ID seeds the whole list.
func (ix *Indexer) indexChildren(parent *ir.Node, stats *ir.IndexStats) {
	if len(parent.Children) == 0 {
		return
	}
	seed := parent.ID.Raw()
	seen := make(map[uint64]int, len(parent.Children))
	for _, child := range parent.Children {
		key := contentKey(child)
		occ := seen[key]
		seen[key] = occ + 1

		switch child.Kind {
		case ir.ElementKind:
			child.ID = id.ForElement(child.Tag, child.Attrs, occ, seed)
			ix.annotate(child, stats)
			ix.indexChildren(child, stats)
		case ir.TextKind:
			child.ID = id.ForText(occ, seed)
			stats.Texts++
		}
	}
}

// contentKey buckets siblings for occurrence counting: elements by
// tag plus key attributes, text nodes all together.
func contentKey(n *ir.Node) uint64 {
	if n.IsText() {
		return textContentKey
	}
	h := id.NewHasher().Str(n.Tag)
	for _, kv := range n.Attrs {
		if id.KeyAttr(kv[0]) {
			h = h.Str(kv[0]).Str(kv[1])
		}
	}
	return h.Sum64()
}

// annotate attaches the family payload and bumps the stats counters.
func (ix *Indexer) annotate(n *ir.Node, stats *ir.IndexStats) {
	stats.Elements++
	switch ir.IdentifyFamily(n.Tag, n.Attrs) {
	case ir.SvgFamily:
		stats.Svg++
		n.Family = svgData(n)
	case ir.LinkFamily:
		stats.Links++
		href, _ := n.GetAttr("href")
		n.Family = &ir.LinkData{Type: ir.ClassifyLink(href), Href: href}
	case ir.HeadingFamily:
		stats.Headings++
		origID, _ := n.GetAttr("id")
		n.Family = &ir.HeadingData{Level: ir.HeadingLevel(n.Tag), OriginalID: origID}
	case ir.MediaFamily:
		stats.Media++
		src, _ := n.GetAttr("src")
		n.Family = &ir.MediaData{
			Src:        src,
			IsSvgImage: strings.HasSuffix(strings.ToLower(src), ".svg"),
		}
	}
}

func svgData(n *ir.Node) *ir.SvgData {
	d := &ir.SvgData{IsRoot: n.Tag == "svg"}
	d.ViewBox, _ = n.GetAttr("viewBox")
	wa, _ := n.GetAttr("width")
	ha, _ := n.GetAttr("height")
	w, wok := parseDimension(wa)
	h, hok := parseDimension(ha)
	if wok && hok {
		d.Width, d.Height, d.HasDim = w, h, true
	}
	return d
}

// parseDimension reads a CSS-ish length, accepting a px suffix.
func parseDimension(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Index is the convenience path: build a document from a raw tree and
// run the indexer over it.
func Index(root *ir.Node, seed id.PageSeed) (*ir.Document, error) {
	doc := ir.NewDocument(root)
	if err := NewPipeline(NewIndexer().WithPageSeed(seed)).Run(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
