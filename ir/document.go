package ir

// Stage tags a pipeline transformation that has been applied to a
// document. The transform package validates stage prerequisites at
// runtime before running dependent stages.
type Stage string

const (
	StageRaw     Stage = "raw"
	StageIndexed Stage = "indexed"
)

// IndexStats counts nodes by kind and family, filled by the indexer.
type IndexStats struct {
	Elements int
	Texts    int
	Svg      int
	Links    int
	Headings int
	Media    int
}

func (s IndexStats) Nodes() int { return s.Elements + s.Texts }

// Document is a tree rooted at a single element plus the pipeline
// state recorded for it.
type Document struct {
	Root   *Node
	Stages []Stage
	Stats  IndexStats
}

func NewDocument(root *Node) *Document {
	return &Document{Root: root, Stages: []Stage{StageRaw}}
}

func (d *Document) HasStage(s Stage) bool {
	for _, have := range d.Stages {
		if have == s {
			return true
		}
	}
	return false
}

// MarkStage records a stage as applied, once.
func (d *Document) MarkStage(s Stage) {
	if !d.HasStage(s) {
		d.Stages = append(d.Stages, s)
	}
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Root = d.Root.Clone()
	cp.Stages = append([]Stage(nil), d.Stages...)
	return &cp
}
