// Package transform runs document pipeline stages. Each Transform
// declares which stages it needs and which it provides; the Pipeline
// checks prerequisites at runtime so a mis-ordered pipeline fails
// loudly instead of producing a half-processed tree.
package transform

import (
	"fmt"

	"github.com/tola-format/vdom/ir"
)

// Transform is one pipeline stage over a document, applied in place.
type Transform interface {
	Name() string
	Requires() []ir.Stage
	Provides() ir.Stage
	Apply(doc *ir.Document) error
}

// Pipeline applies transforms in order.
type Pipeline struct {
	transforms []Transform
}

func NewPipeline(ts ...Transform) *Pipeline {
	return &Pipeline{transforms: ts}
}

// Add appends a transform.
func (p *Pipeline) Add(t Transform) *Pipeline {
	p.transforms = append(p.transforms, t)
	return p
}

// Run applies every transform in order, verifying declared
// prerequisites against the document's recorded stages before each.
func (p *Pipeline) Run(doc *ir.Document) error {
	for _, t := range p.transforms {
		for _, req := range t.Requires() {
			if !doc.HasStage(req) {
				return fmt.Errorf("transform %q requires stage %q which has not run", t.Name(), req)
			}
		}
		if err := t.Apply(doc); err != nil {
			return fmt.Errorf("transform %q: %w", t.Name(), err)
		}
		doc.MarkStage(t.Provides())
	}
	return nil
}
