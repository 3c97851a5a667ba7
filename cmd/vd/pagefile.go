package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/tola-format/vdom/convert"
	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/ir"
	"github.com/tola-format/vdom/transform"
)

// loadPage reads an html file ("-" for the command input), parses it
// and runs the indexing pipeline over it.
func loadPage(cc *cli.Context, file string, seed id.PageSeed) (*ir.Document, error) {
	var r io.Reader
	if file == "-" {
		r = cc.In
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	doc, err := convert.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}
	indexer := transform.NewIndexer().WithPageSeed(seed)
	if err := transform.NewPipeline(indexer).Run(doc); err != nil {
		return nil, fmt.Errorf("error indexing %s: %w", file, err)
	}
	return doc, nil
}
