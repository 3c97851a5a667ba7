package main

import (
	"io"

	"github.com/scott-cotton/cli"

	"github.com/tola-format/vdom/render"
)

func renderCmd(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if err := renderFile(cfg, cc, cc.Out, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			cc.Out.Write([]byte("\n"))
		}
	}
	return nil
}

func renderFile(cfg *RenderConfig, cc *cli.Context, w io.Writer, file string) error {
	doc, err := loadPage(cc, file, cfg.seed())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, render.Document(doc, cfg.renderConfig()))
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
