package main

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tola-format/vdom"
	"github.com/tola-format/vdom/ir"
	"github.com/tola-format/vdom/render"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	lim, err := cfg.limits()
	if err != nil {
		return err
	}
	oldDoc, err := loadPage(cc, args[0], cfg.seed())
	if err != nil {
		return err
	}
	newDoc, err := loadPage(cc, args[1], cfg.seed())
	if err != nil {
		return err
	}

	res := vdom.DiffWithConfig(oldDoc, newDoc, lim)
	changed, err := emitResult(cfg, cc, oldDoc, res)
	if err != nil {
		return err
	}
	if changed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// emitResult writes the diff outcome and reports whether the
// documents differ.
func emitResult(cfg *DiffConfig, cc *cli.Context, oldDoc *ir.Document, res *vdom.DiffResult) (bool, error) {
	useColor := cfg.useColor(cc.Out)
	color.NoColor = !useColor

	if res.ShouldReload {
		_, err := color.New(color.FgRed, color.Bold).Fprintf(cc.Out, "reload: %s\n", res.ReloadReason)
		return true, err
	}

	patches := render.Patches(res, cfg.renderConfig())
	if cfg.Match != "" {
		prog, err := compileMatch(cfg.Match)
		if err != nil {
			return false, fmt.Errorf("%w: bad match expression: %w", cli.ErrUsage, err)
		}
		patches, err = filterPatches(prog, patches)
		if err != nil {
			return false, err
		}
	}

	oldTexts := singleTexts(oldDoc)
	enc := json.NewEncoder(cc.Out)
	for _, p := range patches {
		if cfg.Verbose && p.Op == "update_text" && p.Text != nil {
			if err := printTextDiff(cfg, cc, oldTexts, p); err != nil {
				return false, err
			}
		}
		if err := enc.Encode(p); err != nil {
			return false, err
		}
	}
	return len(patches) > 0, nil
}

func compileMatch(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.AsBool())
}

// filterPatches keeps the patches for which the expression is true.
// The expression sees each patch as op, target, text, html, is_svg.
func filterPatches(prog *vm.Program, patches []render.Patch) ([]render.Patch, error) {
	var out []render.Patch
	for _, p := range patches {
		text := ""
		if p.Text != nil {
			text = *p.Text
		}
		env := map[string]any{
			"op":     p.Op,
			"target": p.Target,
			"text":   text,
			"html":   p.HTML,
			"is_svg": p.IsSVG,
		}
		keep, err := expr.Run(prog, env)
		if err != nil {
			return nil, fmt.Errorf("match expression: %w", err)
		}
		if keep == true {
			out = append(out, p)
		}
	}
	return out, nil
}

// printTextDiff writes a word-level diff of an update_text op as a
// comment line above the patch.
func printTextDiff(cfg *DiffConfig, cc *cli.Context, oldTexts map[string]string, p render.Patch) error {
	before, ok := oldTexts[p.Target]
	if !ok {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, *p.Text, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	var rendered string
	if cfg.useColor(cc.Out) {
		rendered = dmp.DiffPrettyText(diffs)
	} else {
		rendered = fmt.Sprintf("%q -> %q", before, *p.Text)
	}
	_, err := fmt.Fprintf(cc.Out, "# %s: %s\n", p.Target, rendered)
	return err
}

// singleTexts maps element IDs to their single-text-child content, the
// shape update_text ops address.
func singleTexts(doc *ir.Document) map[string]string {
	out := map[string]string{}
	var walk func(n *ir.Node)
	walk = func(n *ir.Node) {
		if !n.IsElement() {
			return
		}
		if len(n.Children) == 1 && n.Children[0].IsText() {
			out[n.ID.AttrValue()] = n.Children[0].Text
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)
	return out
}
