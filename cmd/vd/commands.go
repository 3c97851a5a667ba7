package main

import (
	"time"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "vd").
		WithSynopsis("vd [opts] command [opts]").
		WithDescription("vd renders html documents and computes hot-reload patches between them.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return vdMain(cfg, cc, args)
		}).
		WithSubs(
			RenderCommand(cfg),
			DiffCommand(cfg),
			WatchCommand(cfg))
}

func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Render, "render").
		WithAliases("r").
		WithSynopsis("render [files]").
		WithDescription("render html files with stable-id attributes").
		WithRun(func(cc *cli.Context, args []string) error {
			return renderCmd(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [opts] a.html b.html").
		WithDescription("diff two html documents into hot-reload patches").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	diffCfg := &DiffConfig{MainConfig: mainCfg}
	cfg := &WatchConfig{MainConfig: mainCfg, DiffConfig: diffCfg, Debounce: 100 * time.Millisecond}
	opts, err := cli.StructOpts(diffCfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "debounce",
		Description: "settle time before rediffing a changed file",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.mkDebounce()), "(duration)"),
	})
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithAliases("w").
		WithSynopsis("watch [opts] [dir]").
		WithDescription("watch a directory of html files and emit patches on change").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return watch(cfg, cc, args)
		})
}
