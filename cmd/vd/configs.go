package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/tola-format/vdom"
	"github.com/tola-format/vdom/id"
	"github.com/tola-format/vdom/render"
)

type MainConfig struct {
	Color bool   `cli:"name=color desc='force colored output'"`
	Prod  bool   `cli:"name=prod desc='render without stable-id attributes'"`
	Path  string `cli:"name=path desc='page path used to seed stable ids'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) seed() id.PageSeed {
	if cfg.Path == "" {
		return id.ZeroSeed()
	}
	return id.PageSeedFromPath(cfg.Path)
}

func (cfg *MainConfig) renderConfig() render.Config {
	if cfg.Prod {
		return render.ProdConfig()
	}
	return render.DevConfig()
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type RenderConfig struct {
	*MainConfig

	Render *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Preset  string `cli:"name=preset desc='limits preset: default, large, small'"`
	File    string `cli:"name=config desc='yaml file with maxDepth/maxOps limits'"`
	Match   string `cli:"name=match desc='expression selecting patches to emit'"`
	Verbose bool   `cli:"name=v desc='show textual diffs for text updates'"`

	Diff *cli.Command
}

// limitsFile is the yaml shape of a -config file. Unset fields keep
// the preset's value.
type limitsFile struct {
	MaxDepth int `yaml:"maxDepth"`
	MaxOps   int `yaml:"maxOps"`
}

func (cfg *DiffConfig) limits() (vdom.DiffConfig, error) {
	var lim vdom.DiffConfig
	switch cfg.Preset {
	case "", "default":
		lim = vdom.DefaultConfig()
	case "large":
		lim = vdom.LargeConfig()
	case "small":
		lim = vdom.SmallConfig()
	default:
		return lim, fmt.Errorf("%w: unknown preset %q", cli.ErrUsage, cfg.Preset)
	}
	if cfg.File == "" {
		return lim, nil
	}
	d, err := os.ReadFile(cfg.File)
	if err != nil {
		return lim, fmt.Errorf("could not read %q: %w", cfg.File, err)
	}
	var lf limitsFile
	if err := yaml.Unmarshal(d, &lf); err != nil {
		return lim, fmt.Errorf("could not parse %q: %w", cfg.File, err)
	}
	if lf.MaxDepth > 0 {
		lim.MaxDepth = lf.MaxDepth
	}
	if lf.MaxOps > 0 {
		lim.MaxOps = lf.MaxOps
	}
	return lim, nil
}

type WatchConfig struct {
	*MainConfig
	DiffConfig *DiffConfig

	Debounce time.Duration

	Watch *cli.Command
}

func (cfg *WatchConfig) mkDebounce() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		cfg.Debounce = d
		return d, nil
	}
}
