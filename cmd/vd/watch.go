package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"

	"github.com/tola-format/vdom"
	"github.com/tola-format/vdom/cache"
	"github.com/tola-format/vdom/debug"
	"github.com/tola-format/vdom/id"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: watch takes at most one directory, got %v", cli.ErrUsage, args)
	}
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	lim, err := cfg.DiffConfig.limits()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer watcher.Close()

	store := cache.New()
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		if isPage(path) {
			return primePage(cfg, cc, store, dir, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "watching %s (%d pages)\n", dir, store.Len())

	changed := make(chan string)
	timers := map[string]*time.Timer{}
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if debug.Watch() {
				debug.Logf("watch: %s\n", ev)
			}
			if ev.Op&fsnotify.Create != 0 {
				// New subdirectories join the watch set.
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					watcher.Add(ev.Name)
					continue
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isPage(ev.Name) {
				continue
			}
			name := ev.Name
			if t, ok := timers[name]; ok {
				t.Reset(cfg.Debounce)
			} else {
				timers[name] = time.AfterFunc(cfg.Debounce, func() {
					changed <- name
				})
			}
		case name := <-changed:
			delete(timers, name)
			if err := rediff(cfg, cc, store, dir, name, lim); err != nil {
				fmt.Fprintf(cc.Out, "error: %v\n", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cc.Out, "watch error: %v\n", werr)
		}
	}
}

func isPage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// pageKey derives the cache key (and the page seed) from a file's
// location under the watched directory.
func pageKey(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	return "/" + filepath.ToSlash(rel)
}

func primePage(cfg *WatchConfig, cc *cli.Context, store *cache.Cache, dir, path string) error {
	key := pageKey(dir, path)
	doc, err := loadPage(cc, path, id.PageSeedFromPath(key))
	if err != nil {
		return err
	}
	store.Insert(key, doc)
	return nil
}

func rediff(cfg *WatchConfig, cc *cli.Context, store *cache.Cache, dir, path string, lim vdom.DiffConfig) error {
	key := pageKey(dir, path)
	doc, err := loadPage(cc, path, id.PageSeedFromPath(key))
	if err != nil {
		return err
	}
	prev, version := store.Swap(key, doc)
	if prev == nil {
		fmt.Fprintf(cc.Out, "%s: cached (v%d)\n", key, version)
		return nil
	}

	res := vdom.DiffWithConfig(prev, doc, lim)
	if !res.HasChanges() {
		return nil
	}
	color.NoColor = !cfg.useColor(cc.Out)
	color.New(color.FgCyan).Fprintf(cc.Out, "%s v%d:\n", key, version)
	_, err = emitResult(cfg.DiffConfig, cc, prev, res)
	return err
}
