// Package watch rebuilds a site when its sources change and serves the generated pages.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/jwtly10/mite"
	"github.com/jwtly10/mite/internal/config"
)

// BuildFunc runs one build of the site.
type BuildFunc func(ctx context.Context) error

type Watcher struct {
	root     string
	debounce time.Duration
	build    BuildFunc
}

func New(root string, debounce time.Duration, build BuildFunc) *Watcher {
	return &Watcher{root: root, debounce: debounce, build: build}
}

// Relevant reports whether a change to path can affect the generated site. Outputs
// (index.html, the generated program) never are, so writing them does not loop.
func Relevant(path string) bool {
	base := filepath.Base(path)

	// Ignore hidden files and editor temp/swap files
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") ||
		strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}

	switch filepath.Ext(base) {
	case ".md", mite.TemplateExt:
		return true
	}
	return base == config.FileName
}

// Run watches the site root recursively until ctx is done. Relevant changes are
// debounced and trigger one build; a failed build is logged and watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, w.root); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", w.root, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !strings.HasPrefix(fi.Name(), ".") {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			if !Relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			slog.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-timer.C:
			slog.Info("change detected, rebuilding site")
			start := time.Now()
			if err := w.build(ctx); err != nil {
				slog.Warn("rebuild failed", "error", err)
				continue
			}
			slog.Info("site rebuilt", "duration", time.Since(start))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// Options select the long-running modes of the CLI.
type Options struct {
	Root     string
	Watch    bool
	Serve    bool
	Addr     string
	Debounce time.Duration
	Build    BuildFunc
}

// Run supervises the watcher and the preview server until ctx is done or one of them
// fails.
func Run(ctx context.Context, opts Options) error {
	group, groupctx := errgroup.WithContext(ctx)
	if opts.Watch {
		w := New(opts.Root, opts.Debounce, opts.Build)
		group.Go(func() error {
			return w.Run(groupctx)
		})
	}
	if opts.Serve {
		group.Go(func() error {
			return Serve(groupctx, opts.Addr, opts.Root)
		})
	}
	return group.Wait()
}
