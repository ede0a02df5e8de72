package formula

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/starford/tonic/internal/storage"
)

// ReloadCallback is called after a watcher-driven reload changed the catalog.
type ReloadCallback func(count int)

// DefaultDebounce is the quiet period before a burst of file events triggers
// a reload.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the formula directory and reloads the
// catalog when YAML files change, until ctx is cancelled. Bursts of events
// (editors writing temp files, renames) collapse into one reload after
// the debounce period. New subdirectories are added to the watch list.
func Watch(ctx context.Context, c *Catalog, store storage.Provider, root string, wait time.Duration, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	if wait <= 0 {
		wait = DefaultDebounce
	}
	debounced := debounce.New(wait)

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		changed, err := Reload(c, store, logger)
		if err != nil {
			logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
			return
		}
		if changed && cb != nil {
			cb(c.Len())
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					debounced(reload)
					continue
				}
			}

			if !storage.IsFormulaFile(ev.Name) {
				continue
			}
			logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			debounced(reload)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
