package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"rigal/internal/config"
	"rigal/internal/logging"
	"rigal/internal/metrics"
	"rigal/internal/report"
)

// debounce is how long the tree must stay quiet before a rebuild starts.
var debounce = 500 * time.Millisecond

// BuildFunc receives the outcome of every build in watch mode.
type BuildFunc func(*report.Summary, error)

// Watch builds once and then rebuilds whenever something changes below the
// input root or the theme, until ctx is cancelled. Build errors are passed
// to onBuild and never stop the loop.
func Watch(ctx context.Context, cfg *config.Config, opts Options, onBuild BuildFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	w := &treeWatcher{cfg: cfg, watcher: watcher, watched: make(map[string]bool)}
	w.addTree(cfg.Input)
	w.addTree(cfg.Theme)
	logging.Info("Watching %d directories for changes", len(w.watched))

	onBuild(Run(ctx, cfg, opts))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-timer.C:
			logging.Info("Change detected, rebuilding")
			onBuild(Run(ctx, cfg, opts))
		}
	}
}

type treeWatcher struct {
	cfg     *config.Config
	watcher *fsnotify.Watcher
	watched map[string]bool
}

// addTree watches root and every non-hidden directory below it, except the
// output directory.
func (w *treeWatcher) addTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Debug("Cannot watch %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.isOutput(path) {
			return filepath.SkipDir
		}
		if w.watched[path] {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			logging.Warn("failed to add path to watcher %s: %v", path, err)
			metrics.WatcherErrors.Inc()
			return nil
		}
		w.watched[path] = true
		return nil
	})
	if err != nil {
		logging.Error("failed to walk %s for watcher: %v", root, err)
		metrics.WatcherErrors.Inc()
	}
	metrics.WatchedDirectories.Set(float64(len(w.watched)))
}

// handle processes one event and reports whether it should trigger a rebuild.
func (w *treeWatcher) handle(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") || w.isOutput(event.Name) {
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	switch {
	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if w.watched[event.Name] {
			delete(w.watched, event.Name)
			metrics.WatchedDirectories.Set(float64(len(w.watched)))
		}
	}
	return true
}

func (w *treeWatcher) isOutput(path string) bool {
	rel, err := filepath.Rel(w.cfg.Output, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
