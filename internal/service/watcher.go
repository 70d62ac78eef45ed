package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Reloader is what the watcher triggers; *GraphService implements it.
type Reloader interface {
	Load(ctx context.Context) error
}

// Watcher reloads the graph when any of its source files changes. Bursts of
// events are coalesced into a single reload.
type Watcher struct {
	reloader Reloader
	files    map[string]struct{}
	dirs     []string
	logger   *slog.Logger
	debounce time.Duration
	onReload func(error)
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle before
// reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook registers fn to be called with the result of every reload.
// fn runs on the watcher goroutine and must not block.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher watches files and calls r.Load after they change. Parent
// directories are watched, not the files themselves, so editors and tools
// that replace a file by rename are still noticed.
func NewWatcher(r Reloader, files []string, logger *slog.Logger, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		reloader: r,
		files:    make(map[string]struct{}, len(files)),
		logger:   logger.With("component", "graph-watcher"),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	seenDir := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seenDir[dir]; !ok {
			seenDir[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching graph sources", "dirs", w.dirs)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("graph source changed", "path", ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fs watcher error", "error", err)

		case <-timer.C:
			pending = false
			err := w.reloader.Load(ctx)
			if err != nil {
				w.logger.Error("graph reload failed, keeping previous graph", "error", err)
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
