package routesapi

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rescans a DirSource whenever its directory tree changes.
// Bursts of events are coalesced into one rescan.
type Watcher struct {
	source   *DirSource
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func([]RouteInfo)
	logger   *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnChange sets a callback invoked with the routes after each rescan.
func WithOnChange(fn func([]RouteInfo)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a watcher over every directory below src.Dir().
func NewWatcher(src *DirSource, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		source:   src,
		watcher:  fw,
		debounce: 200 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(src.Dir()); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is cancelled. It closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories must be watched too.
				_ = w.addTree(event.Name)
			}
			w.logger.Debug("routes directory changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("route watcher error", "error", err)

		case <-timer.C:
			w.rescan(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name)[0] != '.'
}

func (w *Watcher) rescan(ctx context.Context) {
	if err := w.source.Refresh(); err != nil {
		w.logger.Warn("route rescan failed, keeping previous routes", "error", err)
		return
	}
	routes, _ := w.source.Routes(ctx)
	w.logger.Info("routes rescanned", "routes", len(routes))
	if w.onChange != nil {
		w.onChange(routes)
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
