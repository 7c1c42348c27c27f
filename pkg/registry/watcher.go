package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for further changes before
// clearing the cache.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is implemented by sources that keep an index of files on disk.
type Reloader interface {
	Reload() error
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a batch of changes is applied.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloader rebuilds a source index before the cache is cleared.
func WithReloader(reloader Reloader) WatchOption {
	return func(w *Watcher) {
		w.reloader = reloader
	}
}

// WithWatchLogger sets the watcher logger. Defaults to the registry logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnChange is called after each applied batch with the changed paths.
func OnChange(fn func(paths []string)) WatchOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// Watcher clears a registry cache whenever descriptor files under a
// directory change.
type Watcher struct {
	registry *Registry
	dir      string
	debounce time.Duration
	reloader Reloader
	logger   *slog.Logger
	onChange func(paths []string)

	fsw *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	started bool
	done    chan struct{}
}

// NewWatcher prepares a watcher for dir. Call Start to begin watching.
func NewWatcher(reg *Registry, dir string, opts ...WatchOption) (*Watcher, error) {
	if reg == nil {
		return nil, errors.New("registry: watcher requires a registry")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("registry: watcher requires a directory")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("registry: create watcher: %w", err)
	}
	w := &Watcher{
		registry: reg,
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   reg.logger,
		fsw:      fsw,
		pending:  make(map[string]fsnotify.Op),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Start adds watches for dir and its subdirectories and processes events
// until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := d.Name()
		if strings.HasPrefix(base, ".") && path != w.dir {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		_ = w.fsw.Close()
		return fmt.Errorf("registry: watch %s: %w", w.dir, err)
	}

	w.started = true
	go w.loop(ctx)
	w.logger.Info("template watcher started", "dir", w.dir, "debounce", w.debounce)
	return nil
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	err := w.fsw.Close()
	if w.started {
		<-w.done
	}
	return err
}

// Done is closed once the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = w.fsw.Close()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", "error", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if isDir(event.Name) {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.Warn("watch new directory failed", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !isDescriptorFile(event.Name) || event.Op == fsnotify.Chmod {
		return
	}
	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()
	sort.Strings(paths)

	if w.reloader != nil {
		if err := w.reloader.Reload(); err != nil {
			w.logger.Warn("template source reload failed", "error", err)
		}
	}
	w.registry.ClearCache()
	w.logger.Info("templates changed, cache cleared", "files", len(paths))
	if w.onChange != nil {
		w.onChange(paths)
	}
}

func isDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
