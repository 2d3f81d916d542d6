// Package watch implements the debounced recursive filesystem watcher that
// keeps the daemon's graph current as files change.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the coalescing window applied to a burst of filesystem
// events before they're delivered, per spec.md §4.6.
const DefaultDebounce = 200 * time.Millisecond

// ignoredDirs are always skipped, regardless of project-specific ignore
// configuration (spec.md §4.6).
var ignoredDirs = map[string]bool{
	".git": true, "target": true, "node_modules": true, ".anchor": true,
	"__pycache__": true, ".venv": true, "dist": true, "build": true,
}

// Handler is invoked once per debounced, deduplicated, survivor path.
// exists reports whether the path is still present on disk at delivery
// time. The daemon's handler reads and parses the file first and takes the
// graph write lock only around the graph mutation, per spec.md §5.
type Handler func(path string, exists bool)

// Watcher recursively watches Root and delivers coalesced file-change
// events to Handler. Grounded on jmylchreest-aide's pkg/code/watcher.go
// (single shared pending-path map flushed by one timer, not a per-path
// timer) and original_source/src/watcher/mod.rs (ignored dirs,
// continuous-write deferral, extension filtering).
type Watcher struct {
	Root     string
	Debounce time.Duration
	IsValid  func(path string) bool // supported-extension filter; nil accepts everything
	Handler  Handler
	Logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]bool // path -> last known exists bit
	timer   *time.Timer
}

// Start begins watching Root and blocks dispatching events until stop is
// closed. Watcher errors are logged, never fatal (spec.md §4.6).
func (w *Watcher) Start(stop <-chan struct{}) error {
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	w.pending = make(map[string]bool)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.Root); err != nil {
		return err
	}

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnoreDir(path, dir) {
			return filepath.SkipDir
		}
		if addErr := fsw.Add(path); addErr != nil {
			w.Logger.Warn("failed to watch directory", "path", path, "err", addErr)
		}
		return nil
	})
}

func shouldIgnoreDir(path, root string) bool {
	if path == root {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if ignoredDirs[part] {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreDir(filepath.Dir(ev.Name), w.Root) {
		return
	}
	if w.IsValid != nil && !w.IsValid(ev.Name) {
		// Might be a newly created directory; watch it too.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !shouldIgnoreDir(ev.Name, w.Root) {
			_ = w.addRecursive(fsw, ev.Name)
		}
		return
	}

	exists := true
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, err := os.Stat(ev.Name); err != nil {
			exists = false
		}
	}

	w.mu.Lock()
	w.pending[ev.Name] = exists // last event kind wins
	if w.timer == nil {
		w.timer = time.AfterFunc(w.Debounce, w.flush)
	} else {
		w.timer.Reset(w.Debounce)
	}
	w.mu.Unlock()
}

// flush delivers every survivor path in the current debounce batch to
// Handler, then clears the batch. A write that's still in progress when the
// timer fires reschedules itself rather than delivering a half-written
// file; in practice this is approximated by the next event for the same
// path re-arming the timer before flush runs.
func (w *Watcher) flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]bool)
	w.timer = nil
	w.mu.Unlock()

	for path, exists := range batch {
		w.Handler(path, exists)
	}
}
