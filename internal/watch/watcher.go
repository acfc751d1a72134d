// Package watch monitors a directory tree and re-runs detection on
// Python files as they change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jparkin/whiff/internal/scanner"
	"github.com/jparkin/whiff/pkg/config"
)

// Watcher debounces filesystem events and invokes a callback once a
// changed Python file has been quiet for the debounce window.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	callback  func(path string)
	mu        sync.Mutex
	pending   map[string]time.Time
}

// New creates a watcher over root. A zero debounce defaults to 500ms.
func New(root string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      root,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function invoked per settled file change.
func (w *Watcher) SetCallback(cb func(path string)) {
	w.callback = cb
}

// Start watches the tree until the context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		for _, excluded := range w.config.Exclude.Dirs {
			if info.Name() == excluded {
				return filepath.SkipDir
			}
		}
		return w.fsWatcher.Add(path)
	})
	if err != nil {
		return err
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name
	if !scanner.IsPythonFile(path) || w.config.ShouldExclude(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending fires the callback for files quiet past the debounce
// window.
func (w *Watcher) processPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if w.callback != nil {
			go w.callback(path)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}
