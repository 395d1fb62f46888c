package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for filesystem activity to
// settle before reporting a change.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports when cursor themes are installed or removed under the
// base directories.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	dirs     []string
	debounce time.Duration

	onChangeCallback func()

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}

	running bool
}

// NewWatcher creates a watcher for the given base directories.
func NewWatcher(dirs []string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	expanded := make([]string, len(dirs))
	for i, d := range dirs {
		expanded[i] = expandPath(d)
	}

	return &Watcher{
		logger:   logger,
		dirs:     expanded,
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets the settle time before the callback fires.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetChangeCallback sets the callback invoked after themes change. It runs
// on the watcher's timer goroutine.
func (w *Watcher) SetChangeCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins watching. Base directories that do not exist are ignored.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	watched := 0
	for _, dir := range w.dirs {
		if !isDir(dir) {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Debug("failed to watch theme directory", "dir", dir, "error", err)
			continue
		}
		watched++
		w.addThemeDirs(fw, dir)
	}

	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.watchLoop(ctx)

	w.logger.Debug("cursor theme watcher started", "dirs", watched)
	return nil
}

// addThemeDirs watches each theme directory so a cursors directory created
// after the theme itself is noticed.
func (w *Watcher) addThemeDirs(fw *fsnotify.Watcher, base string) {
	children, err := os.ReadDir(base)
	if err != nil {
		return
	}
	for _, child := range children {
		path := filepath.Join(base, child.Name())
		if isDir(path) {
			_ = fw.Add(path)
		}
	}
}

// Stop stops watching and cancels any pending callback.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	<-w.doneCh
	_ = w.watcher.Close()
	w.logger.Debug("cursor theme watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("cursor theme watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) && w.isBaseDir(filepath.Dir(event.Name)) && isDir(event.Name) {
		_ = w.watcher.Add(event.Name)
	}

	w.logger.Debug("cursor theme directory changed", "path", event.Name, "op", event.Op.String())
	w.schedule()
}

func (w *Watcher) isBaseDir(dir string) bool {
	for _, d := range w.dirs {
		if filepath.Clean(d) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.RLock()
	callback := w.onChangeCallback
	running := w.running
	w.mu.RUnlock()

	if running && callback != nil {
		callback()
	}
}
