package style

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Watcher polls a stylesheet file and reports content changes.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	sheet        *Sheet
	pollInterval time.Duration

	onChangeCallback func(css string)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a new stylesheet watcher.
func NewWatcher(sheet *Sheet, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:       logger,
		sheet:        sheet,
		pollInterval: time.Second,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetPollInterval sets the polling interval for file changes.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback invoked with the new CSS. It runs on
// the watcher goroutine.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins watching the sheet. Bundled sheets are never watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	if w.sheet == nil || w.sheet.Embedded {
		w.mu.Unlock()
		w.logger.Debug("not watching bundled stylesheet")
		return nil
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval := w.pollInterval
	w.mu.Unlock()

	go w.watchLoop(ctx, interval)

	w.logger.Debug("stylesheet watcher started", "path", w.sheet.Path, "interval", interval)
	return nil
}

// Stop stops watching the sheet.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("stylesheet watcher stopped")
}

// UpdateSheet switches to watching a different sheet.
func (w *Watcher) UpdateSheet(sheet *Sheet) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sheet = sheet
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

func (w *Watcher) checkForChanges() {
	w.mu.RLock()
	sheet := w.sheet
	callback := w.onChangeCallback
	w.mu.RUnlock()

	if sheet == nil || sheet.Embedded {
		return
	}

	if _, err := os.Stat(sheet.Path); err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug("stylesheet no longer exists", "path", sheet.Path)
		}
		return
	}

	changed, err := sheet.Reload()
	if err != nil {
		w.logger.Warn("failed to reload stylesheet", "path", sheet.Path, "error", err)
		return
	}

	if changed {
		w.logger.Info("stylesheet changed, reloading", "path", sheet.Path)
		if callback != nil {
			callback(sheet.CSS)
		}
	}
}
