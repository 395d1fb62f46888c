package style

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a stylesheet to a GDK display. It switches to the
// high contrast sheet while high contrast is on.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	dir      string

	name     string
	contrast bool
	sheet    *Sheet
	watcher  *Watcher
	ctx      context.Context
}

// NewLoader creates a loader for the named stylesheet.
func NewLoader(name string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		dir:      Dir(),
		name:     name,
	}
}

// Load resolves and loads the current stylesheet into the provider.
func (l *Loader) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()
}

func (l *Loader) loadLocked() {
	name := l.name
	if l.contrast {
		name = ContrastName
	}

	l.sheet = Resolve(l.dir, name)
	l.provider.LoadFromString(l.sheet.CSS)
	l.logger.Debug("loaded stylesheet", "name", l.sheet.Name, "path", l.sheet.Path)

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
	l.startLocked()
}

// SetHighContrast switches between the configured and the high contrast
// stylesheet.
func (l *Loader) SetHighContrast(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.contrast == on && l.sheet != nil {
		return
	}
	l.contrast = on
	l.loadLocked()
}

// Apply attaches the provider to display, or the default display.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

// StartHotReload watches a user stylesheet and reloads it on change.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = ctx
	if l.watcher == nil {
		l.startLocked()
	}
}

func (l *Loader) startLocked() {
	if l.ctx == nil || l.sheet == nil || l.sheet.Embedded {
		return
	}

	l.watcher = NewWatcher(l.sheet, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
		})
	})
	if err := l.watcher.Start(l.ctx); err != nil {
		l.logger.Warn("failed to start stylesheet watcher", "error", err)
	}
}

// StopHotReload stops watching the stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = nil
	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}

// Sheet returns the loaded stylesheet.
func (l *Loader) Sheet() *Sheet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sheet
}
