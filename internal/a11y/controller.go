// Package a11y reads and writes the desktop accessibility options behind
// the settings dialog.
package a11y

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/settings"
)

// Change identifies which dialog state an external settings change affects.
type Change int

const (
	ChangeHighContrast Change = iota
	ChangeLargePrint
	ChangeCursorTheme
	ChangeCursorSize
)

func (c Change) String() string {
	switch c {
	case ChangeHighContrast:
		return "high-contrast"
	case ChangeLargePrint:
		return "large-print"
	case ChangeCursorTheme:
		return "cursor-theme"
	case ChangeCursorSize:
		return "cursor-size"
	default:
		return fmt.Sprintf("change(%d)", int(c))
	}
}

// Controller owns one store per schema. It is safe to call from a single
// goroutine at a time; the GTK dialog calls it from the main loop.
type Controller struct {
	logger *slog.Logger
	cfg    *config.Config

	mouse     settings.Store
	iface     settings.Store
	marco     settings.Store
	font      settings.Store
	visualAT  settings.Store
	mobileAT  settings.Store
	allStores []settings.Store

	screenDPI func() float64

	mu      sync.Mutex
	cancels []func()
}

// Options configures a Controller.
type Options struct {
	Backend settings.Backend
	Config  *config.Config
	Logger  *slog.Logger

	// ScreenDPI reports the monitor DPI. Nil uses the configured fallback.
	ScreenDPI func() float64
}

// NewController opens the stores for every schema. On failure the stores
// opened so far are closed.
func NewController(opts Options) (*Controller, error) {
	if opts.Backend == nil {
		return nil, errors.New("settings backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	c := &Controller{
		logger:    logger,
		cfg:       cfg,
		screenDPI: opts.ScreenDPI,
	}
	if c.screenDPI == nil {
		fallback := cfg.Font.FallbackDPI
		c.screenDPI = func() float64 { return fallback }
	}

	targets := []struct {
		schema string
		dst    *settings.Store
	}{
		{SchemaMouse, &c.mouse},
		{SchemaInterface, &c.iface},
		{SchemaMarco, &c.marco},
		{SchemaFont, &c.font},
		{SchemaVisualAT, &c.visualAT},
		{SchemaMobileAT, &c.mobileAT},
	}
	for _, t := range targets {
		s, err := opts.Backend.Open(t.schema)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to open %s: %w", t.schema, err)
		}
		*t.dst = s
		c.allStores = append(c.allStores, s)
	}

	return c, nil
}

// Close cancels watches and closes every store.
func (c *Controller) Close() error {
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}

	var errs []error
	for _, s := range c.allStores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.allStores = nil
	return errors.Join(errs...)
}

// Config returns the controller's configuration.
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// ScreenDPI returns the current monitor DPI.
func (c *Controller) ScreenDPI() float64 {
	return c.screenDPI()
}

// HighContrast reports whether the high contrast GTK theme is active.
func (c *Controller) HighContrast() (bool, error) {
	theme, err := c.iface.String(KeyGTKTheme)
	if err != nil {
		return false, err
	}
	return theme == c.cfg.Contrast.GTKTheme, nil
}

// SetHighContrast writes the high contrast GTK, icon and window manager
// themes, or resets all three to their defaults.
func (c *Controller) SetHighContrast(enabled bool) error {
	if enabled {
		return errors.Join(
			c.iface.SetString(KeyGTKTheme, c.cfg.Contrast.GTKTheme),
			c.iface.SetString(KeyIconTheme, c.cfg.Contrast.IconTheme),
			c.marco.SetString(KeyWMTheme, c.cfg.Contrast.WMTheme),
		)
	}
	return errors.Join(
		c.iface.Reset(KeyGTKTheme),
		c.iface.Reset(KeyIconTheme),
		c.marco.Reset(KeyWMTheme),
	)
}

// DPI returns the stored font DPI.
func (c *Controller) DPI() (float64, error) {
	return c.font.Double(KeyDPI)
}

// LargePrint reports whether the stored DPI exceeds the screen DPI.
func (c *Controller) LargePrint() (bool, error) {
	dpi, err := c.font.Double(KeyDPI)
	if err != nil {
		return false, err
	}
	return dpi > c.ScreenDPI(), nil
}

// SetLargePrint scales the font DPI up from the screen DPI, or resets it.
func (c *Controller) SetLargePrint(enabled bool) error {
	if !enabled {
		return c.font.Reset(KeyDPI)
	}
	dpi := c.cfg.Font.LargePrintFactor * c.ScreenDPI()
	c.logger.Debug("enabling large print", "dpi", dpi)
	return c.font.SetDouble(KeyDPI, dpi)
}

// CursorTheme returns the stored cursor theme name.
func (c *Controller) CursorTheme() (string, error) {
	return c.mouse.String(KeyCursorTheme)
}

// SetCursorTheme stores a cursor theme name.
func (c *Controller) SetCursorTheme(name string) error {
	return c.mouse.SetString(KeyCursorTheme, name)
}

// CursorSize returns the stored cursor size.
func (c *Controller) CursorSize() (int, error) {
	return c.mouse.Int(KeyCursorSize)
}

// SetCursorSize stores size after clamping it to the configured range and
// step. It returns the value written.
func (c *Controller) SetCursorSize(size int) (int, error) {
	size = SnapCursorSize(size, c.cfg.Cursor.MinSize, c.cfg.Cursor.MaxSize, c.cfg.Cursor.SizeStep)
	return size, c.mouse.SetInt(KeyCursorSize, size)
}

// SnapCursorSize clamps size to lo..hi and rounds it to the nearest
// multiple of step above lo.
func SnapCursorSize(size, lo, hi, step int) int {
	if size < lo {
		return lo
	}
	if size > hi {
		size = hi
	}
	if step > 1 {
		size = lo + ((size-lo+step/2)/step)*step
		if size > hi {
			size -= step
		}
	}
	return size
}

// ScreenReaderAutostart reports whether the screen reader starts with the
// session.
func (c *Controller) ScreenReaderAutostart() (bool, error) {
	return c.visualAT.Bool(KeyStartup)
}

// OnscreenKeyboardAutostart reports whether the on-screen keyboard starts
// with the session.
func (c *Controller) OnscreenKeyboardAutostart() (bool, error) {
	return c.mobileAT.Bool(KeyStartup)
}

// AccessibilityEnabled reports the session-wide assistive technology flag.
func (c *Controller) AccessibilityEnabled() (bool, error) {
	return c.iface.Bool(KeyAccessibility)
}

// PrepareAutostart points the assistive technology launchers at the
// configured screen reader and on-screen keyboard.
func (c *Controller) PrepareAutostart() error {
	return errors.Join(
		c.visualAT.SetString(KeyExec, c.cfg.Helpers.ScreenReader),
		c.mobileAT.SetString(KeyExec, c.cfg.Helpers.OnscreenKeyboard),
	)
}

// Save writes the autostart flags. When either tool is requested the
// assistive technology flag must be on; if that flag changes, Save writes
// it and reports that the user has to log out for it to take effect.
func (c *Controller) Save(screenReader, onscreenKeyboard bool) (bool, error) {
	if err := c.visualAT.SetBool(KeyStartup, screenReader); err != nil {
		return false, err
	}
	if err := c.mobileAT.SetBool(KeyStartup, onscreenKeyboard); err != nil {
		return false, err
	}

	need := screenReader || onscreenKeyboard
	enabled, err := c.iface.Bool(KeyAccessibility)
	if err != nil {
		return false, err
	}
	if enabled == need {
		return false, nil
	}

	if err := c.iface.SetBool(KeyAccessibility, need); err != nil {
		return false, err
	}
	c.logger.Info("assistive technology support changed, logout required", "enabled", need)
	return true, nil
}

// Revert resets the DPI, themes and cursor settings to their defaults.
func (c *Controller) Revert() error {
	return errors.Join(
		c.font.Reset(KeyDPI),
		c.iface.Reset(KeyGTKTheme),
		c.iface.Reset(KeyIconTheme),
		c.marco.Reset(KeyWMTheme),
		c.mouse.Reset(KeyCursorTheme),
		c.mouse.Reset(KeyCursorSize),
	)
}

// Watch calls fn for changes made by anyone to the keys the dialog
// mirrors. The returned function removes the watch.
func (c *Controller) Watch(fn func(Change)) func() {
	subs := []struct {
		store  settings.Store
		key    string
		change Change
	}{
		{c.font, KeyDPI, ChangeLargePrint},
		{c.iface, KeyGTKTheme, ChangeHighContrast},
		{c.iface, KeyIconTheme, ChangeHighContrast},
		{c.marco, KeyWMTheme, ChangeHighContrast},
		{c.mouse, KeyCursorTheme, ChangeCursorTheme},
		{c.mouse, KeyCursorSize, ChangeCursorSize},
	}

	var cancels []func()
	for _, s := range subs {
		change := s.change
		cancels = append(cancels, s.store.Subscribe(s.key, func(string) { fn(change) }))
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
		})
	}

	c.mu.Lock()
	c.cancels = append(c.cancels, cancel)
	c.mu.Unlock()
	return cancel
}
