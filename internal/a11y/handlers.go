package a11y

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

var (
	// ErrUnknownOption is returned for control ids not in the table.
	ErrUnknownOption = errors.New("unknown option")
	// ErrReadOnly is returned when setting an action-only control.
	ErrReadOnly = errors.New("option cannot be set")
	// ErrUnknownTheme is returned when a cursor theme is not installed.
	ErrUnknownTheme = errors.New("cursor theme not installed")
)

// ControlID names a dialog control.
type ControlID string

const (
	ControlHighContrast     ControlID = "high-contrast"
	ControlLargePrint       ControlID = "large-print"
	ControlCursorTheme      ControlID = "cursor-theme"
	ControlCursorSize       ControlID = "cursor-size"
	ControlScreenReader     ControlID = "screen-reader"
	ControlOnscreenKeyboard ControlID = "onscreen-keyboard"
	ControlScreenRuler      ControlID = "screen-ruler"
	ControlKeyboardPanel    ControlID = "keyboard-accessibility"
	ControlHelp             ControlID = "help"
)

// ControlKind is the widget type a control is shown with.
type ControlKind int

const (
	KindToggle ControlKind = iota
	KindChoice
	KindRange
	KindAction
)

// Section groups controls in the dialog.
type Section string

const (
	SectionVisual Section = "Visual accessibility"
	SectionTools  Section = "Tools"
	SectionOther  Section = "Other options"
)

// Launcher starts helper programs.
type Launcher interface {
	Launch(ctx context.Context, commandLine string) error
	IsRunning(ctx context.Context, pattern string) (bool, error)
}

// Context carries the state handlers act on. Screen reader and on-screen
// keyboard choices stay pending here until Commit.
type Context struct {
	Controller *Controller
	Launcher   Launcher
	Logger     *slog.Logger

	// Themes validates cursor theme names when set.
	Themes *catalog.Catalog

	// Online reports network availability for the help action.
	Online func() bool
	// OpenURI shows a web page.
	OpenURI func(uri string) error

	ScreenReader     bool
	OnscreenKeyboard bool
}

// NewContext loads the current autostart flags into the pending state.
func NewContext(ctrl *Controller, launcher Launcher, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader, err := ctrl.ScreenReaderAutostart()
	if err != nil {
		return nil, fmt.Errorf("failed to read screen reader autostart: %w", err)
	}
	keyboard, err := ctrl.OnscreenKeyboardAutostart()
	if err != nil {
		return nil, fmt.Errorf("failed to read on-screen keyboard autostart: %w", err)
	}

	return &Context{
		Controller:       ctrl,
		Launcher:         launcher,
		Logger:           logger,
		ScreenReader:     reader,
		OnscreenKeyboard: keyboard,
	}, nil
}

// Commit saves the pending autostart choices and reports whether the user
// must log out.
func (c *Context) Commit() (bool, error) {
	return c.Controller.Save(c.ScreenReader, c.OnscreenKeyboard)
}

// Revert resets the stored settings and clears the pending choices.
func (c *Context) Revert() error {
	c.ScreenReader = false
	c.OnscreenKeyboard = false
	return c.Controller.Revert()
}

// Handler describes one control. Get and Set are nil for actions; Run is nil
// for everything else.
type Handler struct {
	ID      ControlID
	Label   string
	Section Section
	Kind    ControlKind

	Get func(c *Context) (string, error)
	Set func(c *Context, value string) error
	Run func(ctx context.Context, c *Context) error
}

// Handlers returns the control table in dialog order.
func Handlers() []Handler {
	return handlers
}

// Lookup returns the handler for id.
func Lookup(id ControlID) (Handler, error) {
	for _, h := range handlers {
		if h.ID == id {
			return h, nil
		}
	}
	return Handler{}, fmt.Errorf("%w: %s", ErrUnknownOption, id)
}

// Settable returns the ids of controls that take a value.
func Settable() []ControlID {
	var ids []ControlID
	for _, h := range handlers {
		if h.Set != nil {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

var handlers = []Handler{
	{
		ID:      ControlHighContrast,
		Label:   "Enhance colour contrast",
		Section: SectionVisual,
		Kind:    KindToggle,
		Get: func(c *Context) (string, error) {
			return formatBool(c.Controller.HighContrast())
		},
		Set: func(c *Context, value string) error {
			on, err := ParseBool(value)
			if err != nil {
				return err
			}
			return c.Controller.SetHighContrast(on)
		},
	},
	{
		ID:      ControlLargePrint,
		Label:   "Make text larger and easier to read",
		Section: SectionVisual,
		Kind:    KindToggle,
		Get: func(c *Context) (string, error) {
			return formatBool(c.Controller.LargePrint())
		},
		Set: func(c *Context, value string) error {
			on, err := ParseBool(value)
			if err != nil {
				return err
			}
			return c.Controller.SetLargePrint(on)
		},
	},
	{
		ID:      ControlCursorTheme,
		Label:   "Mouse pointer theme",
		Section: SectionVisual,
		Kind:    KindChoice,
		Get: func(c *Context) (string, error) {
			return c.Controller.CursorTheme()
		},
		Set: func(c *Context, value string) error {
			name := strings.TrimSpace(value)
			if c.Themes != nil {
				e := c.Themes.Lookup(name)
				if e == nil {
					return fmt.Errorf("%w: %s", ErrUnknownTheme, name)
				}
				name = e.Name
			}
			return c.Controller.SetCursorTheme(name)
		},
	},
	{
		ID:      ControlCursorSize,
		Label:   "Pointer size",
		Section: SectionVisual,
		Kind:    KindRange,
		Get: func(c *Context) (string, error) {
			size, err := c.Controller.CursorSize()
			if err != nil {
				return "", err
			}
			return strconv.Itoa(size), nil
		},
		Set: func(c *Context, value string) error {
			size, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("invalid cursor size %q: %w", value, err)
			}
			_, err = c.Controller.SetCursorSize(size)
			return err
		},
	},
	{
		ID:      ControlScreenReader,
		Label:   "Use screen reader",
		Section: SectionTools,
		Kind:    KindToggle,
		Get: func(c *Context) (string, error) {
			return strconv.FormatBool(c.ScreenReader), nil
		},
		Set: func(c *Context, value string) error {
			on, err := ParseBool(value)
			if err != nil {
				return err
			}
			c.ScreenReader = on
			return nil
		},
	},
	{
		ID:      ControlOnscreenKeyboard,
		Label:   "Use on-screen keyboard",
		Section: SectionTools,
		Kind:    KindToggle,
		Get: func(c *Context) (string, error) {
			return strconv.FormatBool(c.OnscreenKeyboard), nil
		},
		Set: func(c *Context, value string) error {
			on, err := ParseBool(value)
			if err != nil {
				return err
			}
			c.OnscreenKeyboard = on
			return nil
		},
	},
	{
		ID:      ControlScreenRuler,
		Label:   "Show screen ruler",
		Section: SectionTools,
		Kind:    KindAction,
		Run: func(ctx context.Context, c *Context) error {
			cfg := c.Controller.Config()
			running, err := c.Launcher.IsRunning(ctx, cfg.ScreenRulerPattern())
			if err != nil {
				c.Logger.Debug("failed to check for running screen ruler", "error", err)
			}
			if running {
				c.Logger.Debug("screen ruler already running")
				return nil
			}
			return c.Launcher.Launch(ctx, cfg.Helpers.ScreenRuler)
		},
	},
	{
		ID:      ControlKeyboardPanel,
		Label:   "Keyboard accessibility",
		Section: SectionOther,
		Kind:    KindAction,
		Run: func(ctx context.Context, c *Context) error {
			return c.Launcher.Launch(ctx, c.Controller.Config().Helpers.KeyboardPanel)
		},
	},
	{
		ID:    ControlHelp,
		Label: "Help",
		Kind:  KindAction,
		Run: func(ctx context.Context, c *Context) error {
			cfg := c.Controller.Config()
			if c.Online != nil && c.Online() && c.OpenURI != nil {
				err := c.OpenURI(cfg.Help.URL)
				if err == nil {
					return nil
				}
				c.Logger.Warn("failed to open help page, using offline manual", "url", cfg.Help.URL, "error", err)
			}
			return c.Launcher.Launch(ctx, cfg.Helpers.Manual)
		},
	},
}

// ParseBool accepts the usual true/false spellings plus on/off and yes/no.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}

func formatBool(b bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(b), nil
}
