// Package dialog implements the GTK accessibility settings window.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/catalog"
	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/dbus"
	"github.com/jmylchreest/a11ysettings/internal/style"
)

const (
	responseCancel = "cancel"
	responseLogout = "logout"
	responseClose  = "close"
)

// Options configures a Dialog.
type Options struct {
	Context *a11y.Context
	Config  *config.Config
	Builder *catalog.Builder
	Dirs    []string

	// Session is nil when no session manager is reachable; the logout
	// prompt is skipped then.
	Session *dbus.SessionManager
	Style   *style.Loader
	Logger  *slog.Logger
}

// Dialog is the accessibility settings window.
type Dialog struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	a11y    *a11y.Context
	cfg     *config.Config
	builder *catalog.Builder
	dirs    []string
	session *dbus.SessionManager
	style   *style.Loader

	window  *adw.ApplicationWindow
	toggles map[a11y.ControlID]*gtk.CheckButton
	picker  *themePicker
	size    *gtk.Scale

	watcher     *catalog.Watcher
	cancelWatch func()

	// updating suppresses change handlers while widgets are set from the
	// stored settings.
	updating bool
	closed   bool
}

// New builds the dialog window for app.
func New(app *adw.Application, opts Options) (*Dialog, error) {
	if opts.Context == nil {
		return nil, errors.New("dialog: no accessibility context")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = opts.Context.Controller.Config()
	}
	builder := opts.Builder
	if builder == nil {
		builder = catalog.NewBuilder(logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dialog{
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		a11y:    opts.Context,
		cfg:     cfg,
		builder: builder,
		dirs:    opts.Dirs,
		session: opts.Session,
		style:   opts.Style,
		toggles: make(map[a11y.ControlID]*gtk.CheckButton),
	}

	d.a11y.OpenURI = func(uri string) error {
		return gio.AppInfoLaunchDefaultForURI(uri, nil)
	}
	d.a11y.Online = func() bool {
		monitor := gio.NetworkMonitorGetDefault()
		return monitor != nil && monitor.NetworkAvailable()
	}

	if err := d.a11y.Controller.PrepareAutostart(); err != nil {
		logger.Warn("failed to prepare autostart entries", "error", err)
	}

	d.buildWindow(app)
	d.reloadCatalog()
	d.refreshAll()

	d.cancelWatch = d.a11y.Controller.Watch(func(change a11y.Change) {
		glib.IdleAdd(func() {
			d.refresh(change)
		})
	})

	if cfg.Cursor.Watch {
		d.watcher = catalog.NewWatcher(d.dirs, logger)
		d.watcher.SetDebounce(cfg.Cursor.Debounce.Duration())
		d.watcher.SetChangeCallback(func() {
			glib.IdleAdd(d.reloadCatalog)
		})
		if err := d.watcher.Start(ctx); err != nil {
			logger.Warn("failed to watch cursor theme directories", "error", err)
			d.watcher = nil
		}
	}

	return d, nil
}

func (d *Dialog) buildWindow(app *adw.Application) {
	d.window = adw.NewApplicationWindow(&app.Application)
	d.window.SetTitle("Accessibility")
	d.window.SetDefaultSize(420, -1)
	d.window.AddCSSClass("a11y-dialog")

	content := gtk.NewBox(gtk.OrientationVertical, 0)

	header := adw.NewHeaderBar()
	header.SetTitleWidget(adw.NewWindowTitle("Accessibility", "Assistive technology preferences"))
	content.Append(header)

	body := gtk.NewBox(gtk.OrientationVertical, 12)
	body.SetMarginTop(12)
	body.SetMarginBottom(12)
	body.SetMarginStart(12)
	body.SetMarginEnd(12)
	content.Append(body)

	var help *a11y.Handler
	sections := make(map[a11y.Section]*gtk.Box)
	for _, h := range a11y.Handlers() {
		if h.Section == "" {
			help = &h
			continue
		}
		box, ok := sections[h.Section]
		if !ok {
			box = d.newSection(body, h.Section)
			sections[h.Section] = box
		}
		box.Append(d.newControl(h))
	}

	body.Append(d.newButtonRow(help))

	d.window.SetContent(content)
	d.window.ConnectCloseRequest(func() bool {
		d.Close()
		return false
	})
}

func (d *Dialog) newSection(parent *gtk.Box, section a11y.Section) *gtk.Box {
	title := gtk.NewLabel(string(section))
	title.SetXAlign(0)
	title.AddCSSClass("a11y-section-title")
	parent.Append(title)

	box := gtk.NewBox(gtk.OrientationVertical, 6)
	box.SetMarginStart(12)
	parent.Append(box)
	return box
}

// newControl builds the widget for one handler.
func (d *Dialog) newControl(h a11y.Handler) gtk.Widgetter {
	switch h.Kind {
	case a11y.KindToggle:
		check := gtk.NewCheckButtonWithLabel(h.Label)
		check.ConnectToggled(func() {
			if d.updating {
				return
			}
			d.set(h, strconv.FormatBool(check.Active()))
			if h.ID == a11y.ControlHighContrast && d.style != nil {
				d.style.SetHighContrast(check.Active())
			}
		})
		d.toggles[h.ID] = check
		return check

	case a11y.KindChoice:
		d.picker = newThemePicker(d.builder, d.logger)
		d.picker.ConnectChanged(func(e *catalog.Entry) {
			if d.updating {
				return
			}
			d.set(h, e.Name)
		})
		return d.labelled(h.Label, d.picker.Widget())

	case a11y.KindRange:
		cur := d.cfg.Cursor
		d.size = gtk.NewScaleWithRange(gtk.OrientationHorizontal,
			float64(cur.MinSize), float64(cur.MaxSize), float64(cur.SizeStep))
		d.size.SetDigits(0)
		d.size.SetDrawValue(true)
		d.size.SetHExpand(true)
		d.size.ConnectValueChanged(func() {
			if d.updating {
				return
			}
			d.set(h, strconv.Itoa(int(d.size.Value()+0.5)))
			d.refreshSize()
		})
		return d.labelled(h.Label, d.size)

	default:
		btn := gtk.NewButtonWithLabel(h.Label)
		btn.SetHAlign(gtk.AlignStart)
		btn.ConnectClicked(func() { d.run(h) })
		return btn
	}
}

func (d *Dialog) labelled(text string, child gtk.Widgetter) gtk.Widgetter {
	box := gtk.NewBox(gtk.OrientationVertical, 4)
	label := gtk.NewLabel(text)
	label.SetXAlign(0)
	box.Append(label)
	box.Append(child)
	return box
}

func (d *Dialog) newButtonRow(help *a11y.Handler) gtk.Widgetter {
	row := gtk.NewBox(gtk.OrientationHorizontal, 6)
	row.SetMarginTop(6)

	if help != nil {
		h := *help
		btn := gtk.NewButtonWithLabel(h.Label)
		btn.ConnectClicked(func() { d.run(h) })
		row.Append(btn)
	}

	spacer := gtk.NewBox(gtk.OrientationHorizontal, 0)
	spacer.SetHExpand(true)
	row.Append(spacer)

	revert := gtk.NewButtonWithLabel("Revert")
	revert.ConnectClicked(d.revert)
	row.Append(revert)

	closeBtn := gtk.NewButtonWithLabel("Close")
	closeBtn.ConnectClicked(func() { d.window.Close() })
	row.Append(closeBtn)

	ok := gtk.NewButtonWithLabel("OK")
	ok.AddCSSClass("suggested-action")
	ok.ConnectClicked(d.commit)
	row.Append(ok)

	return row
}

// Present shows the window.
func (d *Dialog) Present() {
	d.window.Present()
}

// Close stops the watchers. It is safe to call more than once.
func (d *Dialog) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.cancel()
	if d.cancelWatch != nil {
		d.cancelWatch()
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
}

func (d *Dialog) set(h a11y.Handler, value string) {
	if err := h.Set(d.a11y, value); err != nil {
		d.logger.Error("failed to change setting", "option", h.ID, "value", value, "error", err)
		d.showError("Could not change "+h.Label, err)
		d.refreshAll()
	}
}

func (d *Dialog) run(h a11y.Handler) {
	if err := h.Run(d.ctx, d.a11y); err != nil {
		d.logger.Error("action failed", "action", h.ID, "error", err)
		d.showError(h.Label, err)
	}
}

func (d *Dialog) revert() {
	if err := d.a11y.Revert(); err != nil {
		d.logger.Error("failed to revert settings", "error", err)
		d.showError("Could not revert settings", err)
	}
	d.refreshAll()
}

// commit saves the pending choices, then offers to log out when assistive
// technology support changed.
func (d *Dialog) commit() {
	logout, err := d.a11y.Commit()
	if err != nil {
		d.logger.Error("failed to save settings", "error", err)
		d.showError("Could not save settings", err)
		return
	}
	if !logout || !d.cfg.Session.SuggestLogout || d.session == nil {
		d.window.Close()
		return
	}

	msg := adw.NewMessageDialog(&d.window.Window,
		"Log out now?",
		"Assistive technology support changes take effect the next time you log in.")
	msg.AddResponse(responseCancel, "Later")
	msg.AddResponse(responseLogout, "Log Out")
	msg.SetResponseAppearance(responseLogout, adw.ResponseSuggested)
	msg.SetDefaultResponse(responseLogout)
	msg.SetCloseResponse(responseCancel)
	msg.ConnectResponse(func(response string) {
		if response == responseLogout {
			mode := dbus.LogoutMode(d.cfg.Session.LogoutMode)
			if err := d.session.Logout(d.ctx, mode); err != nil {
				d.logger.Error("failed to log out", "mode", mode, "error", err)
			}
		}
		d.window.Close()
	})
	msg.Present()
}

func (d *Dialog) showError(heading string, err error) {
	msg := adw.NewMessageDialog(&d.window.Window, heading, err.Error())
	msg.AddResponse(responseClose, "Close")
	msg.Present()
}

// reloadCatalog rebuilds the theme list and keeps the stored selection.
func (d *Dialog) reloadCatalog() {
	themes := d.builder.Build(d.dirs)
	themes.Sort(catalog.NewCollator())
	d.a11y.Themes = themes

	stored, err := d.a11y.Controller.CursorTheme()
	if err != nil {
		d.logger.Warn("failed to read cursor theme", "error", err)
	}

	d.updating = true
	defer func() { d.updating = false }()
	if d.picker != nil {
		d.picker.SetCatalog(themes, stored)
	}
	d.logger.Debug("cursor themes loaded", "count", themes.Len())
}

func (d *Dialog) refreshAll() {
	d.refresh(a11y.ChangeHighContrast)
	d.refresh(a11y.ChangeLargePrint)
	d.refresh(a11y.ChangeCursorTheme)
	d.refresh(a11y.ChangeCursorSize)

	d.updating = true
	defer func() { d.updating = false }()
	if check := d.toggles[a11y.ControlScreenReader]; check != nil {
		check.SetActive(d.a11y.ScreenReader)
	}
	if check := d.toggles[a11y.ControlOnscreenKeyboard]; check != nil {
		check.SetActive(d.a11y.OnscreenKeyboard)
	}
}

// refresh sets the widget for change from the stored settings.
func (d *Dialog) refresh(change a11y.Change) {
	if d.closed {
		return
	}
	d.updating = true
	defer func() { d.updating = false }()

	ctrl := d.a11y.Controller
	switch change {
	case a11y.ChangeHighContrast:
		on, err := ctrl.HighContrast()
		if err != nil {
			d.logger.Warn("failed to read high contrast", "error", err)
			return
		}
		if check := d.toggles[a11y.ControlHighContrast]; check != nil {
			check.SetActive(on)
		}
		if d.style != nil {
			d.style.SetHighContrast(on)
		}
	case a11y.ChangeLargePrint:
		on, err := ctrl.LargePrint()
		if err != nil {
			d.logger.Warn("failed to read large print", "error", err)
			return
		}
		if check := d.toggles[a11y.ControlLargePrint]; check != nil {
			check.SetActive(on)
		}
	case a11y.ChangeCursorTheme:
		stored, err := ctrl.CursorTheme()
		if err != nil {
			d.logger.Warn("failed to read cursor theme", "error", err)
			return
		}
		if d.picker != nil {
			d.picker.Select(stored)
		}
	case a11y.ChangeCursorSize:
		d.refreshSize()
	}
}

func (d *Dialog) refreshSize() {
	if d.size == nil {
		return
	}
	size, err := d.a11y.Controller.CursorSize()
	if err != nil {
		d.logger.Warn("failed to read cursor size", "error", err)
		return
	}
	d.updating = true
	defer func() { d.updating = false }()
	if int(d.size.Value()+0.5) != size {
		d.size.SetValue(float64(size))
	}
}
