package dialog

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// themePicker is a drop-down of cursor themes, each row showing the theme's
// left_ptr icon and display name, with a preview mosaic of the selection
// below it.
type themePicker struct {
	logger  *slog.Logger
	builder *catalog.Builder

	box     *gtk.Box
	button  *gtk.MenuButton
	popover *gtk.Popover
	list    *gtk.ListBox
	preview *gtk.Picture

	themes    *catalog.Catalog
	selected  *catalog.Entry
	onChanged func(e *catalog.Entry)
}

func newThemePicker(builder *catalog.Builder, logger *slog.Logger) *themePicker {
	p := &themePicker{
		logger:  logger,
		builder: builder,
		themes:  catalog.New(),
	}

	p.list = gtk.NewListBox()
	p.list.SetSelectionMode(gtk.SelectionSingle)
	p.list.ConnectRowActivated(func(row *gtk.ListBoxRow) {
		i := row.Index()
		if i < 0 || i >= p.themes.Len() {
			return
		}
		e := p.themes.At(i)
		p.popover.Popdown()
		if e == p.selected {
			return
		}
		p.show(e)
		if p.onChanged != nil {
			p.onChanged(e)
		}
	})

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scrolled.SetMinContentHeight(240)
	scrolled.SetPropagateNaturalWidth(true)
	scrolled.SetChild(p.list)

	p.popover = gtk.NewPopover()
	p.popover.SetChild(scrolled)

	p.button = gtk.NewMenuButton()
	p.button.SetPopover(p.popover)
	p.button.SetHExpand(true)

	p.preview = gtk.NewPicture()
	p.preview.SetCanShrink(false)
	p.preview.SetSizeRequest(catalog.MosaicWidth, catalog.MosaicHeight)
	p.preview.AddCSSClass("a11y-preview")
	p.preview.SetHAlign(gtk.AlignStart)

	p.box = gtk.NewBox(gtk.OrientationVertical, 6)
	p.box.Append(p.button)
	p.box.Append(p.preview)

	return p
}

// ConnectChanged sets the function called when the user picks a theme.
func (p *themePicker) ConnectChanged(fn func(e *catalog.Entry)) {
	p.onChanged = fn
}

// SetCatalog replaces the rows and selects the entry matching stored.
func (p *themePicker) SetCatalog(c *catalog.Catalog, stored string) {
	for child := p.list.FirstChild(); child != nil; child = p.list.FirstChild() {
		p.list.Remove(child)
	}

	p.themes = c
	for _, e := range c.Entries() {
		p.list.Append(newThemeRow(e))
	}

	p.selected = nil
	p.Select(stored)
}

// Select shows the entry matching stored, or the fallback, without
// notifying the change handler.
func (p *themePicker) Select(stored string) {
	e := p.themes.Selected(stored)
	if e == p.selected {
		return
	}
	p.show(e)
}

func (p *themePicker) show(e *catalog.Entry) {
	p.selected = e
	p.button.SetChild(newThemeRow(e))

	if row := p.list.RowAtIndex(p.themes.IndexOf(e.Name)); row != nil {
		p.list.SelectRow(row)
	}

	if e.IsDefault() {
		p.preview.SetPaintable(nil)
		return
	}
	mosaic := p.builder.RenderPreviewMosaic(e.Path)
	if tex := newTexture(mosaic); tex != nil {
		p.preview.SetPaintable(tex)
	} else {
		p.logger.Debug("no preview for theme", "theme", e.Name)
		p.preview.SetPaintable(nil)
	}
}

// Widget returns the picker's root widget.
func (p *themePicker) Widget() gtk.Widgetter {
	return p.box
}

func newThemeRow(e *catalog.Entry) gtk.Widgetter {
	row := gtk.NewBox(gtk.OrientationHorizontal, 8)
	row.AddCSSClass("a11y-theme-row")
	row.Append(newIconImage(e.Icon, catalog.IconSize))

	label := gtk.NewLabel(e.DisplayName)
	label.SetXAlign(0)
	label.SetHExpand(true)
	row.Append(label)

	if e.Comment != "" {
		row.SetTooltipMarkup(e.Comment)
	}
	return row
}
