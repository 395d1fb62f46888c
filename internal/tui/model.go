// Package tui provides the BubbleTea-based terminal cursor theme picker.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/collate"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/catalog"
	"github.com/jmylchreest/a11ysettings/internal/xcursor"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// previewWidth is the terminal column count of the detail preview.
const previewWidth = catalog.MosaicWidth / 2

// Model is the main TUI model.
type Model struct {
	a11y     *a11y.Context
	builder  *catalog.Builder
	dirs     []string
	collator *collate.Collator

	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	themes      *catalog.Catalog
	current     string
	searchQuery string
	previews    map[string]string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool

	refreshCh <-chan struct{}
}

// themeItem wraps a catalog entry for the list component.
type themeItem struct {
	entry   *catalog.Entry
	current bool
}

func (i themeItem) Title() string {
	if i.current {
		return i.entry.DisplayName + " ✓"
	}
	return i.entry.DisplayName
}

func (i themeItem) Description() string {
	desc := i.entry.Name
	if comment := catalog.UnescapeMarkup(i.entry.Comment); comment != "" {
		desc += " - " + comment
	}
	return desc
}

func (i themeItem) FilterValue() string {
	return i.entry.Name + " " + i.entry.DisplayName
}

// themeDelegate dims themes without a preview icon.
type themeDelegate struct {
	list.DefaultDelegate
}

func newThemeDelegate() themeDelegate {
	return themeDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item. Themes whose left_ptr could not be decoded
// are shown dimmed.
func (d themeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(themeItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	dim := ti.entry.Icon == nil && !ti.entry.IsDefault()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	var titleStyle, descStyle lipgloss.Style
	if isSelected {
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	} else {
		titleStyle = d.DefaultDelegate.Styles.NormalTitle
		descStyle = d.DefaultDelegate.Styles.NormalDesc
	}
	if dim {
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	title := ti.Title()
	if itemWidth > 0 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}
	desc := ti.Description()
	if itemWidth > 0 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// Options configures the TUI.
type Options struct {
	Context *a11y.Context
	Builder *catalog.Builder
	Dirs    []string

	// Refresh delivers a value whenever the theme directories change.
	Refresh <-chan struct{}
}

// New creates a new TUI model and scans the theme directories.
func New(opts Options) Model {
	l := list.New(nil, newThemeDelegate(), 0, 0)
	l.Title = "Mouse Pointer Theme"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	builder := opts.Builder
	if builder == nil {
		builder = catalog.NewBuilder(nil)
	}

	m := Model{
		a11y:        opts.Context,
		builder:     builder,
		dirs:        opts.Dirs,
		collator:    catalog.NewCollator(),
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
		previews:    make(map[string]string),
		refreshCh:   opts.Refresh,
	}
	m.reload()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.watchForChanges
}

// watchForChanges waits for the theme directories to change.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	if _, ok := <-m.refreshCh; !ok {
		return nil
	}
	return refreshMsg{}
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case refreshMsg:
		m.reload()
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeSearch {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		if item, ok := m.list.SelectedItem().(themeItem); ok {
			return m.applyTheme(item.entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.Details):
		if item, ok := m.list.SelectedItem().(themeItem); ok {
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(item.entry))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.list.SelectedItem().(themeItem); ok {
			return m, copyToClipboard(item.entry.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		m.reload()
		return m, status(fmt.Sprintf("Found %d themes", m.themes.Len()-1), false)

	case key.Matches(msg, m.keys.HighContrast):
		return m.toggle(a11y.ControlHighContrast)

	case key.Matches(msg, m.keys.LargePrint):
		return m.toggle(a11y.ControlLargePrint)

	case key.Matches(msg, m.keys.Bigger):
		return m.resizeCursor(1)

	case key.Matches(msg, m.keys.Smaller):
		return m.resizeCursor(-1)

	case key.Matches(msg, m.keys.Save):
		return m.save()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Details):
		m.mode = ModeList
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		if item, ok := m.list.SelectedItem().(themeItem); ok {
			m.mode = ModeList
			return m.applyTheme(item.entry)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.selectCurrent()
		return m, nil

	case tea.KeyEnter:
		m.mode = ModeList
		m.searchInput.Blur()
		if item, ok := m.list.SelectedItem().(themeItem); ok {
			return m.applyTheme(item.entry)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

// applyTheme stores e as the cursor theme.
func (m Model) applyTheme(e *catalog.Entry) (tea.Model, tea.Cmd) {
	h, err := a11y.Lookup(a11y.ControlCursorTheme)
	if err == nil {
		err = h.Set(m.a11y, e.Name)
	}
	if err != nil {
		return m, status("Failed to set theme: "+err.Error(), true)
	}
	m.current = e.Name
	m.list.SetItems(m.buildListItems())
	return m, status("Pointer theme set to "+e.DisplayName, false)
}

// toggle flips a boolean control.
func (m Model) toggle(id a11y.ControlID) (tea.Model, tea.Cmd) {
	h, err := a11y.Lookup(id)
	if err != nil {
		return m, status(err.Error(), true)
	}
	cur, err := h.Get(m.a11y)
	if err != nil {
		return m, status(err.Error(), true)
	}
	on, err := a11y.ParseBool(cur)
	if err != nil {
		return m, status(err.Error(), true)
	}
	if err := h.Set(m.a11y, fmt.Sprint(!on)); err != nil {
		return m, status(err.Error(), true)
	}
	state := "off"
	if !on {
		state = "on"
	}
	return m, status(fmt.Sprintf("%s: %s", h.Label, state), false)
}

// resizeCursor moves the pointer size one step up or down.
func (m Model) resizeCursor(dir int) (tea.Model, tea.Cmd) {
	ctrl := m.a11y.Controller
	size, err := ctrl.CursorSize()
	if err != nil {
		return m, status(err.Error(), true)
	}
	step := max(1, ctrl.Config().Cursor.SizeStep)
	got, err := ctrl.SetCursorSize(size + dir*step)
	if err != nil {
		return m, status(err.Error(), true)
	}
	return m, status(fmt.Sprintf("Pointer size %d", got), false)
}

// save commits the pending assistive technology choices.
func (m Model) save() (tea.Model, tea.Cmd) {
	logout, err := m.a11y.Commit()
	if err != nil {
		return m, status("Save failed: "+err.Error(), true)
	}
	if logout {
		return m, status("Saved. Log out for the changes to take effect", false)
	}
	return m, status("Saved", false)
}

// reload rescans the theme directories and restores the selection.
func (m *Model) reload() {
	m.themes = m.builder.Build(m.dirs)
	m.themes.Sort(m.collator)
	if m.a11y != nil {
		m.a11y.Themes = m.themes
		if stored, err := m.a11y.Controller.CursorTheme(); err == nil {
			m.current = m.themes.Selected(stored).Name
		} else {
			slog.Debug("failed to read cursor theme", "error", err)
		}
	}
	clear(m.previews)
	m.list.SetItems(m.buildListItems())
	m.selectCurrent()
}

func (m *Model) selectCurrent() {
	for i, item := range m.list.Items() {
		if ti, ok := item.(themeItem); ok && ti.current {
			m.list.Select(i)
			return
		}
	}
}

// buildListItems creates list items from the catalog and search query.
func (m Model) buildListItems() []list.Item {
	entries := m.themes.Search(m.searchQuery)
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = themeItem{entry: e, current: e.Name == m.current}
	}
	return items
}

// renderDetail renders a theme's metadata and pointer mosaic.
func (m Model) renderDetail(e *catalog.Entry) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(e.DisplayName) + "\n\n")
	sb.WriteString(labelStyle.Render("Name: ") + e.Name + "\n")
	if e.Path != "" {
		sb.WriteString(labelStyle.Render("Path: ") + e.Path + "\n")
	}
	if comment := catalog.UnescapeMarkup(e.Comment); comment != "" {
		sb.WriteString("\n" + comment + "\n")
	}

	if e.IsDefault() {
		sb.WriteString("\n" + labelStyle.Render("Uses the system default pointers.") + "\n")
		return sb.String()
	}

	preview, ok := m.previews[e.Name]
	if !ok {
		if mosaic := m.builder.RenderPreviewMosaic(e.Path); mosaic != nil {
			preview = renderBlocks(xcursor.Fit(mosaic, previewWidth))
		}
		m.previews[e.Name] = preview
	}
	if preview == "" {
		sb.WriteString("\n" + labelStyle.Render("No preview available.") + "\n")
	} else {
		sb.WriteString("\n" + preview)
	}
	return sb.String()
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, ModeList)
	}

	return s
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Render("Theme Preview")

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))

	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, ModeSearch)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	return titleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within the given width,
// most important bindings first.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case ModeList:
		binds = []keybind{
			{"q", "quit"},
			{"enter", "use"},
			{"?", "help"},
			{"/", "search"},
			{"i", "preview"},
			{"w", "save"},
			{"h", "contrast"},
			{"l", "large print"},
			{"+/-", "size"},
			{"r", "rescan"},
		}
	case ModeDetail:
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"enter", "use"},
			{"j/k", "scroll"},
		}
	case ModeSearch:
		binds = []keybind{
			{"enter", "use"},
			{"esc", "close"},
			{"↑/↓", "navigate"},
		}
	}

	const separator = "  "
	result := ""
	plainLen := 0
	for _, b := range binds {
		plainItem := b.key + " " + b.desc
		testLen := plainLen + len(plainItem)
		if result != "" {
			testLen += len(separator)
		}
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += keyStyle.Render(b.key) + " " + b.desc
		plainLen = testLen
	}

	return style.Render(result)
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
