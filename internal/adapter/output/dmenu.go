package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// DmenuFormatter formats entries for dmenu/rofi/fuzzel, one per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes entries in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, entries []*catalog.Entry) error {
	for i, e := range entries {
		line := f.formatLine(i+1, e)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single line: [index] name: display name - comment.
func (f *DmenuFormatter) formatLine(index int, e *catalog.Entry) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, e, f.opts.Selected)); err == nil {
			return buf.String()
		}
	}

	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	name := e.Name
	if isSelected(e, f.opts.Selected) {
		name = "*" + name
	}
	parts = append(parts, name)

	content := e.DisplayName
	if f.opts.ShowComment && e.Comment != "" {
		comment := sanitizeText(catalog.UnescapeMarkup(e.Comment), f.opts.CommentMaxLen)
		if comment != "" {
			content += ": " + comment
		}
	}
	parts = append(parts, content)

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index    int
	Entry    *catalog.Entry
	Comment  string
	Selected bool
}

func newTemplateData(index int, e *catalog.Entry, selected string) templateData {
	return templateData{
		Index:    index,
		Entry:    e,
		Comment:  catalog.UnescapeMarkup(e.Comment),
		Selected: isSelected(e, selected),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"mark": func(selected bool) string {
			if selected {
				return "*"
			}
			return " "
		},
	}
}

func isSelected(e *catalog.Entry, selected string) bool {
	return selected != "" && e.Name == selected
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// sanitizeText cleans up text for single-line display.
func sanitizeText(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")

	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	return truncate(strings.TrimSpace(s), maxLen)
}
