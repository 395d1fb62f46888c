package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// PlainFormatter formats entries as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes entries as plain text followed by a count line.
func (f *PlainFormatter) Format(w io.Writer, entries []*catalog.Entry) error {
	for i, e := range entries {
		if err := f.formatEntry(w, i+1, e); err != nil {
			return err
		}
	}
	if f.template != nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %s\n", humanize.Comma(int64(len(entries))), plural(len(entries), "theme", "themes"))
	return err
}

func (f *PlainFormatter) formatEntry(w io.Writer, index int, e *catalog.Entry) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, e, f.opts.Selected))
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}
	if isSelected(e, f.opts.Selected) {
		sb.WriteString("* ")
	}

	sb.WriteString(e.DisplayName)
	if e.DisplayName != e.Name {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Name))
	}
	sb.WriteString("\n")

	if f.opts.ShowComment && e.Comment != "" {
		sb.WriteString("    " + sanitizeText(catalog.UnescapeMarkup(e.Comment), f.opts.CommentMaxLen) + "\n")
	}
	if f.opts.ShowPath && e.Path != "" {
		sb.WriteString("    " + e.Path + "\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from an entry.
func FormatField(e *catalog.Entry, field string) string {
	switch strings.ToLower(field) {
	case "name", "id":
		return e.Name
	case "display", "display_name", "label":
		return e.DisplayName
	case "comment", "description":
		return catalog.UnescapeMarkup(e.Comment)
	case "path":
		return e.Path
	default:
		return e.Name
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
