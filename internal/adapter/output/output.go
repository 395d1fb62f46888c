// Package output provides output formatters for cursor theme listings.
package output

import (
	"io"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// Formatter formats catalog entries for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, entries []*catalog.Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatNames FormatType = "names"
)

// Formats lists the accepted format names.
func Formats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatDmenu, FormatNames}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatNames:
		return NewNamesFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template      string // Custom template for dmenu/plain format
	ShowIndex     bool   // Show 1-based index prefix
	ShowPath      bool   // Show the cursors directory
	ShowComment   bool   // Show the theme description
	CommentMaxLen int    // Maximum comment length (0 = unlimited)
	Separator     string // Field separator for dmenu format
	Selected      string // Name of the active theme, marked in the output
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:     true,
		ShowComment:   true,
		CommentMaxLen: 80,
		Separator:     " | ",
	}
}
