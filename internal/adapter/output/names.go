package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// NamesFormatter outputs just the theme names, one per line.
// Useful for piping (e.g., a11ysettings set cursor-theme "$(... | fzf)").
type NamesFormatter struct{}

// NewNamesFormatter creates a new names formatter.
func NewNamesFormatter() *NamesFormatter {
	return &NamesFormatter{}
}

// Format writes theme names to the writer, one per line.
func (f *NamesFormatter) Format(w io.Writer, entries []*catalog.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.Name); err != nil {
			return err
		}
	}
	return nil
}
