package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

// jsonEntry is the serialized form of a catalog entry. The icon is reduced
// to a flag; use the preview command for pixels.
type jsonEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Comment     string `json:"comment,omitempty"`
	Path        string `json:"path,omitempty"`
	HasIcon     bool   `json:"has_icon"`
	Default     bool   `json:"default,omitempty"`
	Selected    bool   `json:"selected,omitempty"`
}

// JSONFormatter formats entries as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes entries as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, entries []*catalog.Entry) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, f.toJSON(e))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSingle writes a single entry as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, e *catalog.Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.toJSON(e))
}

func (f *JSONFormatter) toJSON(e *catalog.Entry) jsonEntry {
	return jsonEntry{
		Name:        e.Name,
		DisplayName: e.DisplayName,
		Comment:     catalog.UnescapeMarkup(e.Comment),
		Path:        e.Path,
		HasIcon:     e.Icon != nil,
		Default:     e.IsDefault(),
		Selected:    isSelected(e, f.opts.Selected),
	}
}
