package style

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// embedded holds the bundled stylesheets.
//
//go:embed css/*.css
var embedded embed.FS

// Bundled stylesheet names.
const (
	DefaultName  = "dialog"
	ContrastName = "contrast"
)

// GetEmbedded retrieves a bundled stylesheet by name.
// @import statements are NOT processed here; use Resolve instead.
func GetEmbedded(name string) (string, bool) {
	data, err := embedded.ReadFile("css/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedPartial retrieves a bundled partial (files starting with _).
func GetEmbeddedPartial(name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, ".css") {
		name = name + ".css"
	}

	data, err := embedded.ReadFile("css/" + name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbedded returns the names of the bundled stylesheets, excluding
// partials.
func ListEmbedded() []string {
	var names []string

	entries, err := fs.ReadDir(embedded, "css")
	if err != nil {
		return []string{DefaultName, ContrastName}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") {
			continue
		}
		if ext := filepath.Ext(name); ext == ".css" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}

	return names
}
