// Package style loads the CSS applied to the accessibility dialog.
package style

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/a11ysettings/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Sheet is a resolved stylesheet.
type Sheet struct {
	Name     string    // Name without the .css extension
	Path     string    // File path, empty for bundled sheets
	CSS      string    // Content with imports inlined
	ModTime  time.Time // Last modification time of Path
	Embedded bool
}

// Dir returns the user stylesheet directory.
func Dir() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "style")
}

// NewSheet loads a stylesheet file. @import statements are resolved
// relative to the file and inlined.
func NewSheet(name, path string) (*Sheet, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &Sheet{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// Resolve finds a stylesheet by name, looking in dir before the bundled
// sheets. An unknown name resolves to the bundled default.
func Resolve(dir, name string) *Sheet {
	if name == "" {
		name = DefaultName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if sheet, err := NewSheet(name, path); err == nil {
			return sheet
		}
	}

	if css, ok := GetEmbedded(name); ok {
		return &Sheet{Name: name, CSS: ProcessImports(css, "", nil), Embedded: true}
	}

	css, _ := GetEmbedded(DefaultName)
	return &Sheet{Name: DefaultName, CSS: ProcessImports(css, "", nil), Embedded: true}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to the bundled
// partials. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			if embeddedCSS, found := GetEmbedded(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(importedCSS), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}

// Reload rereads the sheet from disk. It returns true if the content
// changed.
func (s *Sheet) Reload() (bool, error) {
	if s.Embedded {
		return false, nil
	}
	if s.Path == "" {
		return false, errors.New("stylesheet has no path")
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(s.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(s.Path)
	if err != nil {
		return false, err
	}

	old := s.CSS
	s.CSS = ProcessImports(string(css), filepath.Dir(s.Path), nil)
	s.ModTime = info.ModTime()

	return old != s.CSS, nil
}
