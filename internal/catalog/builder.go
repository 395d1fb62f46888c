package catalog

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmylchreest/a11ysettings/internal/xcursor"
)

// Builder scans cursor theme base directories. Failures while scanning are
// logged at debug level and never returned.
type Builder struct {
	logger *slog.Logger

	// IconSize is the edge length of each entry's preview icon.
	IconSize int
	// Locale selects translated Name/Comment keys from index.theme.
	Locale string
}

// NewBuilder creates a builder using the messages locale from the
// environment.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger:   logger,
		IconSize: IconSize,
		Locale:   messagesLocale(),
	}
}

// BuildCatalog builds a catalog from dirs with a default builder.
func BuildCatalog(dirs []string) *Catalog {
	return NewBuilder(nil).Build(dirs)
}

// Build returns a catalog holding the synthetic default entry followed by
// every theme found under dirs, in directory order. A theme name seen in an
// earlier directory shadows later ones.
func (b *Builder) Build(dirs []string) *Catalog {
	c := New()
	for _, dir := range dirs {
		b.scanDir(c, expandPath(dir))
	}
	b.logger.Debug("built cursor theme catalog", "dirs", len(dirs), "themes", c.Len()-1)
	return c
}

func (b *Builder) scanDir(c *Catalog, dir string) {
	children, err := os.ReadDir(dir)
	if err != nil {
		b.logger.Debug("skipping theme directory", "dir", dir, "error", err)
		return
	}

	for _, child := range children {
		name := child.Name()
		if c.Contains(name) {
			continue
		}

		themeDir := filepath.Join(dir, name)
		cursorsDir := filepath.Join(themeDir, "cursors")
		if !isDir(cursorsDir) {
			continue
		}

		entry := &Entry{
			Path:        cursorsDir,
			Name:        name,
			DisplayName: name,
		}

		icon, err := xcursor.LoadImage(filepath.Join(cursorsDir, "left_ptr"), b.IconSize)
		if err != nil {
			b.logger.Debug("no preview icon for theme", "theme", name, "error", err)
		} else {
			entry.Icon = icon
		}

		b.applyMetadata(entry, filepath.Join(themeDir, "index.theme"))
		c.add(entry)
	}
}

// applyMetadata sets DisplayName and Comment from an index.theme file.
func (b *Builder) applyMetadata(e *Entry, path string) {
	kf, err := loadKeyFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Debug("failed to read theme metadata", "path", path, "error", err)
		}
		return
	}
	if !kf.GroupExists(iconThemeGroup) {
		return
	}

	locale := parseLocale(b.Locale)
	if name, ok := localeString(kf, "Name", locale); ok && name != "" {
		e.DisplayName = name
	}
	if comment, ok := localeString(kf, "Comment", locale); ok {
		e.Comment = EscapeMarkup(comment)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
