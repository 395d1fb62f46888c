// Package catalog discovers installed X cursor themes and builds the list the
// cursor theme picker shows.
package catalog

import (
	"image"
	"strings"
)

const (
	// DefaultName is the stored value of the synthetic "use the system
	// default" entry.
	DefaultName = "default"
	// DefaultDisplayName is the label of the synthetic entry.
	DefaultDisplayName = "Default"

	// IconSize is the edge length of the small preview shown next to each
	// theme in the picker.
	IconSize = 16
)

// Entry is one selectable cursor theme.
type Entry struct {
	Icon        *image.RGBA // small left_ptr preview, nil when it could not be decoded
	Path        string      // absolute path of the theme's cursors directory
	Name        string      // directory name, the value written to the settings store
	DisplayName string      // label shown to the user
	Comment     string      // markup-escaped description
}

// IsDefault reports whether e is the synthetic default entry.
func (e *Entry) IsDefault() bool {
	return e.Name == DefaultName && e.Path == ""
}

// Catalog is an ordered collection of entries, unique by Name. It always
// holds the synthetic default entry.
type Catalog struct {
	entries  []*Entry
	fallback *Entry
}

// New returns a catalog holding only the synthetic default entry.
func New() *Catalog {
	def := &Entry{
		Name:        DefaultName,
		DisplayName: DefaultDisplayName,
	}
	return &Catalog{
		entries:  []*Entry{def},
		fallback: def,
	}
}

// Fallback returns the synthetic default entry, the selection to use when
// the configured theme is not installed.
func (c *Catalog) Fallback() *Entry {
	return c.fallback
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at index i.
func (c *Catalog) At(i int) *Entry {
	return c.entries[i]
}

// Entries returns the entries in their current order. The slice is shared;
// callers must not append to it.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Names returns the stored names in their current order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Contains reports whether an entry with exactly this name exists.
func (c *Catalog) Contains(name string) bool {
	for _, e := range c.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the entry whose name matches name ignoring
// ASCII case, or -1.
func (c *Catalog) IndexOf(name string) int {
	for i, e := range c.entries {
		if asciiEqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// Lookup finds an entry by name ignoring ASCII case.
// Returns nil if not found.
func (c *Catalog) Lookup(name string) *Entry {
	if i := c.IndexOf(name); i >= 0 {
		return c.entries[i]
	}
	return nil
}

// Selected returns the entry matching the stored setting, or the fallback
// when the theme is not installed.
func (c *Catalog) Selected(stored string) *Entry {
	if e := c.Lookup(stored); e != nil {
		return e
	}
	return c.fallback
}

// Search finds entries whose name, display name or comment contains term.
// Case-insensitive substring match.
func (c *Catalog) Search(term string) []*Entry {
	if term == "" {
		return c.entries
	}

	term = strings.ToLower(term)
	var result []*Entry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.DisplayName), term) ||
			strings.Contains(strings.ToLower(e.Comment), term) {
			result = append(result, e)
		}
	}
	return result
}

// add appends e unless an entry with the same name exists.
func (c *Catalog) add(e *Entry) bool {
	if c.Contains(e.Name) {
		return false
	}
	c.entries = append(c.entries, e)
	return true
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
