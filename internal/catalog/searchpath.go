package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultSearchPath is the libXcursor built-in theme search path.
const DefaultSearchPath = "~/.local/share/icons:~/.icons:/usr/share/icons:/usr/share/pixmaps:/usr/X11R6/lib/X11/icons"

// SearchPath returns XCURSOR_PATH when set, else DefaultSearchPath.
func SearchPath() string {
	if p := os.Getenv("XCURSOR_PATH"); p != "" {
		return p
	}
	return DefaultSearchPath
}

// SplitSearchPath splits a colon-separated path list, dropping empty parts.
func SplitSearchPath(s string) []string {
	var dirs []string
	for _, part := range strings.Split(s, ":") {
		if part = strings.TrimSpace(part); part != "" {
			dirs = append(dirs, part)
		}
	}
	return dirs
}

// BaseDirs returns the base directories of the effective search path.
func BaseDirs() []string {
	return SplitSearchPath(SearchPath())
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
