// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultHighContrastGTKTheme  = "HighContrast"
	DefaultHighContrastIconTheme = "huayra-accesible"
	DefaultHighContrastWMTheme   = "HuayraAccesible"

	DefaultLargePrintFactor = 1.5
	DefaultScreenDPI        = 96.0
	DefaultMinReasonableDPI = 50.0
	DefaultMaxReasonableDPI = 500.0

	DefaultCursorMinSize  = 16
	DefaultCursorMaxSize  = 128
	DefaultCursorSizeStep = 2

	DefaultScreenReader     = "orca"
	DefaultOnscreenKeyboard = "onboard"
	DefaultScreenRuler      = "screenruler"
	DefaultKeyboardPanel    = "mate-keyboard-properties --a11y"
	DefaultManual           = "huayra-visor-manual articles/a/c/c/Accesibilidad.html"

	DefaultHelpURL = "http://wiki.huayra.conectarigualdad.gob.ar/index.php/Accesibilidad"

	DefaultStyle = "dialog"
)

// Config represents the a11ysettings configuration.
type Config struct {
	Cursor   CursorConfig   `toml:"cursor"`
	Contrast ContrastConfig `toml:"contrast"`
	Font     FontConfig     `toml:"font"`
	Helpers  HelpersConfig  `toml:"helpers"`
	Help     HelpConfig     `toml:"help"`
	Session  SessionConfig  `toml:"session"`
	Style    StyleConfig    `toml:"style"`
}

// CursorConfig holds cursor theme and size options.
type CursorConfig struct {
	SearchPath string   `toml:"search_path"` // Colon-separated; empty = XCURSOR_PATH or the libXcursor default
	MinSize    int      `toml:"min_size"`
	MaxSize    int      `toml:"max_size"`
	SizeStep   int      `toml:"size_step"`
	Watch      bool     `toml:"watch"`    // Rebuild the theme list when themes are installed
	Debounce   Duration `toml:"debounce"` // e.g. "500ms"
}

// ContrastConfig holds the theme names written when high contrast is enabled.
type ContrastConfig struct {
	GTKTheme  string `toml:"gtk_theme"`
	IconTheme string `toml:"icon_theme"`
	WMTheme   string `toml:"wm_theme"`
}

// FontConfig holds large print options.
type FontConfig struct {
	LargePrintFactor float64 `toml:"large_print_factor"` // Multiplier applied to the screen DPI
	FallbackDPI      float64 `toml:"fallback_dpi"`       // Used when the monitor reports nonsense
	MinDPI           float64 `toml:"min_dpi"`
	MaxDPI           float64 `toml:"max_dpi"`
}

// HelpersConfig holds helper program command lines.
type HelpersConfig struct {
	ScreenReader       string `toml:"screen_reader"`
	OnscreenKeyboard   string `toml:"onscreen_keyboard"`
	ScreenRuler        string `toml:"screen_ruler"`
	ScreenRulerProcess string `toml:"screen_ruler_process"` // Command line pattern used to detect a running ruler; empty = screen_ruler
	KeyboardPanel      string `toml:"keyboard_panel"`
	Manual             string `toml:"manual"`
}

// HelpConfig holds the online help location.
type HelpConfig struct {
	URL string `toml:"url"`
}

// SessionConfig holds session handling options.
type SessionConfig struct {
	SuggestLogout bool   `toml:"suggest_logout"` // Offer to log out when assistive technology support changes
	LogoutMode    uint32 `toml:"logout_mode"`    // 0 = normal, 1 = no confirmation, 2 = force
	Backend       string `toml:"backend"`        // "gsettings" or "memory"
}

// StyleConfig selects the dialog stylesheet.
type StyleConfig struct {
	Name      string `toml:"name"`       // Stylesheet name, looked up in the style directory before the bundled ones
	HotReload bool   `toml:"hot_reload"` // Reapply a user stylesheet when it changes on disk
}

// Settings backends.
const (
	BackendGSettings = "gsettings"
	BackendMemory    = "memory"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Cursor: CursorConfig{
			SearchPath: "",
			MinSize:    DefaultCursorMinSize,
			MaxSize:    DefaultCursorMaxSize,
			SizeStep:   DefaultCursorSizeStep,
			Watch:      true,
			Debounce:   Duration(500 * time.Millisecond),
		},
		Contrast: ContrastConfig{
			GTKTheme:  DefaultHighContrastGTKTheme,
			IconTheme: DefaultHighContrastIconTheme,
			WMTheme:   DefaultHighContrastWMTheme,
		},
		Font: FontConfig{
			LargePrintFactor: DefaultLargePrintFactor,
			FallbackDPI:      DefaultScreenDPI,
			MinDPI:           DefaultMinReasonableDPI,
			MaxDPI:           DefaultMaxReasonableDPI,
		},
		Helpers: HelpersConfig{
			ScreenReader:     DefaultScreenReader,
			OnscreenKeyboard: DefaultOnscreenKeyboard,
			ScreenRuler:      DefaultScreenRuler,
			KeyboardPanel:    DefaultKeyboardPanel,
			Manual:           DefaultManual,
		},
		Help: HelpConfig{
			URL: DefaultHelpURL,
		},
		Session: SessionConfig{
			SuggestLogout: true,
			LogoutMode:    0,
			Backend:       BackendGSettings,
		},
		Style: StyleConfig{
			Name: DefaultStyle,
		},
	}
}

// ConfigDir returns the a11ysettings configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "a11ysettings")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Cursor.MinSize < 1 || c.Cursor.MaxSize < c.Cursor.MinSize {
		return fmt.Errorf("cursor sizes must satisfy 1 <= min_size <= max_size, got %d..%d", c.Cursor.MinSize, c.Cursor.MaxSize)
	}
	if c.Cursor.SizeStep < 1 {
		return fmt.Errorf("cursor size_step must be positive, got %d", c.Cursor.SizeStep)
	}

	if c.Font.LargePrintFactor <= 1 {
		return fmt.Errorf("large_print_factor must be greater than 1, got %g", c.Font.LargePrintFactor)
	}
	if c.Font.MinDPI <= 0 || c.Font.MaxDPI <= c.Font.MinDPI {
		return fmt.Errorf("dpi range must satisfy 0 < min_dpi < max_dpi, got %g..%g", c.Font.MinDPI, c.Font.MaxDPI)
	}
	if c.Font.FallbackDPI < c.Font.MinDPI || c.Font.FallbackDPI > c.Font.MaxDPI {
		return fmt.Errorf("fallback_dpi %g outside %g..%g", c.Font.FallbackDPI, c.Font.MinDPI, c.Font.MaxDPI)
	}

	if strings.TrimSpace(c.Contrast.GTKTheme) == "" {
		return errors.New("contrast gtk_theme must not be empty")
	}

	if c.Session.LogoutMode > 2 {
		return fmt.Errorf("logout_mode must be 0, 1 or 2, got %d", c.Session.LogoutMode)
	}
	switch c.Session.Backend {
	case BackendGSettings, BackendMemory:
	default:
		return fmt.Errorf("invalid backend %q, must be one of: %s, %s", c.Session.Backend, BackendGSettings, BackendMemory)
	}

	return nil
}

// ScreenRulerPattern returns the command line pattern that identifies a
// running screen ruler.
func (c *Config) ScreenRulerPattern() string {
	if c.Helpers.ScreenRulerProcess != "" {
		return c.Helpers.ScreenRulerProcess
	}
	return c.Helpers.ScreenRuler
}

// SearchDirs returns the cursor theme base directories from SearchPath, or
// nil when the environment default applies.
func (c *Config) SearchDirs() []string {
	var dirs []string
	for _, part := range strings.Split(c.Cursor.SearchPath, ":") {
		if part = strings.TrimSpace(part); part != "" {
			dirs = append(dirs, expandPath(part))
		}
	}
	return dirs
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
