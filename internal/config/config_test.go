package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "HighContrast", cfg.Contrast.GTKTheme)
	assert.Equal(t, "huayra-accesible", cfg.Contrast.IconTheme)
	assert.Equal(t, "HuayraAccesible", cfg.Contrast.WMTheme)
	assert.InDelta(t, 1.5, cfg.Font.LargePrintFactor, 0.0001)
	assert.InDelta(t, 96.0, cfg.Font.FallbackDPI, 0.0001)
	assert.Equal(t, 16, cfg.Cursor.MinSize)
	assert.Equal(t, 128, cfg.Cursor.MaxSize)
	assert.Equal(t, 2, cfg.Cursor.SizeStep)
	assert.True(t, cfg.Cursor.Watch)
	assert.Equal(t, "orca", cfg.Helpers.ScreenReader)
	assert.Equal(t, "onboard", cfg.Helpers.OnscreenKeyboard)
	assert.Equal(t, "mate-keyboard-properties --a11y", cfg.Helpers.KeyboardPanel)
	assert.NotEmpty(t, cfg.Help.URL)
	assert.True(t, cfg.Session.SuggestLogout)
	assert.Equal(t, BackendGSettings, cfg.Session.Backend)
	assert.Equal(t, "dialog", cfg.Style.Name)
	assert.False(t, cfg.Style.HotReload)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[cursor]
search_path = "/opt/icons:/usr/share/icons"
min_size = 24
max_size = 96
size_step = 8
watch = false
debounce = "2s"

[contrast]
gtk_theme = "HighContrastInverse"
icon_theme = "HighContrast"
wm_theme = "Atlanta"

[font]
large_print_factor = 2.0

[helpers]
screen_reader = "orca --replace"
screen_ruler = "kruler"
screen_ruler_process = "kruler"
manual = "yelp help:accessibility"

[help]
url = "https://example.org/a11y"

[session]
suggest_logout = false
logout_mode = 1
backend = "memory"

[style]
name = "contrast"
hot_reload = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/icons", "/usr/share/icons"}, cfg.SearchDirs())
	assert.Equal(t, "contrast", cfg.Style.Name)
	assert.True(t, cfg.Style.HotReload)
	assert.Equal(t, 24, cfg.Cursor.MinSize)
	assert.Equal(t, 96, cfg.Cursor.MaxSize)
	assert.Equal(t, 8, cfg.Cursor.SizeStep)
	assert.False(t, cfg.Cursor.Watch)
	assert.Equal(t, 2*time.Second, cfg.Cursor.Debounce.Duration())
	assert.Equal(t, "HighContrastInverse", cfg.Contrast.GTKTheme)
	assert.Equal(t, "Atlanta", cfg.Contrast.WMTheme)
	assert.InDelta(t, 2.0, cfg.Font.LargePrintFactor, 0.0001)
	assert.Equal(t, "orca --replace", cfg.Helpers.ScreenReader)
	assert.Equal(t, "kruler", cfg.ScreenRulerPattern())
	assert.Equal(t, "yelp help:accessibility", cfg.Helpers.Manual)
	assert.Equal(t, "https://example.org/a11y", cfg.Help.URL)
	assert.False(t, cfg.Session.SuggestLogout)
	assert.Equal(t, uint32(1), cfg.Session.LogoutMode)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[contrast]
gtk_theme = "Custom"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, "Custom", cfg.Contrast.GTKTheme)

	// Unchanged fields should have defaults
	assert.Equal(t, DefaultHighContrastIconTheme, cfg.Contrast.IconTheme)
	assert.Equal(t, DefaultScreenRuler, cfg.ScreenRulerPattern())
	assert.Nil(t, cfg.SearchDirs())
	assert.Equal(t, 500*time.Millisecond, cfg.Cursor.Debounce.Duration())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[session]\nbackend = \"dconf\"\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "invalid backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"min above max", func(c *Config) { c.Cursor.MinSize = 200 }, "min_size"},
		{"zero step", func(c *Config) { c.Cursor.SizeStep = 0 }, "size_step"},
		{"factor not enlarging", func(c *Config) { c.Font.LargePrintFactor = 1 }, "large_print_factor"},
		{"inverted dpi range", func(c *Config) { c.Font.MaxDPI = 10 }, "dpi range"},
		{"fallback outside range", func(c *Config) { c.Font.FallbackDPI = 600 }, "fallback_dpi"},
		{"empty contrast theme", func(c *Config) { c.Contrast.GTKTheme = " " }, "gtk_theme"},
		{"bad logout mode", func(c *Config) { c.Session.LogoutMode = 3 }, "logout_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Contrast.GTKTheme = "Saved"
	cfg.Cursor.Debounce = Duration(time.Second)

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.Contrast.GTKTheme)
	assert.Equal(t, time.Second, loaded.Cursor.Debounce.Duration())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"250", 250 * time.Millisecond, false},
		{"1s", time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalText([]byte(tt.in))
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.Duration())
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/a11ysettings/config.toml", ConfigPath())
	assert.Equal(t, "/custom/config/a11ysettings", ConfigDir())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), "a11ysettings/config.toml")
}

func TestSearchDirs_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	cfg.Cursor.SearchPath = "~/.icons::/usr/share/icons"

	assert.Equal(t, []string{"/home/tester/.icons", "/usr/share/icons"}, cfg.SearchDirs())
}
