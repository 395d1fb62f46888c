package a11y

import "github.com/jmylchreest/a11ysettings/internal/settings"

// Schema ids.
const (
	SchemaMouse     = "org.mate.peripherals-mouse"
	SchemaInterface = "org.mate.interface"
	SchemaMarco     = "org.mate.Marco.general"
	SchemaFont      = "org.mate.font-rendering"
	SchemaVisualAT  = "org.mate.applications-at-visual"
	SchemaMobileAT  = "org.mate.applications-at-mobility"
)

// Keys.
const (
	KeyCursorTheme   = "cursor-theme"
	KeyCursorSize    = "cursor-size"
	KeyGTKTheme      = "gtk-theme"
	KeyIconTheme     = "icon-theme"
	KeyAccessibility = "accessibility"
	KeyWMTheme       = "theme"
	KeyDPI           = "dpi"
	KeyExec          = "exec"
	KeyStartup       = "startup"
)

// Schemas returns the keys the controller uses with MATE's shipped defaults,
// for settings.NewMemoryBackend.
func Schemas() []settings.Schema {
	at := func(id string) settings.Schema {
		return settings.Schema{ID: id, Keys: map[string]settings.Value{
			KeyExec:    settings.StringValue(""),
			KeyStartup: settings.BoolValue(false),
		}}
	}

	return []settings.Schema{
		{ID: SchemaMouse, Keys: map[string]settings.Value{
			KeyCursorTheme: settings.StringValue(""),
			KeyCursorSize:  settings.IntValue(18),
		}},
		{ID: SchemaInterface, Keys: map[string]settings.Value{
			KeyGTKTheme:      settings.StringValue("Menta"),
			KeyIconTheme:     settings.StringValue("menta"),
			KeyAccessibility: settings.BoolValue(false),
		}},
		{ID: SchemaMarco, Keys: map[string]settings.Value{
			KeyWMTheme: settings.StringValue("Menta"),
		}},
		{ID: SchemaFont, Keys: map[string]settings.Value{
			KeyDPI: settings.DoubleValue(96),
		}},
		at(SchemaVisualAT),
		at(SchemaMobileAT),
	}
}
