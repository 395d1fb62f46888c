package a11y

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/settings"
)

func newTestController(t *testing.T, dpi float64) (*Controller, *settings.MemoryBackend) {
	t.Helper()
	backend := settings.NewMemoryBackend(Schemas()...)
	ctrl, err := NewController(Options{
		Backend:   backend,
		Config:    config.DefaultConfig(),
		ScreenDPI: func() float64 { return dpi },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl, backend
}

func readString(t *testing.T, b settings.Backend, schema, key string) string {
	t.Helper()
	s, err := b.Open(schema)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.String(key)
	require.NoError(t, err)
	return v
}

func TestNewController_MissingSchema(t *testing.T) {
	backend := settings.NewMemoryBackend(Schemas()[:2]...)
	_, err := NewController(Options{Backend: backend})
	assert.ErrorIs(t, err, settings.ErrSchemaNotFound)

	_, err = NewController(Options{})
	assert.Error(t, err)
}

func TestNewController_FallbackDPI(t *testing.T) {
	ctrl, err := NewController(Options{Backend: settings.NewMemoryBackend(Schemas()...)})
	require.NoError(t, err)
	defer ctrl.Close()

	assert.InDelta(t, config.DefaultScreenDPI, ctrl.ScreenDPI(), 0.001)
}

func TestHighContrast(t *testing.T) {
	ctrl, backend := newTestController(t, 96)

	on, err := ctrl.HighContrast()
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, ctrl.SetHighContrast(true))
	on, err = ctrl.HighContrast()
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "HighContrast", readString(t, backend, SchemaInterface, KeyGTKTheme))
	assert.Equal(t, "huayra-accesible", readString(t, backend, SchemaInterface, KeyIconTheme))
	assert.Equal(t, "HuayraAccesible", readString(t, backend, SchemaMarco, KeyWMTheme))

	require.NoError(t, ctrl.SetHighContrast(false))
	on, _ = ctrl.HighContrast()
	assert.False(t, on)
	assert.Equal(t, "Menta", readString(t, backend, SchemaInterface, KeyGTKTheme))
	assert.Equal(t, "menta", readString(t, backend, SchemaInterface, KeyIconTheme))
	assert.Equal(t, "Menta", readString(t, backend, SchemaMarco, KeyWMTheme))
}

func TestHighContrast_OnlyGTKThemeCounts(t *testing.T) {
	ctrl, backend := newTestController(t, 96)

	iface, err := backend.Open(SchemaInterface)
	require.NoError(t, err)
	defer iface.Close()

	require.NoError(t, iface.SetString(KeyIconTheme, "huayra-accesible"))
	on, _ := ctrl.HighContrast()
	assert.False(t, on)

	require.NoError(t, iface.SetString(KeyGTKTheme, "HighContrast"))
	on, _ = ctrl.HighContrast()
	assert.True(t, on)
}

func TestLargePrint(t *testing.T) {
	ctrl, _ := newTestController(t, 100)

	on, err := ctrl.LargePrint()
	require.NoError(t, err)
	assert.False(t, on, "96 stored vs 100 screen")

	require.NoError(t, ctrl.SetLargePrint(true))
	dpi, err := ctrl.DPI()
	require.NoError(t, err)
	assert.InDelta(t, 150.0, dpi, 0.001)
	on, _ = ctrl.LargePrint()
	assert.True(t, on)

	require.NoError(t, ctrl.SetLargePrint(false))
	dpi, _ = ctrl.DPI()
	assert.InDelta(t, 96.0, dpi, 0.001)
}

func TestLargePrint_EqualDPIIsNotLarge(t *testing.T) {
	ctrl, _ := newTestController(t, 96)

	on, err := ctrl.LargePrint()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestCursorThemeAndSize(t *testing.T) {
	ctrl, _ := newTestController(t, 96)

	require.NoError(t, ctrl.SetCursorTheme("DMZ-Black"))
	theme, err := ctrl.CursorTheme()
	require.NoError(t, err)
	assert.Equal(t, "DMZ-Black", theme)

	got, err := ctrl.SetCursorSize(33)
	require.NoError(t, err)
	assert.Equal(t, 34, got)
	size, err := ctrl.CursorSize()
	require.NoError(t, err)
	assert.Equal(t, 34, size)

	got, _ = ctrl.SetCursorSize(500)
	assert.Equal(t, 128, got)
}

func TestSnapCursorSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 16},
		{16, 16},
		{17, 18},
		{18, 18},
		{64, 64},
		{127, 128},
		{128, 128},
		{1000, 128},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SnapCursorSize(tt.in, 16, 128, 2), "size %d", tt.in)
	}
	assert.Equal(t, 40, SnapCursorSize(42, 16, 48, 8))
	assert.Equal(t, 40, SnapCursorSize(47, 16, 46, 8), "never rounds past max")
	assert.Equal(t, 21, SnapCursorSize(21, 16, 128, 1))
}

func TestPrepareAutostart(t *testing.T) {
	ctrl, backend := newTestController(t, 96)

	require.NoError(t, ctrl.PrepareAutostart())
	assert.Equal(t, "orca", readString(t, backend, SchemaVisualAT, KeyExec))
	assert.Equal(t, "onboard", readString(t, backend, SchemaMobileAT, KeyExec))
}

func TestSave(t *testing.T) {
	tests := []struct {
		name         string
		initialAT    bool
		reader       bool
		keyboard     bool
		wantLogout   bool
		wantATFlagOn bool
	}{
		{"nothing requested, flag off", false, false, false, false, false},
		{"reader requested, flag off", false, true, false, true, true},
		{"keyboard requested, flag off", false, false, true, true, true},
		{"both requested, flag on", true, true, true, false, true},
		{"nothing requested, flag on", true, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, backend := newTestController(t, 96)
			iface, err := backend.Open(SchemaInterface)
			require.NoError(t, err)
			defer iface.Close()
			require.NoError(t, iface.SetBool(KeyAccessibility, tt.initialAT))

			logout, err := ctrl.Save(tt.reader, tt.keyboard)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLogout, logout)

			at, _ := ctrl.AccessibilityEnabled()
			assert.Equal(t, tt.wantATFlagOn, at)
			reader, _ := ctrl.ScreenReaderAutostart()
			keyboard, _ := ctrl.OnscreenKeyboardAutostart()
			assert.Equal(t, tt.reader, reader)
			assert.Equal(t, tt.keyboard, keyboard)
		})
	}
}

func TestRevert(t *testing.T) {
	ctrl, backend := newTestController(t, 96)

	require.NoError(t, ctrl.SetHighContrast(true))
	require.NoError(t, ctrl.SetLargePrint(true))
	require.NoError(t, ctrl.SetCursorTheme("Custom"))
	_, err := ctrl.SetCursorSize(64)
	require.NoError(t, err)
	_, err = ctrl.Save(true, false)
	require.NoError(t, err)

	require.NoError(t, ctrl.Revert())

	on, _ := ctrl.HighContrast()
	assert.False(t, on)
	on, _ = ctrl.LargePrint()
	assert.False(t, on)
	theme, _ := ctrl.CursorTheme()
	assert.Empty(t, theme)
	size, _ := ctrl.CursorSize()
	assert.Equal(t, 18, size)
	assert.Equal(t, "Menta", readString(t, backend, SchemaMarco, KeyWMTheme))

	// autostart flags are left to Save
	reader, _ := ctrl.ScreenReaderAutostart()
	assert.True(t, reader)
}

func TestWatch(t *testing.T) {
	ctrl, backend := newTestController(t, 96)

	var got []Change
	cancel := ctrl.Watch(func(c Change) { got = append(got, c) })

	other, err := NewController(Options{Backend: backend})
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, other.SetHighContrast(true))
	require.NoError(t, other.SetLargePrint(true))
	require.NoError(t, other.SetCursorTheme("x"))
	_, err = other.SetCursorSize(32)
	require.NoError(t, err)

	assert.Equal(t, []Change{
		ChangeHighContrast, ChangeHighContrast, ChangeHighContrast,
		ChangeLargePrint,
		ChangeCursorTheme,
		ChangeCursorSize,
	}, got)

	cancel()
	require.NoError(t, other.SetCursorTheme("y"))
	assert.Len(t, got, 6)
}

func TestChangeString(t *testing.T) {
	assert.Equal(t, "high-contrast", ChangeHighContrast.String())
	assert.Equal(t, "large-print", ChangeLargePrint.String())
	assert.Equal(t, "cursor-theme", ChangeCursorTheme.String())
	assert.Equal(t, "cursor-size", ChangeCursorSize.String())
}

func TestScreenDPI(t *testing.T) {
	r := DPIRange{Min: 50, Max: 500, Fallback: 96}

	tests := []struct {
		name string
		g    Geometry
		want float64
	}{
		{"typical laptop", Geometry{WidthPx: 1920, HeightPx: 1080, WidthMM: 344, HeightMM: 194}, (1920/(344/25.4) + 1080/(194/25.4)) / 2},
		{"unknown physical size", Geometry{WidthPx: 1920, HeightPx: 1080}, 96},
		{"projector reports nonsense", Geometry{WidthPx: 1024, HeightPx: 768, WidthMM: 1600, HeightMM: 1200}, 96},
		{"one axis out of range", Geometry{WidthPx: 3840, HeightPx: 1080, WidthMM: 100, HeightMM: 194}, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScreenDPI(tt.g, r), 0.001)
		})
	}
}

func TestDPIFromPixelsAndMM(t *testing.T) {
	assert.InDelta(t, 96.0, DPIFromPixelsAndMM(96, 254/10), 4)
	assert.Zero(t, DPIFromPixelsAndMM(1000, 0))
}
