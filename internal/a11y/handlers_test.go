package a11y

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

type fakeLauncher struct {
	launched []string
	running  map[string]bool
	err      error
}

func (f *fakeLauncher) Launch(_ context.Context, commandLine string) error {
	f.launched = append(f.launched, commandLine)
	return f.err
}

func (f *fakeLauncher) IsRunning(_ context.Context, pattern string) (bool, error) {
	return f.running[pattern], nil
}

func newTestContext(t *testing.T) (*Context, *fakeLauncher) {
	t.Helper()
	ctrl, _ := newTestController(t, 96)
	launcher := &fakeLauncher{running: map[string]bool{}}
	c, err := NewContext(ctrl, launcher, nil)
	require.NoError(t, err)
	return c, launcher
}

func mustLookup(t *testing.T, id ControlID) Handler {
	t.Helper()
	h, err := Lookup(id)
	require.NoError(t, err)
	return h
}

func TestHandlers_Table(t *testing.T) {
	ids := make(map[ControlID]bool)
	for _, h := range Handlers() {
		assert.False(t, ids[h.ID], "duplicate %s", h.ID)
		ids[h.ID] = true
		assert.NotEmpty(t, h.Label)

		if h.Kind == KindAction {
			assert.NotNil(t, h.Run, h.ID)
			assert.Nil(t, h.Set, h.ID)
		} else {
			assert.NotNil(t, h.Get, h.ID)
			assert.NotNil(t, h.Set, h.ID)
		}
	}

	assert.Equal(t, []ControlID{
		ControlHighContrast, ControlLargePrint, ControlCursorTheme,
		ControlCursorSize, ControlScreenReader, ControlOnscreenKeyboard,
	}, Settable())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("magnifier")
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestHandlers_GetSet(t *testing.T) {
	tests := []struct {
		id    ControlID
		value string
		want  string
	}{
		{ControlHighContrast, "on", "true"},
		{ControlHighContrast, "false", "false"},
		{ControlLargePrint, "yes", "true"},
		{ControlCursorTheme, "Adwaita", "Adwaita"},
		{ControlCursorSize, "31", "32"},
		{ControlScreenReader, "1", "true"},
		{ControlOnscreenKeyboard, "true", "true"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id)+"="+tt.value, func(t *testing.T) {
			c, _ := newTestContext(t)
			h := mustLookup(t, tt.id)

			require.NoError(t, h.Set(c, tt.value))
			got, err := h.Get(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlers_InvalidValues(t *testing.T) {
	c, _ := newTestContext(t)

	assert.Error(t, mustLookup(t, ControlHighContrast).Set(c, "maybe"))
	assert.Error(t, mustLookup(t, ControlCursorSize).Set(c, "big"))
}

func TestHandlers_CursorThemeValidatedAgainstCatalog(t *testing.T) {
	c, _ := newTestContext(t)
	c.Themes = catalog.New()
	h := mustLookup(t, ControlCursorTheme)

	err := h.Set(c, "NotInstalled")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	require.NoError(t, h.Set(c, "DEFAULT"))
	got, _ := h.Get(c)
	assert.Equal(t, catalog.DefaultName, got, "stored with the catalog's spelling")
}

func TestHandlers_PendingUntilCommit(t *testing.T) {
	c, _ := newTestContext(t)

	require.NoError(t, mustLookup(t, ControlScreenReader).Set(c, "true"))
	stored, _ := c.Controller.ScreenReaderAutostart()
	assert.False(t, stored)

	logout, err := c.Commit()
	require.NoError(t, err)
	assert.True(t, logout)
	stored, _ = c.Controller.ScreenReaderAutostart()
	assert.True(t, stored)

	// a second context picks up the stored flag
	again, err := NewContext(c.Controller, nil, nil)
	require.NoError(t, err)
	assert.True(t, again.ScreenReader)
}

func TestContext_Revert(t *testing.T) {
	c, _ := newTestContext(t)
	c.ScreenReader = true
	c.OnscreenKeyboard = true
	require.NoError(t, c.Controller.SetHighContrast(true))

	require.NoError(t, c.Revert())

	assert.False(t, c.ScreenReader)
	assert.False(t, c.OnscreenKeyboard)
	on, _ := c.Controller.HighContrast()
	assert.False(t, on)
}

func TestScreenRuler(t *testing.T) {
	c, launcher := newTestContext(t)
	h := mustLookup(t, ControlScreenRuler)

	require.NoError(t, h.Run(context.Background(), c))
	assert.Equal(t, []string{"screenruler"}, launcher.launched)

	launcher.running["screenruler"] = true
	require.NoError(t, h.Run(context.Background(), c))
	assert.Len(t, launcher.launched, 1, "not launched twice")
}

func TestKeyboardPanel(t *testing.T) {
	c, launcher := newTestContext(t)
	launcher.err = errors.New("exec: not found")

	err := mustLookup(t, ControlKeyboardPanel).Run(context.Background(), c)
	assert.Error(t, err)
	assert.Equal(t, []string{"mate-keyboard-properties --a11y"}, launcher.launched)
}

func TestHelp(t *testing.T) {
	h := mustLookup(t, ControlHelp)

	t.Run("online opens wiki", func(t *testing.T) {
		c, launcher := newTestContext(t)
		var opened []string
		c.Online = func() bool { return true }
		c.OpenURI = func(uri string) error { opened = append(opened, uri); return nil }

		require.NoError(t, h.Run(context.Background(), c))
		assert.Equal(t, []string{c.Controller.Config().Help.URL}, opened)
		assert.Empty(t, launcher.launched)
	})

	t.Run("offline launches manual", func(t *testing.T) {
		c, launcher := newTestContext(t)
		c.Online = func() bool { return false }

		require.NoError(t, h.Run(context.Background(), c))
		assert.Equal(t, []string{c.Controller.Config().Helpers.Manual}, launcher.launched)
	})

	t.Run("browser failure falls back to manual", func(t *testing.T) {
		c, launcher := newTestContext(t)
		c.Online = func() bool { return true }
		c.OpenURI = func(string) error { return errors.New("no handler") }

		require.NoError(t, h.Run(context.Background(), c))
		assert.Len(t, launcher.launched, 1)
	})
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "on", "YES", " y "} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "0", "off", "no"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("perhaps")
	assert.Error(t, err)
}
