package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/settings"
)

func setupTest(t *testing.T) {
	t.Helper()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg = config.DefaultConfig()
	t.Cleanup(func() {
		cfg = nil
		globalOpts.dryRun = false
	})
}

func TestSelectBackend_DryRun(t *testing.T) {
	setupTest(t)
	globalOpts.dryRun = true

	assert.IsType(t, &settings.MemoryBackend{}, selectBackend())
}

func TestSelectBackend_ConfiguredMemory(t *testing.T) {
	setupTest(t)
	cfg.Session.Backend = config.BackendMemory

	assert.IsType(t, &settings.MemoryBackend{}, selectBackend())
}

func TestOpenContext_DryRun(t *testing.T) {
	setupTest(t)
	globalOpts.dryRun = true

	c, err := openContext()
	require.NoError(t, err)
	defer func() { _ = c.Controller.Close() }()

	h, err := a11y.Lookup(a11y.ControlCursorSize)
	require.NoError(t, err)
	require.NoError(t, h.Set(c, "40"))
	got, err := h.Get(c)
	require.NoError(t, err)
	assert.Equal(t, "40", got)
}

func TestJoinFormats(t *testing.T) {
	assert.Equal(t, "plain, json, dmenu, names", joinFormats())
}
