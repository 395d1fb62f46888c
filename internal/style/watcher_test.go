package style

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "dialog.css", `.a { color: red; }`)
	sheet, err := NewSheet("dialog", path)
	require.NoError(t, err)

	w := NewWatcher(sheet, nil)
	w.SetPollInterval(10 * time.Millisecond)
	got := make(chan string, 1)
	w.SetChangeCallback(func(css string) {
		select {
		case got <- css:
		default:
		}
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dialog.css"), []byte(`.a { color: blue; }`), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case css := <-got:
		assert.Contains(t, css, "blue")
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_IgnoresEmbedded(t *testing.T) {
	w := NewWatcher(Resolve("", DefaultName), nil)
	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
	w.Stop()
}

func TestWatcher_StopIdempotent(t *testing.T) {
	path := writeCSS(t, t.TempDir(), "x.css", `.x {}`)
	sheet, err := NewSheet("x", path)
	require.NoError(t, err)

	w := NewWatcher(sheet, nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}
