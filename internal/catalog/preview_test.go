package catalog

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a11ysettings/internal/xcursor/xcursortest"
)

func TestMosaicGeometry(t *testing.T) {
	assert.Equal(t, 154, MosaicWidth)
	assert.Equal(t, 76, MosaicHeight)
}

func TestPreviewCursors_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range PreviewCursors {
		assert.False(t, seen[name], "duplicate role %q", name)
		seen[name] = true
	}
	assert.Equal(t, "left_ptr", PreviewCursors[0])
	assert.Len(t, PreviewCursors, 33)
}

func cellOrigin(n int) image.Point {
	row, col := n/MosaicColumns, n%MosaicColumns
	return image.Pt(col*(MosaicCellSize+MosaicSpacing), row*(MosaicCellSize+MosaicSpacing))
}

func TestRenderPreviewMosaic_Empty(t *testing.T) {
	assert.Nil(t, RenderPreviewMosaic(""))
	assert.Nil(t, RenderPreviewMosaic(filepath.Join(t.TempDir(), "missing")))

	dir := writeTheme(t, t.TempDir(), "broken")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "left_ptr"), []byte("junk"), 0o644))
	assert.Nil(t, RenderPreviewMosaic(dir))
}

func TestRenderPreviewMosaic_SkipsMissingRoles(t *testing.T) {
	// left_ptr and hand2 are roles 0 and 3; the gap closes up.
	dir := writeTheme(t, t.TempDir(), "sparse", "left_ptr", "hand2")

	img := RenderPreviewMosaic(dir)
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, MosaicWidth, MosaicHeight), img.Bounds())

	red := color.RGBA{R: 0xff, A: 0xff}
	transparent := color.RGBA{}

	first, second, third := cellOrigin(0), cellOrigin(1), cellOrigin(2)
	assert.Equal(t, red, img.RGBAAt(first.X, first.Y))
	assert.Equal(t, red, img.RGBAAt(second.X+MosaicCellSize-1, second.Y+MosaicCellSize-1))
	assert.Equal(t, transparent, img.RGBAAt(third.X, third.Y))
	// spacing between cells stays transparent
	assert.Equal(t, transparent, img.RGBAAt(MosaicCellSize, 0))
}

func TestRenderPreviewMosaic_StopsWhenFull(t *testing.T) {
	dir := writeTheme(t, t.TempDir(), "full", PreviewCursors...)

	img := RenderPreviewMosaic(dir)
	require.NotNil(t, img)

	red := color.RGBA{R: 0xff, A: 0xff}
	last := cellOrigin(MosaicRows*MosaicColumns - 1)
	assert.Equal(t, red, img.RGBAAt(last.X, last.Y))
	assert.Equal(t, red, img.RGBAAt(MosaicWidth-1, MosaicHeight-1))
}

func TestRenderPreviewMosaic_SmallBitmapTopLeft(t *testing.T) {
	dir, err := xcursortest.WriteTheme(t.TempDir(), "small", []string{"left_ptr"}, xcursortest.Square(16, opaqueRed))
	require.NoError(t, err)

	img := RenderPreviewMosaic(dir)
	require.NotNil(t, img)

	assert.Equal(t, uint8(0xff), img.RGBAAt(15, 15).A)
	assert.Equal(t, uint8(0), img.RGBAAt(16, 16).A)
}

func TestRenderPreviewMosaic_DownscalesLargeBitmaps(t *testing.T) {
	dir, err := xcursortest.WriteTheme(t.TempDir(), "large", []string{"left_ptr", "watch"}, xcursortest.Square(48, opaqueRed))
	require.NoError(t, err)

	img := RenderPreviewMosaic(dir)
	require.NotNil(t, img)

	// a 48 px bitmap scaled to the cell must not bleed into the spacing
	assert.Equal(t, uint8(0), img.RGBAAt(MosaicCellSize, 0).A)
	assert.Greater(t, img.RGBAAt(MosaicCellSize+MosaicSpacing, 0).A, uint8(0x80))
}
