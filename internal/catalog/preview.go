package catalog

import (
	"image"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/jmylchreest/a11ysettings/internal/xcursor"
)

// Mosaic geometry: MosaicRows x MosaicColumns cells of MosaicCellSize
// pixels, MosaicSpacing pixels apart.
const (
	MosaicRows     = 3
	MosaicColumns  = 6
	MosaicCellSize = 24
	MosaicSpacing  = 2

	MosaicWidth  = MosaicColumns*MosaicCellSize + (MosaicColumns-1)*MosaicSpacing
	MosaicHeight = MosaicRows*MosaicCellSize + (MosaicRows-1)*MosaicSpacing
)

// PreviewCursors lists the cursor roles tried for the preview mosaic, in
// placement order.
var PreviewCursors = []string{
	"left_ptr",
	"left_ptr_watch",
	"watch",
	"hand2",
	"question_arrow",
	"sb_h_double_arrow",
	"sb_v_double_arrow",
	"bottom_left_corner",
	"bottom_right_corner",
	"fleur",
	"pirate",
	"cross",
	"X_cursor",
	"right_ptr",
	"right_side",
	"right_tee",
	"sb_right_arrow",
	"sb_right_tee",
	"base_arrow_down",
	"base_arrow_up",
	"bottom_side",
	"bottom_tee",
	"center_ptr",
	"circle",
	"dot",
	"dot_box_mask",
	"double_arrow",
	"draped_box",
	"left_side",
	"left_tee",
	"ll_angle",
	"top_side",
	"top_tee",
}

// RenderPreviewMosaic renders a theme's cursors into a grid using the
// default logger. See (*Builder).RenderPreviewMosaic.
func RenderPreviewMosaic(themePath string) *image.RGBA {
	return NewBuilder(nil).RenderPreviewMosaic(themePath)
}

// RenderPreviewMosaic decodes PreviewCursors from the theme's cursors
// directory and places each decoded bitmap in the next free cell, filling
// rows left to right. Roles that fail to decode are skipped without using a
// cell. Returns nil when themePath is empty or nothing decoded.
func (b *Builder) RenderPreviewMosaic(themePath string) *image.RGBA {
	if themePath == "" {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, MosaicWidth, MosaicHeight))
	placed := 0

	for _, role := range PreviewCursors {
		if placed == MosaicRows*MosaicColumns {
			break
		}

		img, err := xcursor.LoadImage(filepath.Join(themePath, role), MosaicCellSize)
		if err != nil {
			b.logger.Debug("skipping preview cursor", "role", role, "error", err)
			continue
		}

		row, col := placed/MosaicColumns, placed%MosaicColumns
		origin := image.Pt(
			col*(MosaicCellSize+MosaicSpacing),
			row*(MosaicCellSize+MosaicSpacing),
		)
		r := image.Rectangle{Min: origin, Max: origin.Add(img.Bounds().Size())}
		xdraw.Draw(dst, r, img, img.Bounds().Min, xdraw.Src)
		placed++
	}

	if placed == 0 {
		return nil
	}
	return dst
}
