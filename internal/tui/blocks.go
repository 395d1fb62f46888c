package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// alphaCutoff is the alpha below which a pixel is drawn as background.
const alphaCutoff = 0x40

// renderBlocks draws img with half-block characters, two pixel rows per
// terminal line. Transparent pixels are left as the terminal background.
func renderBlocks(img *image.RGBA) string {
	if img == nil {
		return ""
	}

	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, topOK := pixelColor(img, x, y)
			var bottom lipgloss.Color
			bottomOK := false
			if y+1 < b.Max.Y {
				bottom, bottomOK = pixelColor(img, x, y+1)
			}

			switch {
			case topOK && bottomOK:
				sb.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
			case topOK:
				sb.WriteString(lipgloss.NewStyle().Foreground(top).Render("▀"))
			case bottomOK:
				sb.WriteString(lipgloss.NewStyle().Foreground(bottom).Render("▄"))
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pixelColor returns the straight-alpha colour at x,y, or false when the
// pixel is mostly transparent.
func pixelColor(img *image.RGBA, x, y int) (lipgloss.Color, bool) {
	c := img.RGBAAt(x, y)
	if c.A < alphaCutoff {
		return "", false
	}
	unmul := func(v uint8) uint8 {
		return uint8(min(255, int(v)*255/int(c.A)))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", unmul(c.R), unmul(c.G), unmul(c.B))), true
}
