package a11y

import "github.com/jmylchreest/a11ysettings/internal/config"

// Geometry is a monitor's size in pixels and millimetres.
type Geometry struct {
	WidthPx  int
	HeightPx int
	WidthMM  int
	HeightMM int
}

// DPIRange bounds plausible DPI values; anything outside falls back.
type DPIRange struct {
	Min      float64
	Max      float64
	Fallback float64
}

// DPIRangeFromConfig returns the range configured in [font].
func DPIRangeFromConfig(cfg *config.Config) DPIRange {
	return DPIRange{
		Min:      cfg.Font.MinDPI,
		Max:      cfg.Font.MaxDPI,
		Fallback: cfg.Font.FallbackDPI,
	}
}

// DPIFromPixelsAndMM returns pixels per inch, or 0 when mm is below 1.
func DPIFromPixelsAndMM(pixels, mm int) float64 {
	if mm < 1 {
		return 0
	}
	return float64(pixels) / (float64(mm) / 25.4)
}

// ScreenDPI averages the horizontal and vertical DPI of g. If either axis
// is outside r, the fallback is returned.
func ScreenDPI(g Geometry, r DPIRange) float64 {
	w := DPIFromPixelsAndMM(g.WidthPx, g.WidthMM)
	h := DPIFromPixelsAndMM(g.HeightPx, g.HeightMM)
	if w < r.Min || w > r.Max || h < r.Min || h > r.Max {
		return r.Fallback
	}
	return (w + h) / 2
}
