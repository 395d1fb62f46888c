package dialog

import (
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
)

// ScreenDPIFunc returns a function that measures the DPI of the first
// monitor, falling back to r.Fallback when there is no display or the
// monitor reports an implausible physical size.
func ScreenDPIFunc(r a11y.DPIRange) func() float64 {
	return func() float64 {
		g, ok := primaryGeometry()
		if !ok {
			return r.Fallback
		}
		return a11y.ScreenDPI(g, r)
	}
}

// primaryGeometry reports the pixel and physical size of the first monitor.
func primaryGeometry() (a11y.Geometry, bool) {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return a11y.Geometry{}, false
	}
	monitor := getPrimaryMonitor(display)
	if monitor == nil {
		return a11y.Geometry{}, false
	}

	rect := monitor.Geometry()
	scale := max(1, monitor.ScaleFactor())
	return a11y.Geometry{
		WidthPx:  rect.Width() * scale,
		HeightPx: rect.Height() * scale,
		WidthMM:  monitor.WidthMm(),
		HeightMM: monitor.HeightMm(),
	}, true
}

// getPrimaryMonitor returns the first monitor. GTK4 has no notion of a
// primary monitor.
func getPrimaryMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// gotk4 doesn't export its own wrapMonitor.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// gdk.Monitor embeds a *coreglib.Object, so the layouts match.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
