package dialog

import (
	"image"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// newTexture uploads img as a GDK texture. image.RGBA holds premultiplied
// RGBA bytes, which matches MemoryR8G8B8A8Premultiplied.
func newTexture(img *image.RGBA) *gdk.MemoryTexture {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Min != (image.Point{}) {
		tight := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			copy(tight.Pix[y*tight.Stride:], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()*4])
		}
		img = tight
	}
	return gdk.NewMemoryTexture(
		b.Dx(), b.Dy(),
		gdk.MemoryR8G8B8A8Premultiplied,
		glib.NewBytes(img.Pix),
		uint(img.Stride),
	)
}

// newIconImage returns a fixed-size image for icon, or an empty image of the
// same size so rows stay aligned.
func newIconImage(icon *image.RGBA, size int) *gtk.Image {
	var img *gtk.Image
	if tex := newTexture(icon); tex != nil {
		img = gtk.NewImageFromPaintable(tex)
	} else {
		img = gtk.NewImage()
	}
	img.SetPixelSize(size)
	return img
}
