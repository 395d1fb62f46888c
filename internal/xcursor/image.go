package xcursor

import (
	"bytes"
	"fmt"
	"image"
	"os"

	xdraw "golang.org/x/image/draw"
)

// SwapRedBlue converts packed B,G,R,A pixels to R,G,B,A in place by swapping
// bytes 0 and 2 of every 4-byte group. Trailing bytes that do not form a
// whole pixel are left alone.
func SwapRedBlue(buf []byte) {
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i], buf[i+2] = buf[i+2], buf[i]
	}
}

// RGBA converts the frame to an *image.RGBA. Xcursor pixels are already
// premultiplied, which is what image.RGBA expects; colour channels that
// exceed alpha in malformed files are clamped.
func (img *Image) RGBA() *image.RGBA {
	pix := make([]byte, len(img.Pixels))
	copy(pix, img.Pixels)
	SwapRedBlue(pix)

	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		for c := 0; c < 3; c++ {
			if pix[i+c] > a {
				pix[i+c] = a
			}
		}
	}

	return &image.RGBA{
		Pix:    pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Load decodes the best frame for size from an in-memory Xcursor file.
func Load(data []byte, size int) (*image.RGBA, error) {
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	frame, err := f.Image(size)
	if err != nil {
		return nil, err
	}
	return Fit(frame.RGBA(), size), nil
}

// LoadImage reads the cursor file at path and returns the frame whose nominal
// size is nearest to size, scaled down to fit within size x size.
func LoadImage(path string, size int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cursor: %w", err)
	}
	img, err := Load(data, size)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Fit returns src unchanged when it already fits within size x size.
// Otherwise it returns a bilinear downscale that keeps the aspect ratio,
// with the longer side equal to size.
func Fit(src *image.RGBA, size int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return src
	}

	nw, nh := size, size
	if w > h {
		nh = max(1, h*size/w)
	} else if h > w {
		nw = max(1, w*size/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
