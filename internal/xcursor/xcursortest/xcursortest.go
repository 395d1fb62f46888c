// Package xcursortest builds Xcursor files for tests.
package xcursortest

import (
	"encoding/binary"
	"os"
	"path/filepath"
)

// Frame describes one image chunk. Pixel is the ARGB32 value every pixel of
// the frame is filled with.
type Frame struct {
	Size   uint32
	Width  int
	Height int
	XHot   int
	YHot   int
	Pixel  uint32
}

// Square returns a frame of nominal size n with n x n pixels.
func Square(n int, pixel uint32) Frame {
	return Frame{Size: uint32(n), Width: n, Height: n, Pixel: pixel}
}

// Encode serialises frames as an Xcursor file, one TOC entry per frame.
func Encode(frames ...Frame) []byte {
	const (
		fileHeaderLen  = 16
		tocEntryLen    = 12
		imageHeaderLen = 36
		imageType      = 0xfffd0002
	)

	le := binary.LittleEndian
	out := make([]byte, 0, 1024)
	out = le.AppendUint32(out, 0x72756358)
	out = le.AppendUint32(out, fileHeaderLen)
	out = le.AppendUint32(out, 0x10000)
	out = le.AppendUint32(out, uint32(len(frames)))

	pos := fileHeaderLen + tocEntryLen*len(frames)
	for _, f := range frames {
		out = le.AppendUint32(out, imageType)
		out = le.AppendUint32(out, f.Size)
		out = le.AppendUint32(out, uint32(pos))
		pos += imageHeaderLen + f.Width*f.Height*4
	}

	for _, f := range frames {
		out = le.AppendUint32(out, imageHeaderLen)
		out = le.AppendUint32(out, imageType)
		out = le.AppendUint32(out, f.Size)
		out = le.AppendUint32(out, 1)
		out = le.AppendUint32(out, uint32(f.Width))
		out = le.AppendUint32(out, uint32(f.Height))
		out = le.AppendUint32(out, uint32(f.XHot))
		out = le.AppendUint32(out, uint32(f.YHot))
		out = le.AppendUint32(out, 0)
		for i := 0; i < f.Width*f.Height; i++ {
			out = le.AppendUint32(out, f.Pixel)
		}
	}

	return out
}

// WriteTheme creates root/<name>/cursors and writes one cursor file per
// role, each holding the given frames. It returns the cursors directory.
func WriteTheme(root, name string, roles []string, frames ...Frame) (string, error) {
	dir := filepath.Join(root, name, "cursors")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data := Encode(frames...)
	for _, role := range roles {
		if err := os.WriteFile(filepath.Join(dir, role), data, 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}
