// Package xcursor decodes X11 cursor files (the format libXcursor reads from
// a theme's cursors/ directory) into Go images.
package xcursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	fileMagic      = 0x72756358 // "Xcur" read as a little-endian uint32
	fileHeaderLen  = 16
	tocEntryLen    = 12
	imageHeaderLen = 36

	// ImageChunkType identifies an image chunk in the table of contents.
	ImageChunkType = 0xfffd0002
	// CommentChunkType identifies a comment chunk in the table of contents.
	CommentChunkType = 0xfffe0001

	maxTOCEntries = 0x10000
	maxImageSide  = 0x7fff
)

var (
	// ErrBadMagic is returned when the file does not start with "Xcur".
	ErrBadMagic = errors.New("xcursor: bad magic")
	// ErrNoImage is returned when the file contains no image chunk.
	ErrNoImage = errors.New("xcursor: no image chunk")
	// ErrCorrupt is returned for truncated or inconsistent files.
	ErrCorrupt = errors.New("xcursor: corrupt file")
)

// TOCEntry is one table-of-contents record.
type TOCEntry struct {
	Type     uint32
	Subtype  uint32 // nominal size for image chunks
	Position uint32
}

// File is a parsed Xcursor header with its table of contents. Image data is
// read lazily from the underlying reader.
type File struct {
	Version uint32
	TOC     []TOCEntry

	r    io.ReaderAt
	size int64 // -1 when the reader has no Size method
}

// sizer is implemented by bytes.Reader, strings.Reader and io.SectionReader.
type sizer interface {
	Size() int64
}

// Image is one decoded cursor frame.
type Image struct {
	NominalSize uint32
	Width       int
	Height      int
	XHot        int
	YHot        int
	Delay       uint32

	// Pixels holds Width*Height ARGB32 values serialised little-endian, so
	// each pixel is laid out in memory as B, G, R, A (premultiplied alpha).
	Pixels []byte
}

// Decode reads the file header and table of contents. When r reports its
// size, chunks that would extend past the end are rejected before any
// buffer is allocated for them.
func Decode(r io.ReaderAt) (*File, error) {
	size := int64(-1)
	if s, ok := r.(sizer); ok {
		size = s.Size()
	}

	var hdr [fileHeaderLen]byte
	if err := readFull(r, hdr[:], 0); err != nil {
		return nil, err
	}

	if binary.LittleEndian.Uint32(hdr[0:4]) != fileMagic {
		return nil, ErrBadMagic
	}

	headerLen := binary.LittleEndian.Uint32(hdr[4:8])
	version := binary.LittleEndian.Uint32(hdr[8:12])
	ntoc := binary.LittleEndian.Uint32(hdr[12:16])

	if headerLen < fileHeaderLen {
		return nil, fmt.Errorf("%w: header length %d", ErrCorrupt, headerLen)
	}
	if ntoc > maxTOCEntries {
		return nil, fmt.Errorf("%w: %d toc entries", ErrCorrupt, ntoc)
	}

	if size >= 0 && int64(headerLen)+int64(ntoc)*tocEntryLen > size {
		return nil, fmt.Errorf("%w: %d toc entries past end of file", ErrCorrupt, ntoc)
	}

	raw := make([]byte, int(ntoc)*tocEntryLen)
	if err := readFull(r, raw, int64(headerLen)); err != nil {
		return nil, err
	}

	toc := make([]TOCEntry, ntoc)
	for i := range toc {
		b := raw[i*tocEntryLen:]
		toc[i] = TOCEntry{
			Type:     binary.LittleEndian.Uint32(b[0:4]),
			Subtype:  binary.LittleEndian.Uint32(b[4:8]),
			Position: binary.LittleEndian.Uint32(b[8:12]),
		}
	}

	return &File{Version: version, TOC: toc, r: r, size: size}, nil
}

// Sizes returns the distinct nominal sizes of the image chunks, in file order.
func (f *File) Sizes() []uint32 {
	var sizes []uint32
	seen := make(map[uint32]bool)
	for _, e := range f.TOC {
		if e.Type != ImageChunkType || seen[e.Subtype] {
			continue
		}
		seen[e.Subtype] = true
		sizes = append(sizes, e.Subtype)
	}
	return sizes
}

// BestSize returns the nominal size closest to size. Ties keep the size that
// appears first in the table of contents, as libXcursor does.
func (f *File) BestSize(size int) (uint32, bool) {
	var best uint32
	found := false
	for _, e := range f.TOC {
		if e.Type != ImageChunkType {
			continue
		}
		if !found || distance(e.Subtype, size) < distance(best, size) {
			best = e.Subtype
			found = true
		}
	}
	return best, found
}

// Image returns the first frame of the nominal size closest to size.
func (f *File) Image(size int) (*Image, error) {
	best, ok := f.BestSize(size)
	if !ok {
		return nil, ErrNoImage
	}
	for _, e := range f.TOC {
		if e.Type == ImageChunkType && e.Subtype == best {
			return f.readImage(e)
		}
	}
	return nil, ErrNoImage
}

func (f *File) readImage(e TOCEntry) (*Image, error) {
	var hdr [imageHeaderLen]byte
	if err := readFull(f.r, hdr[:], int64(e.Position)); err != nil {
		return nil, err
	}

	field := func(i int) uint32 { return binary.LittleEndian.Uint32(hdr[i*4 : i*4+4]) }

	headerLen := field(0)
	if headerLen < imageHeaderLen {
		return nil, fmt.Errorf("%w: image header length %d", ErrCorrupt, headerLen)
	}
	if field(1) != e.Type || field(2) != e.Subtype {
		return nil, fmt.Errorf("%w: chunk header does not match toc", ErrCorrupt)
	}

	width, height := field(4), field(5)
	xhot, yhot := field(6), field(7)
	if width == 0 || height == 0 || width > maxImageSide || height > maxImageSide {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrCorrupt, width, height)
	}
	if xhot > width || yhot > height {
		return nil, fmt.Errorf("%w: hotspot outside image", ErrCorrupt)
	}

	pixels, err := f.readPixels(int64(e.Position)+int64(headerLen), int64(width)*int64(height)*4)
	if err != nil {
		return nil, err
	}

	return &Image{
		NominalSize: e.Subtype,
		Width:       int(width),
		Height:      int(height),
		XHot:        int(xhot),
		YHot:        int(yhot),
		Delay:       field(8),
		Pixels:      pixels,
	}, nil
}

// readPixels reads n bytes at off. The length is checked against the file
// size first; for readers of unknown size the buffer grows with the data
// actually read.
func (f *File) readPixels(off, n int64) ([]byte, error) {
	if f.size >= 0 {
		if off+n > f.size {
			return nil, fmt.Errorf("%w: pixel data needs %d bytes, file has %d", ErrCorrupt, off+n, f.size)
		}
		pixels := make([]byte, n)
		if err := readFull(f.r, pixels, off); err != nil {
			return nil, err
		}
		return pixels, nil
	}

	pixels, err := io.ReadAll(io.NewSectionReader(f.r, off, n))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if int64(len(pixels)) != n {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	return pixels, nil
}

func distance(nominal uint32, size int) int {
	d := int(nominal) - size
	if d < 0 {
		return -d
	}
	return d
}

func readFull(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
