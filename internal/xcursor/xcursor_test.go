package xcursor

import (
	"bytes"
	"encoding/binary"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a11ysettings/internal/xcursor/xcursortest"
)

func TestDecode(t *testing.T) {
	data := xcursortest.Encode(
		xcursortest.Square(24, 0xff000000),
		xcursortest.Square(32, 0xff000000),
		xcursortest.Square(48, 0xff000000),
	)

	f, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Len(t, f.TOC, 3)
	assert.Equal(t, []uint32{24, 32, 48}, f.Sizes())
	for _, e := range f.TOC {
		assert.Equal(t, uint32(ImageChunkType), e.Type)
	}
}

func TestDecode_Errors(t *testing.T) {
	valid := xcursortest.Encode(xcursortest.Square(16, 0))

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrCorrupt},
		{"bad magic", append([]byte("Xpm!"), valid[4:]...), ErrBadMagic},
		{"truncated toc", valid[:20], ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBestSize(t *testing.T) {
	data := xcursortest.Encode(
		xcursortest.Square(32, 0),
		xcursortest.Square(24, 0),
		xcursortest.Square(48, 0),
	)
	f, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	tests := []struct {
		size int
		want uint32
	}{
		{16, 24},
		{24, 24},
		{28, 32}, // tie between 24 and 32 keeps the earlier entry
		{40, 32},
		{41, 48},
		{128, 48},
	}

	for _, tt := range tests {
		got, ok := f.BestSize(tt.size)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "size %d", tt.size)
	}
}

func TestImage_FirstFrameOfSize(t *testing.T) {
	data := xcursortest.Encode(
		xcursortest.Frame{Size: 24, Width: 24, Height: 24, XHot: 3, YHot: 4, Pixel: 0xff112233},
		xcursortest.Frame{Size: 24, Width: 24, Height: 24, Pixel: 0xff445566},
	)
	f, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	img, err := f.Image(24)
	require.NoError(t, err)
	assert.Equal(t, 3, img.XHot)
	assert.Equal(t, 4, img.YHot)
	assert.Equal(t, []byte{0x33, 0x22, 0x11, 0xff}, img.Pixels[:4])
}

func TestImage_NoImageChunk(t *testing.T) {
	f, err := Decode(bytes.NewReader(xcursortest.Encode()))
	require.NoError(t, err)

	_, err = f.Image(24)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestImage_TruncatedPixels(t *testing.T) {
	data := xcursortest.Encode(xcursortest.Square(16, 0xffffffff))
	f, err := Decode(bytes.NewReader(data[:len(data)-10]))
	require.NoError(t, err)

	_, err = f.Image(16)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestImage_OversizedDimensions(t *testing.T) {
	data := xcursortest.Encode(xcursortest.Square(2, 0))
	// width field of the first image header
	binary.LittleEndian.PutUint32(data[16+12+16:], 0x8000)

	f, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = f.Image(2)
	assert.ErrorIs(t, err, ErrCorrupt)
}

// readerAtOnly hides the Size method of the wrapped reader.
type readerAtOnly struct{ r *bytes.Reader }

func (r readerAtOnly) ReadAt(p []byte, off int64) (int, error) { return r.r.ReadAt(p, off) }

func hugeImageHeader() []byte {
	data := xcursortest.Encode(xcursortest.Square(2, 0))
	// width and height fields of the first image header
	binary.LittleEndian.PutUint32(data[16+12+16:], maxImageSide)
	binary.LittleEndian.PutUint32(data[16+12+20:], maxImageSide)
	return data
}

func TestImage_DimensionsPastEndOfFile(t *testing.T) {
	data := hugeImageHeader()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Load(data, 24)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20),
		"pixel buffer must not be allocated from the header alone")
}

func TestImage_DimensionsPastEndOfFile_UnsizedReader(t *testing.T) {
	data := hugeImageHeader()

	f, err := Decode(readerAtOnly{bytes.NewReader(data)})
	require.NoError(t, err)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = f.Image(24)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestDecode_TOCPastEndOfFile(t *testing.T) {
	data := xcursortest.Encode(xcursortest.Square(2, 0))
	binary.LittleEndian.PutUint32(data[12:], maxTOCEntries)

	_, err := Decode(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSwapRedBlue(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	SwapRedBlue(buf)
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8, 9}, buf)
}

func TestRGBA_ChannelOrder(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Pixels: []byte{0x10, 0x20, 0x40, 0x80}}

	rgba := img.RGBA()
	assert.Equal(t, []byte{0x40, 0x20, 0x10, 0x80}, rgba.Pix)
	assert.Equal(t, []byte{0x10, 0x20, 0x40, 0x80}, img.Pixels, "source must not be modified")
}

func TestRGBA_ClampsToAlpha(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Pixels: []byte{0xff, 0x10, 0xff, 0x40}}

	rgba := img.RGBA()
	assert.Equal(t, []byte{0x40, 0x10, 0x40, 0x40}, rgba.Pix)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		wantW      int
		wantH      int
	}{
		{"already fits", 16, 16, 24, 16, 16},
		{"square", 32, 32, 24, 24, 24},
		{"wide", 48, 32, 24, 24, 16},
		{"tall", 32, 64, 16, 8, 16},
		{"zero size leaves source", 32, 32, 0, 32, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Fit(src, tt.size)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "left_ptr")
	data := xcursortest.Encode(
		xcursortest.Square(32, 0xff0000ff),
		xcursortest.Square(48, 0xff0000ff),
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	img, err := LoadImage(path, 24)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())

	img, err = LoadImage(path, 32)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	assert.Equal(t, []byte{0x00, 0x00, 0xff, 0xff}, img.Pix[:4])
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope"), 24)
	assert.Error(t, err)
}
