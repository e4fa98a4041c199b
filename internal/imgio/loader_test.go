package imgio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capture-thumb-editor/internal/exif"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withOrientation splices an Exif APP1 segment right after the SOI of an
// encoded JPEG, the way camera firmware writes it.
func withOrientation(t *testing.T, jpg []byte, orient uint16) []byte {
	t.Helper()
	require.True(t, len(jpg) > 2 && jpg[0] == 0xFF && jpg[1] == 0xD8)

	bo := binary.BigEndian
	tiff := []byte{'M', 'M'}
	tiff = bo.AppendUint16(tiff, 42)
	tiff = bo.AppendUint32(tiff, 8)
	tiff = bo.AppendUint16(tiff, 1)
	tiff = bo.AppendUint16(tiff, 0x0112)
	tiff = bo.AppendUint16(tiff, 3)
	tiff = bo.AppendUint32(tiff, 1)
	tiff = bo.AppendUint16(tiff, orient)
	tiff = bo.AppendUint16(tiff, 0)
	tiff = bo.AppendUint32(tiff, 0)

	app1 := append([]byte("Exif\x00\x00"), tiff...)

	out := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	out = bo.AppendUint16(out, uint16(len(app1)+2))
	out = append(out, app1...)
	out = append(out, jpg[2:]...)
	return out
}

func TestLoadPNG(t *testing.T) {
	l := &Loader{MaxDimension: 100}
	src, err := l.Load(pngBytes(t, testImage(240, 160)))
	require.NoError(t, err)

	assert.Equal(t, 100, src.NaturalWidth)
	assert.Equal(t, 67, src.NaturalHeight)
	assert.Equal(t, exif.Unspecified, src.Orientation)
	assert.Equal(t, src.NaturalWidth, src.Bitmap.Bounds().Dx())
}

func TestLoadJPEGWithOrientation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(40, 30), &jpeg.Options{Quality: 90}))

	l := &Loader{MaxDimension: 500}
	src, err := l.Load(withOrientation(t, buf.Bytes(), 6))
	require.NoError(t, err)

	assert.Equal(t, exif.Rotate90CW, src.Orientation)
	// Upright: dimensions swapped.
	assert.Equal(t, 30, src.NaturalWidth)
	assert.Equal(t, 40, src.NaturalHeight)
}

func TestLoadWebPRoundTrip(t *testing.T) {
	data, err := EncodeWebP(testImage(60, 40))
	require.NoError(t, err)

	l := &Loader{MaxDimension: 500}
	src, err := l.Load(data)
	require.NoError(t, err)
	assert.Equal(t, 60, src.NaturalWidth)
	assert.Equal(t, 40, src.NaturalHeight)
}

func TestLoadGarbage(t *testing.T) {
	l := &Loader{}
	_, err := l.Load([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrHEIC)
}

type stubHEIC struct {
	img image.Image
	err error
}

func (s stubHEIC) Decode(io.Reader) (image.Image, error) { return s.img, s.err }

func heicHeader() []byte {
	data := make([]byte, 0, 24)
	data = binary.BigEndian.AppendUint32(data, 16)
	data = append(data, []byte("ftypheic")...)
	data = append(data, []byte("mif1heic")...)
	return data
}

func TestLoadHEICDelegate(t *testing.T) {
	l := &Loader{MaxDimension: 100, HEIC: stubHEIC{img: testImage(300, 200)}}
	src, err := l.Load(heicHeader())
	require.NoError(t, err)
	assert.Equal(t, 100, src.NaturalWidth)
	assert.Equal(t, 67, src.NaturalHeight)
}

func TestLoadHEICFailureIsDistinct(t *testing.T) {
	l := &Loader{HEIC: stubHEIC{err: errors.New("codec exploded")}}
	_, err := l.Load(heicHeader())
	assert.ErrorIs(t, err, ErrHEIC)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestIsHEIC(t *testing.T) {
	assert.True(t, isHEIC(heicHeader()))
	assert.False(t, isHEIC([]byte("short")))
	assert.False(t, isHEIC(pngBytes(t, testImage(4, 4))))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, testImage(80, 50)), 0o644))

	l := &Loader{MaxDimension: 200}
	src, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, 80, src.NaturalWidth)

	_, err = l.LoadFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestEncoders(t *testing.T) {
	img := testImage(32, 32)

	webp, err := EncodeWebP(img)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(webp[:4]))
	assert.Equal(t, "WEBP", string(webp[8:12]))

	jpg, err := JPEGEncoder(80)(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, jpg[:2])

	// Selection and quality fallback.
	data, err := EncoderFor("jpeg", -1)(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
	data, err = EncoderFor("webp", 0)(img)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
}
