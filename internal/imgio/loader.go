// Package imgio decodes captured image blobs (JPEG/PNG/WebP/TGA, plus
// HEIC/HEIF through a delegate codec) into upright, size-bounded bitmaps, and
// encodes export thumbnails.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"capture-thumb-editor/internal/exif"
	"capture-thumb-editor/internal/normalize"
)

// ImageSource is a loaded capture: the blob reference, the normalized bitmap
// and its natural (upright) dimensions. Immutable once loaded; switching
// images replaces it wholesale.
type ImageSource struct {
	Path          string
	Bitmap        *image.NRGBA
	NaturalWidth  int
	NaturalHeight int
	Orientation   exif.Orientation
}

// HEICDecoder converts HEIC/HEIF blobs. The production decoder wraps the
// external codec; tests substitute their own.
type HEICDecoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Loader turns raw capture blobs into normalized ImageSources.
type Loader struct {
	// MaxDimension bounds the normalized bitmap's long edge.
	MaxDimension int

	// HEIC handles HEIC/HEIF input. Nil means the built-in codec.
	HEIC HEICDecoder
}

// DefaultMaxDimension bounds interactive and export cost independent of
// camera resolution.
const DefaultMaxDimension = 1500

// LoadFile reads and normalizes a capture from disk.
func (l *Loader) LoadFile(path string) (*ImageSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: read %s: %w", path, err)
	}
	src, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Load decodes and normalizes a capture blob. JPEG orientation is read from
// a bounded prefix; HEIC/HEIF is converted by the delegate codec first.
func (l *Loader) Load(data []byte) (*ImageSource, error) {
	maxDim := l.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	var (
		img image.Image
		err error
	)
	if isHEIC(data) {
		img, err = l.decodeHEIC(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHEIC, err)
		}
	} else {
		img, err = decodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	prefix := data
	if len(prefix) > exif.PrefixSize {
		prefix = prefix[:exif.PrefixSize]
	}
	orient := exif.Decode(prefix)

	bitmap, err := normalize.Normalize(img, orient, maxDim)
	if err != nil {
		return nil, err
	}

	b := bitmap.Bounds()
	return &ImageSource{
		Bitmap:        bitmap,
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
		Orientation:   orient,
	}, nil
}

// decodeImage dispatches on the blob's magic bytes. image.Decode cannot be
// used here: the tga package registers itself with an empty magic string and
// its init runs before the standard decoders', so the registry would route
// every format to the TGA decoder. TGA itself has no signature, so it stays
// the fallback — the same role its empty-magic registration gives it.
func decodeImage(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode(r)
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return jpeg.Decode(r)
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webp.Decode(r)
	default:
		return tga.Decode(r)
	}
}

func (l *Loader) decodeHEIC(data []byte) (image.Image, error) {
	dec := l.HEIC
	if dec == nil {
		dec = builtinHEIC{}
	}
	return dec.Decode(bytes.NewReader(data))
}

// isHEIC sniffs the ISO-BMFF ftyp box for HEIC/HEIF brands.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heim", "heis", "hevc", "hevx", "mif1", "msf1":
		return true
	}
	return false
}
