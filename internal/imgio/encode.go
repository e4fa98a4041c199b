package imgio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/HugoSmits86/nativewebp"
)

// EncodeFunc turns a rendered surface into thumbnail bytes.
type EncodeFunc func(img *image.NRGBA) ([]byte, error)

// EncodeWebP encodes a lossless WebP thumbnail.
func EncodeWebP(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("%w: webp: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// JPEGEncoder returns an EncodeFunc producing JPEG at the given quality.
// Quality outside [1,100] falls back to the default.
func JPEGEncoder(quality int) EncodeFunc {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return func(img *image.NRGBA) ([]byte, error) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: jpeg q%d: %v", ErrEncode, quality, err)
		}
		return buf.Bytes(), nil
	}
}

// EncoderFor picks an encoder by format name. Unknown formats default to
// WebP, the batch output format.
func EncoderFor(format string, quality int) EncodeFunc {
	switch format {
	case "jpeg", "jpg":
		return JPEGEncoder(quality)
	default:
		return EncodeWebP
	}
}
