// Package normalize produces upright, size-bounded bitmaps from captured
// images, correcting EXIF orientation independent of the platform's own
// handling.
package normalize

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"capture-thumb-editor/internal/exif"
	"capture-thumb-editor/internal/geom"
	"capture-thumb-editor/internal/render"
)

// ErrEmptyInput marks a source image with no pixels.
var ErrEmptyInput = errors.New("normalize: empty input image")

// Normalize corrects the orientation of src and downscales it so that
// max(width, height) ≤ maxDim, in a single resample pass. The result is a
// fresh NRGBA bitmap; on error no partial output is returned.
func Normalize(src image.Image, o exif.Orientation, maxDim int) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrEmptyInput
	}
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyInput
	}

	uprightW, uprightH := o.Dimensions(w, h)
	outW, outH, factor := FitWithin(uprightW, uprightH, maxDim)
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("%w: limit %d", render.ErrSurface, maxDim)
	}

	out, err := render.NewSurface(outW, outH)
	if err != nil {
		return nil, err
	}

	// Premultiply before filtering to avoid halo artifacts at transparent
	// edges; image/draw premultiplies on conversion to RGBA.
	premul := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(premul, premul.Bounds(), src, sb.Min, draw.Src)

	m := dihedralAff(o, float64(w), float64(h)).
		Then(geom.Scale(factor, factor))
	xdraw.CatmullRom.Transform(asRGBA(out), m.Aff3(), premul, premul.Bounds(), xdraw.Src, nil)

	unpremultiply(out)
	return out, nil
}

// asRGBA views an NRGBA surface as the RGBA destination the scaler writes
// premultiplied pixels into. Same Pix layout, alpha handled by unpremultiply.
func asRGBA(img *image.NRGBA) *image.RGBA {
	return &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
}

// unpremultiply converts premultiplied pixel data back to straight alpha in
// place.
func unpremultiply(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := (y - b.Min.Y) * img.Stride
		for x := b.Min.X; x < b.Max.X; x++ {
			i := off + (x-b.Min.X)*4
			a := float64(img.Pix[i+3])
			if a > 1 {
				inv := 255.0 / a
				img.Pix[i] = clamp8(float64(img.Pix[i]) * inv)
				img.Pix[i+1] = clamp8(float64(img.Pix[i+1]) * inv)
				img.Pix[i+2] = clamp8(float64(img.Pix[i+2]) * inv)
			}
		}
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// FitWithin computes output dimensions and the uniform downscale factor so
// that max(w, h) ≤ limit. Images already within the limit pass through at
// factor 1; upscaling never happens.
func FitWithin(w, h, limit int) (int, int, float64) {
	if w <= 0 || h <= 0 || limit <= 0 {
		return 0, 0, 0
	}
	long := w
	if h > long {
		long = h
	}
	if long <= limit {
		return w, h, 1
	}
	f := float64(limit) / float64(long)
	outW := int(math.Round(float64(w) * f))
	outH := int(math.Round(float64(h) * f))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH, f
}
