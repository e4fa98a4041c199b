// Package render draws the transformed source bitmap into a target surface.
//
// There is exactly one draw path, parameterized only by the target size: the
// live preview and the final export call the same function, so what the user
// sees while editing is what gets persisted.
package render

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"capture-thumb-editor/internal/geom"
	"capture-thumb-editor/internal/transform"
)

// ErrSurface marks a rendering-surface acquisition failure. Fatal for the
// render or save call that hit it; the caller decides retry vs abandon.
var ErrSurface = errors.New("render: cannot acquire surface")

// MaxSurfaceDim bounds surface allocation so a bad export size cannot exhaust
// memory.
const MaxSurfaceDim = 8192

// NewSurface allocates a drawing surface. The surface is an explicitly owned
// resource: acquired per call or per session and passed into Draw, never a
// package-level singleton.
func NewSurface(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSurfaceDim || h > MaxSurfaceDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurface, w, h)
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}

// Matrix builds the source-to-target affine for a transform state and a
// square target of the given size:
//
//  1. translate to the target center,
//  2. rotate,
//  3. translate by the offset scaled by targetSize/cropSize,
//  4. scale by scale (in the same targetSize/cropSize frame),
//  5. source drawn centered at the origin.
func Matrix(st *transform.State, targetSize float64) geom.Aff {
	crop := st.Crop()
	ratio := 1.0
	if crop.CropSize > 0 {
		ratio = targetSize / crop.CropSize
	}
	w, h := st.ImageSize()

	return geom.Translate(-w/2, -h/2).
		Then(geom.Scale(st.Scale*ratio, st.Scale*ratio)).
		Then(geom.Translate(st.OffsetX*ratio, st.OffsetY*ratio)).
		Then(geom.Rotate(st.Rotation)).
		Then(geom.Translate(targetSize/2, targetSize/2))
}

// Draw renders the source bitmap through the transform state into dst. The
// target is treated as the crop square at dst's resolution; dst must be
// square. Called on every state mutation for the preview and once at export
// resolution on save.
func Draw(dst *image.NRGBA, src *image.NRGBA, st *transform.State) error {
	if dst == nil {
		return fmt.Errorf("%w: nil surface", ErrSurface)
	}
	b := dst.Bounds()
	if b.Dx() != b.Dy() {
		return fmt.Errorf("%w: target %dx%d is not square", ErrSurface, b.Dx(), b.Dy())
	}
	if src == nil {
		return fmt.Errorf("render: nil source bitmap")
	}

	clear(dst.Pix)

	sb := src.Bounds()
	m := geom.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)).
		Then(Matrix(st, float64(b.Dx()))).
		Then(geom.Translate(float64(b.Min.X), float64(b.Min.Y)))

	draw.CatmullRom.Transform(dst, m.Aff3(), src, sb, draw.Over, nil)
	return nil
}
