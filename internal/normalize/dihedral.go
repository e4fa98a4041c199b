package normalize

import (
	"capture-thumb-editor/internal/exif"
	"capture-thumb-editor/internal/geom"
)

// dihedral describes one of the eight rectangle symmetries as fixed affine
// coefficients. The translation components are expressed in units of the
// source width (txW, tyW) and height (txH, tyH) so one table covers every
// image size:
//
//	x' = a*x + c*y + txW*w + txH*h
//	y' = b*x + d*y + tyW*w + tyH*h
type dihedral struct {
	a, b, c, d         float64
	txW, txH, tyW, tyH float64
}

// dihedrals maps each EXIF orientation code to the transform that makes the
// image upright. Index 0 (unspecified) is the identity.
var dihedrals = [9]dihedral{
	exif.Unspecified: {a: 1, d: 1},
	exif.Normal:      {a: 1, d: 1},
	exif.FlipH:       {a: -1, d: 1, txW: 1},
	exif.Rotate180:   {a: -1, d: -1, txW: 1, tyH: 1},
	exif.FlipV:       {a: 1, d: -1, tyH: 1},
	exif.Transpose:   {b: 1, c: 1},
	exif.Rotate90CW:  {b: 1, c: -1, txH: 1},
	exif.Transverse:  {b: -1, c: -1, txH: 1, tyW: 1},
	exif.Rotate270CW: {b: -1, c: 1, tyW: 1},
}

// dihedralAff instantiates the descriptor for an orientation at a concrete
// source size.
func dihedralAff(o exif.Orientation, w, h float64) geom.Aff {
	if o < 0 || int(o) >= len(dihedrals) {
		o = exif.Unspecified
	}
	d := dihedrals[o]
	return geom.Aff{
		A: d.a, B: d.b,
		C: d.c, D: d.d,
		E: d.txW*w + d.txH*h,
		F: d.tyW*w + d.tyH*h,
	}
}
