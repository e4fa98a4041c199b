package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Aff is a 2D affine transformation:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
//
// Value type for zero heap allocation.
type Aff struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Aff {
	return Aff{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Aff {
	return Aff{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a scaling by (sx, sy).
func Scale(sx, sy float64) Aff {
	return Aff{A: sx, D: sy}
}

// Rotate returns a rotation by the given angle in degrees, clockwise in a
// y-down coordinate system.
func Rotate(degrees float64) Aff {
	rad := Deg2Rad(degrees)
	c, s := math.Cos(rad), math.Sin(rad)
	return Aff{A: c, B: s, C: -s, D: c}
}

// Then combines this transformation with another: the result applies t first,
// then other.
func (t Aff) Then(other Aff) Aff {
	return Aff{
		A: t.A*other.A + t.B*other.C,
		B: t.A*other.B + t.B*other.D,
		C: t.C*other.A + t.D*other.C,
		D: t.C*other.B + t.D*other.D,
		E: t.E*other.A + t.F*other.C + other.E,
		F: t.E*other.B + t.F*other.D + other.F,
	}
}

// Apply transforms the point (x, y).
func (t Aff) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E,
		t.B*x + t.D*y + t.F
}

// Aff3 returns the transformation as an x/image source-to-destination matrix.
func (t Aff) Aff3() f64.Aff3 {
	return f64.Aff3{
		t.A, t.C, t.E,
		t.B, t.D, t.F,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
