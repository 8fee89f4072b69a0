package kernel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Matrix4 is an affine transform for column vectors, held as an sdfx
// row-major 4x4 matrix: the translation lives in the last column and the
// last row is (0 0 0 1).
type Matrix4 sdf.M44

// Identity returns the identity transform.
func Identity() Matrix4 {
	return Matrix4(sdf.Identity3d())
}

// Scale returns a uniform scale transform.
func Scale(s float64) Matrix4 {
	return Matrix4(sdf.Scale3d(v3.Vec{X: s, Y: s, Z: s}))
}

// Translate returns a translation.
func Translate(v v3.Vec) Matrix4 {
	return Matrix4(sdf.Translate3d(v))
}

// FromLDraw builds a transform from the twelve numbers of an LDraw type-1
// style matrix in file order: x y z a b c d e f g h i, where
// p' = (a b c; d e f; g h i)·p + (x y z).
func FromLDraw(v [12]float64) Matrix4 {
	return Matrix4(sdf.NewM44([16]float64{
		v[3], v[4], v[5], v[0],
		v[6], v[7], v[8], v[1],
		v[9], v[10], v[11], v[2],
		0, 0, 0, 1,
	}))
}

// LDraw returns the twelve numbers of m in LDraw file order.
func (m Matrix4) LDraw() [12]float64 {
	x := sdf.M44(m).Values()
	return [12]float64{
		x[3], x[7], x[11],
		x[0], x[1], x[2],
		x[4], x[5], x[6],
		x[8], x[9], x[10],
	}
}

// At returns the entry in row i, column j.
func (m Matrix4) At(i, j int) float64 {
	return m[4*i+j]
}

// Mul returns m·o (o is applied first).
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	return Matrix4(sdf.M44(m).Mul(sdf.M44(o)))
}

// MulPosition transforms a point.
func (m Matrix4) MulPosition(p v3.Vec) v3.Vec {
	return sdf.M44(m).MulPosition(p)
}

// Determinant returns the determinant of m, which equals that of the
// upper-left 3x3 block since the last row is (0 0 0 1). A negative value
// means the transform mirrors and polygon winding must be reversed to keep
// faces pointing outward.
func (m Matrix4) Determinant() float64 {
	return sdf.M44(m).Determinant()
}
