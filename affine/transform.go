// Package affine implements the 4x4 transform used to move vertex positions
// between a mesh's local frame and the world frame of a reference surface.
package affine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform represents a 4x4 spatial transformation stored in row-major order.
// Positions are treated as column vectors, so A.Mul(B) applies B first.
// The zero value of Transform is the identity transform.
type Transform struct {
	// d holds the matrix with the identity subtracted, that way
	// the zero value is the identity and checking for it is a
	// plain comparison against Transform{}.
	d [16]float64
}

// zeroTransform maps every position to the origin. Inv returns it for singular input.
var zeroTransform = Transform{d: [16]float64{0: -1, 5: -1, 10: -1, 15: -1}}

// Identity returns the identity Transform. Equivalent to Transform{}.
func Identity() Transform { return Transform{} }

// NewTransform returns a Transform populated with 16 values in row-major
// order. If a is nil then NewTransform returns a Transform filled with zeros.
func NewTransform(a []float64) Transform {
	if a == nil {
		return zeroTransform
	}
	if len(a) != 16 {
		panic("Transform is initialized with 16 values")
	}
	var m [16]float64
	copy(m[:], a)
	return fromMatrix(m)
}

// ComposeTransform creates a new transform for a given translation to
// position, scaling vector scale and quaternion rotation.
// The identity Transform is constructed with
//  ComposeTransform(r3.Vec{}, r3.Vec{1,1,1}, r3.Rotation{Real: 1})
func ComposeTransform(position, scale r3.Vec, q r3.Rotation) Transform {
	x2, y2, z2 := 2*q.Imag, 2*q.Jmag, 2*q.Kmag
	xx, yy, zz := q.Imag*x2, q.Jmag*y2, q.Kmag*z2
	xy, xz, yz := q.Imag*y2, q.Imag*z2, q.Jmag*z2
	wx, wy, wz := q.Real*x2, q.Real*y2, q.Real*z2
	return fromMatrix([16]float64{
		(1 - (yy + zz)) * scale.X, (xy - wz) * scale.Y, (xz + wy) * scale.Z, position.X,
		(xy + wz) * scale.X, (1 - (xx + zz)) * scale.Y, (yz - wx) * scale.Z, position.Y,
		(xz - wy) * scale.X, (yz + wx) * scale.Y, (1 - (xx + yy)) * scale.Z, position.Z,
		0, 0, 0, 1,
	})
}

func fromMatrix(m [16]float64) Transform {
	m[0] -= 1
	m[5] -= 1
	m[10] -= 1
	m[15] -= 1
	return Transform{d: m}
}

// matrix returns the full row-major matrix.
func (t Transform) matrix() [16]float64 {
	m := t.d
	m[0] += 1
	m[5] += 1
	m[10] += 1
	m[15] += 1
	return m
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform) IsIdentity() bool { return t == Transform{} }

// Transform applies the Transform to the argument position
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	if t.IsIdentity() {
		return v
	}
	m := t.matrix()
	w := m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]
	return r3.Vec{
		X: (m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]) / w,
		Y: (m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]) / w,
		Z: (m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]) / w,
	}
}

// Translate returns t followed by a translation of v.
func (t Transform) Translate(v r3.Vec) Transform {
	t.d[3] += v.X
	t.d[7] += v.Y
	t.d[11] += v.Z
	return t
}

// Scale returns t followed by a scaling by factor about origin.
func (t Transform) Scale(origin, factor r3.Vec) Transform {
	t = t.Translate(r3.Scale(-1, origin))
	m := t.matrix()
	for col := 0; col < 4; col++ {
		m[col] *= factor.X
		m[4+col] *= factor.Y
		m[8+col] *= factor.Z
	}
	return fromMatrix(m).Translate(origin)
}

// Mul multiplies the Transforms t and b and returns the result.
// The returned Transform applies b first, then t.
func (t Transform) Mul(b Transform) Transform {
	if t.IsIdentity() {
		return b
	}
	if b.IsIdentity() {
		return t
	}
	x, y := t.matrix(), b.matrix()
	var m [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[4*i+j] = x[4*i]*y[j] + x[4*i+1]*y[4+j] + x[4*i+2]*y[8+j] + x[4*i+3]*y[12+j]
		}
	}
	return fromMatrix(m)
}

// minors2 returns the 2x2 determinants of the top two rows (s) and the
// bottom two rows (c) used by both Det and Inv.
func minors2(a [16]float64) (s, c [6]float64) {
	s[0] = a[0]*a[5] - a[4]*a[1]
	s[1] = a[0]*a[6] - a[4]*a[2]
	s[2] = a[0]*a[7] - a[4]*a[3]
	s[3] = a[1]*a[6] - a[5]*a[2]
	s[4] = a[1]*a[7] - a[5]*a[3]
	s[5] = a[2]*a[7] - a[6]*a[3]

	c[0] = a[8]*a[13] - a[12]*a[9]
	c[1] = a[8]*a[14] - a[12]*a[10]
	c[2] = a[8]*a[15] - a[12]*a[11]
	c[3] = a[9]*a[14] - a[13]*a[10]
	c[4] = a[9]*a[15] - a[13]*a[11]
	c[5] = a[10]*a[15] - a[14]*a[11]
	return s, c
}

// Det returns the determinant of the Transform.
func (t Transform) Det() float64 {
	s, c := minors2(t.matrix())
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Inv returns the inverse of the transform such that
// t.Inv().Mul(t) is the identity Transform.
// If the matrix is singular then Inv returns the zero transform.
func (t Transform) Inv() Transform {
	if t.IsIdentity() {
		return t
	}
	a := t.matrix()
	s, c := minors2(a)
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if math.Abs(det) < 1e-16 {
		return zeroTransform
	}
	d := 1 / det
	return fromMatrix([16]float64{
		(a[5]*c[5] - a[6]*c[4] + a[7]*c[3]) * d,
		(-a[1]*c[5] + a[2]*c[4] - a[3]*c[3]) * d,
		(a[13]*s[5] - a[14]*s[4] + a[15]*s[3]) * d,
		(-a[9]*s[5] + a[10]*s[4] - a[11]*s[3]) * d,

		(-a[4]*c[5] + a[6]*c[2] - a[7]*c[1]) * d,
		(a[0]*c[5] - a[2]*c[2] + a[3]*c[1]) * d,
		(-a[12]*s[5] + a[14]*s[2] - a[15]*s[1]) * d,
		(a[8]*s[5] - a[10]*s[2] + a[11]*s[1]) * d,

		(a[4]*c[4] - a[5]*c[2] + a[7]*c[0]) * d,
		(-a[0]*c[4] + a[1]*c[2] - a[3]*c[0]) * d,
		(a[12]*s[4] - a[13]*s[2] + a[15]*s[0]) * d,
		(-a[8]*s[4] + a[9]*s[2] - a[11]*s[0]) * d,

		(-a[4]*c[3] + a[5]*c[1] - a[6]*c[0]) * d,
		(a[0]*c[3] - a[1]*c[1] + a[2]*c[0]) * d,
		(-a[12]*s[3] + a[13]*s[1] - a[14]*s[0]) * d,
		(a[8]*s[3] - a[9]*s[1] + a[10]*s[0]) * d,
	})
}

// EqualWithin tests the equality of the Transforms to within a tolerance.
func (t Transform) EqualWithin(b Transform, tol float64) bool {
	for i := range t.d {
		if math.Abs(t.d[i]-b.d[i]) > tol {
			return false
		}
	}
	return true
}

// SliceCopy returns a copy of the Transform's data
// in row major storage format. It returns 16 elements.
func (t Transform) SliceCopy() []float64 {
	m := t.matrix()
	return m[:]
}
