package affine

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestZeroValueIsIdentity(t *testing.T) {
	var tf Transform
	if !tf.IsIdentity() {
		t.Fatal("zero value not identity")
	}
	id := NewTransform([]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	if !id.IsIdentity() {
		t.Fatal("explicit identity matrix not recognised")
	}
	v := r3.Vec{X: 1.25, Y: -3, Z: 1e-9}
	if got := tf.Transform(v); got != v {
		t.Errorf("identity moved vector: got %v want %v", got, v)
	}
	if NewTransform(nil).IsIdentity() {
		t.Error("zero matrix reported as identity")
	}
}

func TestTranslateScale(t *testing.T) {
	tf := Identity().Translate(r3.Vec{X: 1, Y: 2, Z: 3})
	got := tf.Transform(r3.Vec{X: 1, Y: 1, Z: 1})
	if got != (r3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("translate: got %v", got)
	}
	sc := Identity().Scale(r3.Vec{}, r3.Vec{X: 2, Y: 3, Z: 4})
	got = sc.Transform(r3.Vec{X: 1, Y: 1, Z: 1})
	if got != (r3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("scale: got %v", got)
	}
	// scaling about a point keeps the point fixed.
	o := r3.Vec{X: 5, Y: 5, Z: 5}
	sc = Identity().Scale(o, r3.Vec{X: 2, Y: 2, Z: 2})
	if got = sc.Transform(o); !equalVec(got, o, 1e-12) {
		t.Errorf("scale about origin moved origin: %v", got)
	}
}

func TestInverse(t *testing.T) {
	rot := r3.Rotation{Real: 0.8, Imag: 0.6} // unit quaternion about X.
	tfs := []Transform{
		Identity().Translate(r3.Vec{X: 6378137}),
		ComposeTransform(r3.Vec{X: 1, Y: -2, Z: 3}, r3.Vec{X: 2, Y: 2, Z: 2}, rot),
		NewTransform([]float64{
			2, 0, 1, 4,
			0, 3, 0, -1,
			1, 0, 1, 2,
			0, 0, 0, 1,
		}),
	}
	probe := r3.Vec{X: 0.3, Y: 12, Z: -7}
	for i, tf := range tfs {
		inv := tf.Inv()
		if !inv.Mul(tf).EqualWithin(Identity(), 1e-9) {
			t.Errorf("case %d: inv*t not identity: %v", i, inv.Mul(tf).SliceCopy())
		}
		if !tf.Mul(inv).EqualWithin(Identity(), 1e-9) {
			t.Errorf("case %d: t*inv not identity", i)
		}
		back := inv.Transform(tf.Transform(probe))
		if !equalVec(back, probe, 1e-6) {
			t.Errorf("case %d: round trip got %v want %v", i, back, probe)
		}
		if !scalar.EqualWithinAbsOrRel(tf.Det()*inv.Det(), 1, 1e-9, 1e-9) {
			t.Errorf("case %d: det(t)*det(inv) = %g", i, tf.Det()*inv.Det())
		}
	}
}

func TestInverseSingular(t *testing.T) {
	singular := NewTransform([]float64{
		1, 2, 3, 0,
		2, 4, 6, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	if inv := singular.Inv(); inv != zeroTransform {
		t.Errorf("expected zero transform for singular matrix, got %v", inv.SliceCopy())
	}
}

func equalVec(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}
