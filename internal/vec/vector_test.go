package vec

import (
	"math"
	"testing"
)

func approx(a, b Vector, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol && math.Abs(a[2]-b[2]) <= tol
}

func TestArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -5, 6)

	tests := []struct {
		name string
		got  Vector
		want Vector
	}{
		{"add", a.Add(b), New(5, -3, 9)},
		{"sub", a.Sub(b), New(-3, 7, -3)},
		{"neg", a.Neg(), New(-1, -2, -3)},
		{"scale", a.Scale(2), New(2, 4, 6)},
		{"cross", XY(1, 0).Cross(XY(0, 1)), New(0, 0, 1)},
		{"perp", XY(3, 4).Perp(), XY(-4, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if d := a.Dot(b); d != 12 {
		t.Errorf("dot: got %v, want 12", d)
	}
}

func TestLenAndNormalize(t *testing.T) {
	v := XY(3, 4)
	if v.Len() != 5 {
		t.Errorf("len: got %v", v.Len())
	}
	n := v.Normalize()
	if !approx(n, XY(0.6, 0.8), 1e-15) {
		t.Errorf("normalize: got %v", n)
	}
	if !Zero.Normalize().Equal(Zero) {
		t.Errorf("normalizing zero should give zero, got %v", Zero.Normalize())
	}
}

func TestRotateZ(t *testing.T) {
	got := XY(1, 0).RotateZ(math.Pi / 2)
	if !approx(got, XY(0, 1), 1e-15) {
		t.Errorf("rotate 90: got %v", got)
	}

	keepZ := New(1, 1, 7).RotateZ(1.3)
	if keepZ.Z() != 7 {
		t.Errorf("rotation must keep z, got %v", keepZ.Z())
	}
	if math.Abs(keepZ.Len()-math.Sqrt(51)) > 1e-12 {
		t.Errorf("rotation must preserve length, got %v", keepZ.Len())
	}
}

func TestIsFinite(t *testing.T) {
	if !XY(1, 2).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if XY(math.NaN(), 0).IsFinite() {
		t.Error("NaN vector reported as finite")
	}
}
