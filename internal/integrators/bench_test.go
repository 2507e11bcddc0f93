package integrators

import (
	"testing"

	"github.com/san-kum/mechsim/internal/vec"
)

func BenchmarkKinematic(b *testing.B) {
	x, v := vec.XY(1, 0), vec.Zero
	for i := 0; i < b.N; i++ {
		x, v = Kinematic(x, v, x.Neg(), 0.001)
	}
}

func BenchmarkSemiImplicit(b *testing.B) {
	x, v := 1.0, 0.0
	for i := 0; i < b.N; i++ {
		x, v = SemiImplicit(x, v, -x, 0.001)
	}
}
