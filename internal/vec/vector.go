// Package vec provides the value-type vector used by every entity and force.
//
// Vectors are three-dimensional so that cross products are natural, but the
// simulation is planar: callers keep Z at zero.
package vec

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is an immutable (x, y, z) triple. All operations return new values.
type Vector mgl64.Vec3

// Zero is the zero vector.
var Zero = Vector{}

// New builds a vector from its components.
func New(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// XY builds a planar vector.
func XY(x, y float64) Vector {
	return Vector{x, y, 0}
}

func (v Vector) X() float64 { return v[0] }
func (v Vector) Y() float64 { return v[1] }
func (v Vector) Z() float64 { return v[2] }

func (v Vector) mgl() mgl64.Vec3 { return mgl64.Vec3(v) }

func (v Vector) Add(o Vector) Vector {
	return Vector(v.mgl().Add(o.mgl()))
}

func (v Vector) Sub(o Vector) Vector {
	return Vector(v.mgl().Sub(o.mgl()))
}

func (v Vector) Neg() Vector {
	return Vector{-v[0], -v[1], -v[2]}
}

// Scale multiplies every component by s.
func (v Vector) Scale(s float64) Vector {
	return Vector(v.mgl().Mul(s))
}

// Cross returns v × o.
func (v Vector) Cross(o Vector) Vector {
	return Vector(v.mgl().Cross(o.mgl()))
}

// Dot returns v · o.
func (v Vector) Dot(o Vector) float64 {
	return v.mgl().Dot(o.mgl())
}

// Len returns the Euclidean magnitude.
func (v Vector) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v, or the zero vector when v has
// zero length.
func (v Vector) Normalize() Vector {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

// RotateZ rotates the in-plane components by theta radians. Z is kept.
func (v Vector) RotateZ(theta float64) Vector {
	s, c := math.Sincos(theta)
	return Vector{
		c*v[0] - s*v[1],
		c*v[1] + s*v[0],
		v[2],
	}
}

// Perp returns the in-plane perpendicular (-y, x, 0).
func (v Vector) Perp() Vector {
	return Vector{-v[1], v[0], 0}
}

// Equal compares components exactly.
func (v Vector) Equal(o Vector) bool {
	return v[0] == o[0] && v[1] == o[1] && v[2] == o[2]
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}
