// Package integrators holds the explicit fixed-step update rules shared by
// the entities and the motor model.
package integrators

import "github.com/san-kum/mechsim/internal/vec"

// Kinematic advances a translational state by one step: velocity by plain
// Euler, position to second order using the velocity from before the step.
//
//	v' = v + a*dt
//	x' = x + v*dt + a*dt*dt/2
func Kinematic(x, v, a vec.Vector, dt float64) (vec.Vector, vec.Vector) {
	nv := v.Add(a.Scale(dt))
	nx := x.Add(v.Scale(dt)).Add(a.Scale(0.5 * dt * dt))
	return nx, nv
}

// KinematicScalar is Kinematic for a single coordinate (bar angle).
func KinematicScalar(x, v, a, dt float64) (float64, float64) {
	return x + v*dt + 0.5*a*dt*dt, v + a*dt
}

// SemiImplicit advances the rate first and then the coordinate with the
// updated rate. The motor model uses it.
func SemiImplicit(x, v, a, dt float64) (float64, float64) {
	nv := v + a*dt
	return x + nv*dt, nv
}
