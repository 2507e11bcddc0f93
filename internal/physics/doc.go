// Package physics provides the two mechanical entities of the sandbox:
//
//   - [Particle]: a point mass
//   - [Bar]: a planar rigid rod with an orientation and attachment points
//     parameterised on [-1, 1] from one end to the other
//
// Both accumulate loads between steps and clear them as the last action of
// Integrate. Fixed entities never move, whatever loads they receive.
package physics
