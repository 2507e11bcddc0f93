// Package forces provides the force generators that act on particles and
// bars.
//
// A generator declares the entity kinds it accepts and, for pairwise laws,
// the specific entities it binds. Apply is a no-op for anything else, so the
// universe can offer every entity to every generator. Pairwise generators
// compute the same force from the pre-step state whichever side they are
// applied to, and push equal and opposite contributions.
//
// Degenerate geometry (zero separation, zero radius) is skipped for that
// step rather than reported as an error. Malformed parameters are rejected
// at construction.
package forces
