// Package dynamo defines the contracts shared by the simulation packages.
//
// The core types are:
//
//   - [Entity]: a mechanical body (point mass or rigid bar) that accumulates
//     loads and integrates itself one step at a time
//   - [Generator]: a force law contributing to the accumulators of the
//     entities it accepts
//   - [StepFinisher]: a generator hook run once at the end of every step
//   - [Driver]: an actor stepped before forces are applied (PID controllers)
//   - [Canvas]: the drawing surface handed to the per-entity draw hook
//
// # Example
//
//	u, _ := sim.New(0.001)
//	p, _ := physics.NewParticle(physics.ParticleSpec{Mass: 1, Position: vec.XY(0, 10)})
//	u.AddEntity(p)
//	u.AddGenerators(forces.NewGravity(forces.DefaultGravity), forces.MustBounce(forces.AxisY, 1, 0.001))
//	_ = u.SimulateFor(3)
//
// # Thread Safety
//
// Entities, generators and universes are NOT thread-safe. Independent
// universes may run in parallel; see experiment.Sweep.
package dynamo
