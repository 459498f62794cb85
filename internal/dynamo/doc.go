// Package dynamo provides the point-mass trajectory integrators.
//
// A trajectory is a slice of [State] samples spaced by a fixed timestep:
//
//   - [ProjectilePhysics]: the reference fixed-step explicit Euler
//     integrator, reproducing its update rules exactly
//   - [Simulator]: the same scheme with accelerations derived from a
//     [ForceModel] and an explicit [Contact] variant for ground contact
//
// # Example
//
//	sim := dynamo.New(physics.NewDrag())
//	cfg := dynamo.DefaultConfig()
//	result, err := sim.Run(ctx, x0, cfg)
//
// Setting cfg.Mode to [ModeLegacy] makes Run delegate to [ProjectilePhysics].
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe: metrics are reset and fed on
// every Run. Build one simulator per goroutine.
package dynamo
