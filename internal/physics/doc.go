// Package physics provides force models for the trajectory simulator.
//
// Each model implements [dynamo.ForceModel], reporting the forces acting on
// a sample and the fuel burned over the next step:
//
//   - [Inert]: carries the sample's own force fields forward
//   - [Drag]: quadratic drag and lift in a [StandardAtmosphere]
//   - [StagedThrust]: back-to-back rocket stages with fuel burn and jettison
//   - [Composite]: sum of several models
//
// Drag and StagedThrust also implement [dynamo.Configurable] for runtime
// parameter adjustment.
//
// # Example
//
//	rocket := physics.NewComposite(
//	    physics.NewDrag(),
//	    physics.NewStagedThrust(math.Pi/3, physics.Stage{Thrust: 900, BurnTime: 4, BurnRate: 2}),
//	)
//	sim := dynamo.New(rocket)
package physics
