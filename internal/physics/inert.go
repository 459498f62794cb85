package physics

import "github.com/san-kum/projsim/internal/dynamo"

// Inert applies no force model: every force, aero and phase field of a
// sample is reported back unchanged.
type Inert struct{}

func NewInert() *Inert { return &Inert{} }

func (i *Inert) Evaluate(s dynamo.State, dt float64) dynamo.Forces {
	return dynamo.CarriedForces(s)
}
