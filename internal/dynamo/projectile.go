package dynamo

import (
	"fmt"
	"math"
)

// ProjectilePhysics advances initial with fixed-step explicit Euler and
// returns ceil(tMax/dt) samples, the first being initial itself.
//
// The update rules are kept exactly as the reference trajectory generator
// defines them: the ground clamp on vy is overwritten by the velocity update
// of the same step, ay accumulates -9.81 every step instead of holding it,
// forces are carried forward and mass has no floor. Simulator in ModeCorrected
// fixes all of these.
func ProjectilePhysics(initial State, dt, tMax float64) ([]State, error) {
	if err := validateStep(dt, tMax); err != nil {
		return nil, err
	}

	n := Capacity(dt, tMax)
	states := make([]State, n)
	if n == 0 {
		return states, nil
	}

	states[0] = initial
	for i := 1; i < n; i++ {
		states[i] = legacyStep(states[i-1], dt)
	}
	return states, nil
}

func legacyStep(prev State, dt float64) State {
	next := prev

	next.T = prev.T + dt

	next.X = prev.X + prev.Vx*dt
	next.Y = prev.Y + prev.Vy*dt

	if next.Y <= 0 {
		next.Y = 0
		next.Vy = 0
	}

	next.Vx = prev.Vx + prev.Ax*dt
	next.Vy = prev.Vy + prev.Ay*dt

	next.Speed = math.Sqrt(next.Vx*next.Vx + next.Vy*next.Vy)

	next.Mass = prev.Mass - prev.FuelMass

	next.Fx = prev.Fx
	next.Fy = prev.Fy

	next.Ax = prev.Ax
	next.Ay = prev.Ay - StandardGravity

	return next
}

func validateStep(dt, tMax float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return invalidParam("dt", dt, "positive and finite")
	}
	if math.IsNaN(tMax) || math.IsInf(tMax, 0) || tMax < 0 {
		return invalidParam("t_max", tMax, "non-negative and finite")
	}
	if n := math.Ceil(tMax / dt); math.IsInf(n, 0) || n > MaxSamples {
		return fmt.Errorf("%w: t_max/dt = %g exceeds %d samples", ErrInvalidParameter, n, MaxSamples)
	}
	return nil
}
