package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/projsim/internal/dynamo"
)

// Stage is one burn of a staged vehicle.
type Stage struct {
	Thrust   float64 // N
	BurnTime float64 // s
	BurnRate float64 // kg/s
	// Jettison is dry mass dropped when the burn ends.
	Jettison float64 // kg
}

// StagedThrust fires its stages back to back from t=0. Thrust acts along the
// velocity, or along LaunchAngle while the body is at rest.
type StagedThrust struct {
	Stages      []Stage
	LaunchAngle float64 // rad
}

func NewStagedThrust(launchAngle float64, stages ...Stage) *StagedThrust {
	return &StagedThrust{Stages: stages, LaunchAngle: launchAngle}
}

// Active returns the index of the stage burning at t and the time its burn
// ends. After burnout the index is len(Stages).
func (st *StagedThrust) Active(t float64) (int, float64) {
	end := 0.0
	for i, stg := range st.Stages {
		end += stg.BurnTime
		if t < end {
			return i, end
		}
	}
	return len(st.Stages), end
}

func (st *StagedThrust) Evaluate(s dynamo.State, dt float64) dynamo.Forces {
	idx, end := st.Active(s.T)

	gamma := st.LaunchAngle
	if s.Vx != 0 || s.Vy != 0 {
		gamma = math.Atan2(s.Vy, s.Vx)
	}

	f := dynamo.Forces{Stage: float64(idx), Gamma: gamma}
	if idx == len(st.Stages) {
		return f
	}

	stg := st.Stages[idx]
	f.Thrust = stg.Thrust
	f.Fx = stg.Thrust * math.Cos(gamma)
	f.Fy = stg.Thrust * math.Sin(gamma)
	f.FuelMass = stg.BurnRate * math.Min(dt, end-s.T)
	if s.T+dt >= end {
		f.FuelMass += stg.Jettison
	}
	return f
}

// TotalBurnTime is the time at which the last stage burns out.
func (st *StagedThrust) TotalBurnTime() float64 {
	_, end := st.Active(math.Inf(1))
	return end
}

func (st *StagedThrust) GetParams() map[string]float64 {
	params := map[string]float64{"launch_angle": st.LaunchAngle}
	for i, stg := range st.Stages {
		params[fmt.Sprintf("stage%d_thrust", i)] = stg.Thrust
	}
	return params
}

func (st *StagedThrust) SetParam(name string, value float64) error {
	if name == "launch_angle" {
		st.LaunchAngle = value
		return nil
	}
	var idx int
	if _, err := fmt.Sscanf(name, "stage%d_thrust", &idx); err == nil && idx >= 0 && idx < len(st.Stages) {
		st.Stages[idx].Thrust = value
		return nil
	}
	return fmt.Errorf("unknown param: %s", name)
}
