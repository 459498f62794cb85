package physics

import (
	"fmt"

	"github.com/san-kum/projsim/internal/dynamo"
)

// Composite sums the forces and fuel burn of its models. Scalar fields
// (Mach, attitude, coefficients, stage) come from the last model reporting
// a non-zero value.
type Composite struct {
	Models []dynamo.ForceModel
}

func NewComposite(models ...dynamo.ForceModel) *Composite {
	return &Composite{Models: models}
}

func (c *Composite) Evaluate(s dynamo.State, dt float64) dynamo.Forces {
	var out dynamo.Forces
	for _, m := range c.Models {
		f := m.Evaluate(s, dt)

		out.Thrust += f.Thrust
		out.Drag += f.Drag
		out.Lift += f.Lift
		out.Fx += f.Fx
		out.Fy += f.Fy
		out.FuelMass += f.FuelMass

		pick(&out.Mach, f.Mach)
		pick(&out.Alpha, f.Alpha)
		pick(&out.Gamma, f.Gamma)
		pick(&out.Cl, f.Cl)
		pick(&out.Cd, f.Cd)
		pick(&out.Stage, f.Stage)
	}
	return out
}

func pick(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func (c *Composite) GetParams() map[string]float64 {
	params := make(map[string]float64)
	for _, m := range c.Models {
		if cfg, ok := m.(dynamo.Configurable); ok {
			for k, v := range cfg.GetParams() {
				params[k] = v
			}
		}
	}
	return params
}

func (c *Composite) SetParam(name string, value float64) error {
	for _, m := range c.Models {
		cfg, ok := m.(dynamo.Configurable)
		if !ok {
			continue
		}
		if _, known := cfg.GetParams()[name]; known {
			return cfg.SetParam(name, value)
		}
	}
	return fmt.Errorf("unknown param: %s", name)
}
