package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/metrics"
	"github.com/san-kum/projsim/internal/physics"
)

type Registry struct {
	models map[string]func(*config.Config) dynamo.ForceModel
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func(*config.Config) dynamo.ForceModel),
	}

	r.models["inert"] = func(*config.Config) dynamo.ForceModel { return physics.NewInert() }
	r.models["drag"] = func(c *config.Config) dynamo.ForceModel { return newDrag(c) }
	r.models["thrust"] = func(c *config.Config) dynamo.ForceModel { return newThrust(c) }
	r.models["rocket"] = func(c *config.Config) dynamo.ForceModel {
		return physics.NewComposite(newDrag(c), newThrust(c))
	}

	return r
}

func newDrag(c *config.Config) *physics.Drag {
	d := physics.NewDrag()
	d.Cd = c.Drag.Cd
	d.Cl = c.Drag.Cl
	d.Area = c.Drag.Area
	d.MachCurve = c.Drag.MachCurve
	return d
}

func newThrust(c *config.Config) *physics.StagedThrust {
	stages := make([]physics.Stage, len(c.Thrust.Stages))
	for i, s := range c.Thrust.Stages {
		stages[i] = physics.Stage{
			Thrust:   s.Thrust,
			BurnTime: s.BurnTime,
			BurnRate: s.BurnRate,
			Jettison: s.Jettison,
		}
	}
	return physics.NewStagedThrust(c.Thrust.LaunchAngle*math.Pi/180, stages...)
}

// GetModel builds the force model named by cfg.Model.
func (r *Registry) GetModel(cfg *config.Config) (dynamo.ForceModel, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	return metrics.Default(cfg.Gravity)
}
