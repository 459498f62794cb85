package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/dynamo"
)

type Experiment struct {
	cfg       *config.Config
	simulator *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the force model and metrics for the experiment's config.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	model, err := r.GetModel(e.cfg)
	if err != nil {
		return err
	}
	e.simulator = dynamo.New(model)
	for _, m := range r.DefaultMetrics(e.cfg) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg, err := e.cfg.SimConfig()
	if err != nil {
		return nil, err
	}

	return e.simulator.Run(ctx, e.cfg.InitialState(), simCfg)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// Run sets up and runs cfg with the default registry.
func Run(ctx context.Context, cfg *config.Config) (*dynamo.Result, error) {
	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
