package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	model     ForceModel
	metrics   []Metric
	observers []Observer
}

// New returns a simulator driven by model. A nil model carries every force
// field of the initial state forward unchanged.
func New(model ForceModel) *Simulator {
	if model == nil {
		model = carried{}
	}
	return &Simulator{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Model returns the force model driving the simulator.
func (s *Simulator) Model() ForceModel { return s.model }

func (s *Simulator) Run(ctx context.Context, initial State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Events:  make([]Event, 0),
		Mode:    cfg.Mode,
	}

	var err error
	switch cfg.Mode {
	case ModeLegacy:
		err = s.runLegacy(ctx, initial, cfg, result)
	default:
		err = s.runCorrected(ctx, initial, cfg, result)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, err
}

func (s *Simulator) runLegacy(ctx context.Context, initial State, cfg Config, result *Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrContextCanceled, err)
	}

	states, err := ProjectilePhysics(initial, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}

	for i, st := range states {
		if cfg.ValidateState && !st.IsValid() {
			result.States = states[:i]
			return &SimulationError{Step: i, Time: st.T, State: st, Wrapped: ErrInvalidState}
		}
		if i > 0 {
			// legacy rules never leave the ground once clamped
			if states[i-1].Y > 0 && st.Y == 0 {
				result.Events = append(result.Events, Event{Kind: EventTouchdown, Step: i, Time: st.T, X: st.X})
			}
			result.StepsTaken++
		}
		s.observe(st)
	}

	result.States = states
	return nil
}

func (s *Simulator) runCorrected(ctx context.Context, initial State, cfg Config, result *Result) error {
	n := Capacity(cfg.Dt, cfg.Duration)
	result.States = make([]State, 0, n)
	if n == 0 {
		return nil
	}

	dt, g := cfg.Dt, cfg.Gravity

	prev := initial
	forces := s.model.Evaluate(prev, dt)
	result.States = append(result.States, prev)
	s.observe(prev)

	for i := 1; i < n; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		next := correctedStep(prev, forces, dt, g)
		forces = s.model.Evaluate(next, dt)
		applyForces(&next, forces, g)

		if cfg.ValidateState && !next.IsValid() {
			return &SimulationError{Step: i, Time: next.T, State: next, Wrapped: ErrInvalidState}
		}

		switch {
		case prev.Contact == next.Contact:
		case next.Contact == Airborne:
			result.Events = append(result.Events, Event{Kind: EventLiftoff, Step: i, Time: next.T, X: next.X})
		case prev.Y > 0:
			result.Events = append(result.Events, Event{Kind: EventTouchdown, Step: i, Time: next.T, X: next.X})
		}

		result.States = append(result.States, next)
		result.StepsTaken++
		s.observe(next)
		prev = next
	}

	return nil
}

// correctedStep integrates one step from prev using the forces evaluated at prev.
func correctedStep(prev State, f Forces, dt, g float64) State {
	ax, ay := accelerations(prev.Mass, f, g)
	if prev.Contact == Grounded && ay < 0 {
		ay = 0
	}

	next := prev
	next.T = prev.T + dt

	next.X = prev.X + prev.Vx*dt
	next.Y = prev.Y + prev.Vy*dt

	next.Vx = prev.Vx + ax*dt
	next.Vy = prev.Vy + ay*dt

	next.Contact = Airborne
	if next.Y <= 0 {
		next.Y = 0
		if next.Vy <= 0 {
			next.Vy = 0
			next.Contact = Grounded
		}
	}

	next.Speed = math.Sqrt(next.Vx*next.Vx + next.Vy*next.Vy)
	next.Mass = math.Max(prev.Mass-f.FuelMass, 0)

	return next
}

// applyForces stores the model output evaluated at s and the accelerations
// it produces.
func applyForces(s *State, f Forces, g float64) {
	s.Thrust, s.Drag, s.Lift = f.Thrust, f.Drag, f.Lift
	s.Fx, s.Fy = f.Fx, f.Fy
	s.Mach = f.Mach
	s.Alpha, s.Gamma = f.Alpha, f.Gamma
	s.Cl, s.Cd = f.Cl, f.Cd
	s.Stage = f.Stage
	s.FuelMass = f.FuelMass

	s.Ax, s.Ay = accelerations(s.Mass, f, g)
	if s.Contact == Grounded && s.Ay < 0 {
		s.Ay = 0
	}
}

func accelerations(mass float64, f Forces, g float64) (float64, float64) {
	if mass <= 0 {
		return 0, -g
	}
	return f.Fx / mass, f.Fy/mass - g
}

func (s *Simulator) observe(st State) {
	for _, m := range s.metrics {
		m.Observe(st)
	}
	for _, obs := range s.observers {
		obs.OnStep(st)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if err := validateStep(cfg.Dt, cfg.Duration); err != nil {
		return err
	}
	if math.IsNaN(cfg.Gravity) || math.IsInf(cfg.Gravity, 0) {
		return invalidParam("gravity", cfg.Gravity, "finite")
	}
	if cfg.Mode != ModeCorrected && cfg.Mode != ModeLegacy {
		return fmt.Errorf("%w: %v", ErrUnknownMode, cfg.Mode)
	}
	return nil
}

// CarriedForces reports the force fields already stored on s, with no model
// applied.
func CarriedForces(s State) Forces {
	return Forces{
		Thrust:   s.Thrust,
		Drag:     s.Drag,
		Lift:     s.Lift,
		Fx:       s.Fx,
		Fy:       s.Fy,
		Mach:     s.Mach,
		Alpha:    s.Alpha,
		Gamma:    s.Gamma,
		Cl:       s.Cl,
		Cd:       s.Cd,
		Stage:    s.Stage,
		FuelMass: s.FuelMass,
	}
}

type carried struct{}

func (carried) Evaluate(s State, _ float64) Forces { return CarriedForces(s) }
