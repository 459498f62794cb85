package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type constantForce struct {
	fx, fy, burn float64
}

func (c constantForce) Evaluate(s State, dt float64) Forces {
	return Forces{Fx: c.fx, Fy: c.fy, FuelMass: c.burn}
}

type nanForce struct{}

func (nanForce) Evaluate(s State, dt float64) Forces {
	return Forces{Fx: math.NaN()}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string    { return "count" }
func (c *countMetric) Observe(s State) { c.count++ }
func (c *countMetric) Value() float64  { return float64(c.count) }
func (c *countMetric) Reset()          { c.count = 0 }

func corrected(dt, duration float64) Config {
	cfg := DefaultConfig()
	cfg.Dt = dt
	cfg.Duration = duration
	return cfg
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(nil)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0, Gravity: 9.81}, ErrInvalidParameter},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0, Gravity: 9.81}, ErrInvalidParameter},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0, Gravity: 9.81}, ErrInvalidParameter},
		{"dt too small for int", Config{Dt: 1e-300, Duration: 1.0, Gravity: 9.81}, ErrInvalidParameter},
		{"too many samples", Config{Dt: 1e-4, Duration: 1e4, Gravity: 9.81, Mode: ModeLegacy}, ErrInvalidParameter},
		{"nan gravity", Config{Dt: 0.1, Duration: 1.0, Gravity: math.NaN()}, ErrInvalidParameter},
		{"unknown mode", Config{Dt: 0.1, Duration: 1.0, Gravity: 9.81, Mode: Mode(7)}, ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), NewState(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimulatorLegacyMatchesProjectilePhysics(t *testing.T) {
	initial := NewState()
	initial.Vx, initial.Vy = 500, 500
	initial.Mass = 10
	initial.FuelMass = 0.01

	want, err := ProjectilePhysics(initial, 0.01, 100)
	if err != nil {
		t.Fatal(err)
	}

	cfg := corrected(0.01, 100)
	cfg.Mode = ModeLegacy
	result, err := New(nil).Run(context.Background(), initial, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.States) != len(want) {
		t.Fatalf("len = %d, want %d", len(result.States), len(want))
	}
	for i := range want {
		if result.States[i] != want[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, result.States[i], want[i])
		}
	}
	if result.StepsTaken != len(want)-1 {
		t.Errorf("steps = %d, want %d", result.StepsTaken, len(want)-1)
	}
	if len(result.Events) == 0 || result.Events[0].Kind != EventTouchdown {
		t.Errorf("expected a touchdown event, got %+v", result.Events)
	}
}

func TestSimulatorCorrectedGroundClamp(t *testing.T) {
	initial := NewState()
	initial.Y = 0.5
	initial.Vy = -100
	initial.Mass = 1

	result, err := New(nil).Run(context.Background(), initial, corrected(1, 4))
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(result.States); i++ {
		s := result.States[i]
		if s.Y != 0 || s.Vy != 0 {
			t.Errorf("sample %d: y=%v vy=%v, want resting on ground", i, s.Y, s.Vy)
		}
		if s.Contact != Grounded {
			t.Errorf("sample %d: contact = %v, want grounded", i, s.Contact)
		}
		if s.Ay != 0 {
			t.Errorf("sample %d: ay = %v, want 0 while supported", i, s.Ay)
		}
	}

	if len(result.Events) != 1 {
		t.Fatalf("events = %+v, want one touchdown", result.Events)
	}
	if ev := result.Events[0]; ev.Kind != EventTouchdown || ev.Step != 1 || ev.Time != 1 {
		t.Errorf("event = %+v", ev)
	}
}

func TestSimulatorCorrectedSettleIsNotTouchdown(t *testing.T) {
	initial := NewState()
	initial.Mass = 1

	result, err := New(nil).Run(context.Background(), initial, corrected(0.1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if s := result.States[1]; s.Contact != Grounded || s.Y != 0 {
		t.Errorf("sample 1 = %+v, want grounded", s)
	}
	if len(result.Events) != 0 {
		t.Errorf("events = %+v, want none for a body that never flew", result.Events)
	}
}

func TestSimulatorCorrectedGravityIsConstant(t *testing.T) {
	initial := NewState()
	initial.Y = 1e6
	initial.Mass = 2

	result, err := New(nil).Run(context.Background(), initial, corrected(0.1, 10))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(result.States); i++ {
		if got := result.States[i].Ay; got != -StandardGravity {
			t.Fatalf("ay[%d] = %v, want %v", i, got, -StandardGravity)
		}
	}
	last := result.States[len(result.States)-1]
	steps := float64(len(result.States) - 1)
	if want := -StandardGravity * steps * 0.1; math.Abs(last.Vy-want) > 1e-9 {
		t.Errorf("vy = %v, want %v", last.Vy, want)
	}
}

func TestSimulatorCorrectedParabola(t *testing.T) {
	initial := NewState()
	initial.Vx, initial.Vy = 50, 50
	initial.Mass = 1

	result, err := New(nil).Run(context.Background(), initial, corrected(0.001, 20))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Events) == 0 {
		t.Fatal("expected touchdown")
	}

	ev := result.Events[0]
	wantRange := 2 * 50 * 50 / StandardGravity
	if math.Abs(ev.X-wantRange)/wantRange > 0.01 {
		t.Errorf("range = %v, want ~%v", ev.X, wantRange)
	}

	apex := 0.0
	for _, s := range result.States {
		apex = math.Max(apex, s.Y)
	}
	wantApex := 50 * 50 / (2 * StandardGravity)
	if math.Abs(apex-wantApex)/wantApex > 0.01 {
		t.Errorf("apex = %v, want ~%v", apex, wantApex)
	}
}

func TestSimulatorCorrectedMassFloor(t *testing.T) {
	initial := NewState()
	initial.Y = 100
	initial.Mass = 1
	initial.FuelMass = 0.6

	result, err := New(nil).Run(context.Background(), initial, corrected(0.1, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if got := result.States[1].Mass; math.Abs(got-0.4) > 1e-12 {
		t.Errorf("mass[1] = %v, want 0.4", got)
	}
	for i := 2; i < len(result.States); i++ {
		if got := result.States[i].Mass; got != 0 {
			t.Errorf("mass[%d] = %v, want floored at 0", i, got)
		}
	}
}

func TestSimulatorCorrectedLiftoff(t *testing.T) {
	initial := NewState()
	initial.Mass = 1
	initial.Contact = Grounded

	sim := New(constantForce{fy: 20})
	result, err := sim.Run(context.Background(), initial, corrected(0.1, 1))
	if err != nil {
		t.Fatal(err)
	}

	s1 := result.States[1]
	if s1.Contact != Airborne || s1.Vy <= 0 {
		t.Fatalf("sample 1 = %+v, want lifting off", s1)
	}
	if s2 := result.States[2]; s2.Y <= 0 {
		t.Errorf("y[2] = %v, want above ground", s2.Y)
	}
	if len(result.Events) != 1 || result.Events[0].Kind != EventLiftoff {
		t.Errorf("events = %+v, want one liftoff", result.Events)
	}
	if want := 20 - StandardGravity; math.Abs(s1.Ay-want) > 1e-12 {
		t.Errorf("ay = %v, want %v", s1.Ay, want)
	}
}

func TestSimulatorCorrectedWeakThrustStaysGrounded(t *testing.T) {
	initial := NewState()
	initial.Mass = 1
	initial.Contact = Grounded

	result, err := New(constantForce{fy: 5}).Run(context.Background(), initial, corrected(0.1, 1))
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range result.States {
		if s.Y != 0 || s.Vy != 0 || s.Contact != Grounded {
			t.Errorf("sample %d = %+v, want resting", i, s)
		}
	}
}

func TestSimulatorCorrectedKeepsInitialSample(t *testing.T) {
	initial := NewState()
	initial.Y = 10
	initial.Mass = 3
	initial.Ay = 123

	result, err := New(constantForce{fx: 3}).Run(context.Background(), initial, corrected(0.1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if result.States[0] != initial {
		t.Errorf("states[0] = %+v, want %+v", result.States[0], initial)
	}
	if got := result.States[1].Ax; got != 1 {
		t.Errorf("ax[1] = %v, want 1", got)
	}
	if got := result.States[1].Vx; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("vx[1] = %v, want 0.1", got)
	}
}

func TestSimulatorEmptyHorizon(t *testing.T) {
	for _, mode := range []Mode{ModeCorrected, ModeLegacy} {
		cfg := corrected(0.1, 0)
		cfg.Mode = mode
		result, err := New(nil).Run(context.Background(), NewState(), cfg)
		if err != nil {
			t.Fatalf("%v: %v", mode, err)
		}
		if len(result.States) != 0 {
			t.Errorf("%v: len = %d, want 0", mode, len(result.States))
		}
	}
}

func TestSimulatorValidateState(t *testing.T) {
	initial := NewState()
	initial.Y = 10
	initial.Mass = 1

	result, err := New(nanForce{}).Run(context.Background(), initial, corrected(0.1, 1))
	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("err = %v, want *SimulationError", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
	if simErr.Step != 1 {
		t.Errorf("step = %d, want 1", simErr.Step)
	}
	if len(result.States) != 1 {
		t.Errorf("kept %d samples, want 1", len(result.States))
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, mode := range []Mode{ModeCorrected, ModeLegacy} {
		cfg := corrected(0.1, 10)
		cfg.Mode = mode
		_, err := New(nil).Run(ctx, NewState(), cfg)
		if !errors.Is(err, ErrContextCanceled) || !errors.Is(err, context.Canceled) {
			t.Errorf("%v: err = %v, want canceled", mode, err)
		}
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(nil)
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), NewState(), corrected(0.1, 1.0))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := result.Metrics["count"]; got != 10 {
		t.Errorf("count = %v, want 10", got)
	}

	// metrics reset between runs
	result, err = sim.Run(context.Background(), NewState(), corrected(0.5, 1.0))
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Metrics["count"]; got != 2 {
		t.Errorf("count = %v, want 2", got)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("legacy"); err != nil || m != ModeLegacy {
		t.Errorf("legacy: %v %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeCorrected {
		t.Errorf("empty: %v %v", m, err)
	}
	if _, err := ParseMode("verlet"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestStateField(t *testing.T) {
	s := State{Vy: 3, Stage: 2}
	if v, ok := s.Field("vy"); !ok || v != 3 {
		t.Errorf("vy = %v %v", v, ok)
	}
	if v, ok := s.Field("stage"); !ok || v != 2 {
		t.Errorf("stage = %v %v", v, ok)
	}
	if _, ok := s.Field("pitch"); ok {
		t.Error("unknown field reported present")
	}
	if len(FieldNames()) != len(s.Values()) {
		t.Error("field names and values disagree")
	}
}

func BenchmarkSimulatorCorrected(b *testing.B) {
	initial := NewState()
	initial.Vx, initial.Vy = 500, 500
	initial.Mass = 1
	sim := New(nil)
	cfg := corrected(0.01, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.Run(context.Background(), initial, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
