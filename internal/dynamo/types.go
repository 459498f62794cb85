package dynamo

import (
	"fmt"
	"math"
)

// StandardGravity is the gravitational acceleration magnitude in m/s^2.
const StandardGravity = 9.81

// Contact is the ground-contact variant of a sample.
type Contact uint8

const (
	Airborne Contact = iota
	Grounded
)

func (c Contact) String() string {
	switch c {
	case Airborne:
		return "airborne"
	case Grounded:
		return "grounded"
	default:
		return fmt.Sprintf("contact(%d)", uint8(c))
	}
}

// State is a point-mass sample at one instant.
type State struct {
	T float64

	X, Y   float64
	Vx, Vy float64
	Speed  float64
	Mach   float64

	Mass     float64
	FuelMass float64

	Thrust, Drag, Lift float64
	Fx, Fy             float64
	Ax, Ay             float64

	Alpha, Gamma float64
	Cl, Cd       float64

	Stage float64

	Contact Contact
}

// NewState returns a State with every numeric field set to zero.
func NewState() State {
	return State{}
}

var fieldNames = []string{
	"t", "x", "y", "vx", "vy", "speed", "mach",
	"mass", "fuel_mass",
	"thrust", "drag", "lift", "fx", "fy", "ax", "ay",
	"alpha", "gamma", "cl", "cd", "stage",
}

// FieldNames lists the numeric fields in the order returned by Values.
func FieldNames() []string {
	out := make([]string, len(fieldNames))
	copy(out, fieldNames)
	return out
}

// Values flattens the numeric fields of s.
func (s State) Values() []float64 {
	return []float64{
		s.T, s.X, s.Y, s.Vx, s.Vy, s.Speed, s.Mach,
		s.Mass, s.FuelMass,
		s.Thrust, s.Drag, s.Lift, s.Fx, s.Fy, s.Ax, s.Ay,
		s.Alpha, s.Gamma, s.Cl, s.Cd, s.Stage,
	}
}

// Field returns the named numeric field.
func (s State) Field(name string) (float64, bool) {
	for i, n := range fieldNames {
		if n == name {
			return s.Values()[i], true
		}
	}
	return 0, false
}

func (s State) IsValid() bool {
	for _, v := range s.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Energy is the specific mechanical energy (J/kg) under gravity g.
func (s State) Energy(g float64) float64 {
	return 0.5*(s.Vx*s.Vx+s.Vy*s.Vy) + g*s.Y
}

// Forces is what a ForceModel reports for one sample.
type Forces struct {
	Thrust, Drag, Lift float64
	Fx, Fy             float64
	Mach               float64
	Alpha, Gamma       float64
	Cl, Cd             float64
	Stage              float64
	// FuelMass is the mass burned over the next step.
	FuelMass float64
}

// ForceModel supplies forces acting on a sample.
type ForceModel interface {
	Evaluate(s State, dt float64) Forces
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(s State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s State)
}

// Mode selects the stepping rules.
type Mode int

const (
	// ModeCorrected derives accelerations from forces and keeps grounded
	// bodies at rest.
	ModeCorrected Mode = iota
	// ModeLegacy reproduces ProjectilePhysics exactly.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModeCorrected:
		return "corrected"
	case ModeLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "corrected":
		return ModeCorrected, nil
	case "legacy":
		return ModeLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

type Config struct {
	Dt            float64
	Duration      float64
	Gravity       float64
	Mode          Mode
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Gravity:       StandardGravity,
		Mode:          ModeCorrected,
		ValidateState: true,
	}
}

type EventKind int

const (
	EventTouchdown EventKind = iota
	EventLiftoff
)

func (k EventKind) String() string {
	if k == EventLiftoff {
		return "liftoff"
	}
	return "touchdown"
}

// Event marks a Contact transition between two samples. A body that settles
// onto the ground without having been above it records no touchdown.
type Event struct {
	Kind EventKind
	Step int
	Time float64
	X    float64
}

type Result struct {
	States     []State
	Events     []Event
	Metrics    map[string]float64
	StepsTaken int
	Mode       Mode
}

// Times returns the time column of the result.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s.T
	}
	return out
}

// MaxSamples caps the length of a single trajectory.
const MaxSamples = 10_000_000

// Capacity is the number of samples produced for a horizon tMax at step dt.
// Callers validate the pair first; Capacity assumes tMax/dt <= MaxSamples.
func Capacity(dt, tMax float64) int {
	return int(math.Ceil(tMax / dt))
}
