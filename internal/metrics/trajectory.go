package metrics

import (
	"math"

	"github.com/san-kum/projsim/internal/dynamo"
)

// Apex tracks the highest altitude reached.
type Apex struct {
	name    string
	max     float64
	samples int
}

func NewApex() *Apex { return &Apex{name: "apex"} }

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(s dynamo.State) {
	if a.samples == 0 || s.Y > a.max {
		a.max = s.Y
	}
	a.samples++
}

func (a *Apex) Value() float64 { return a.max }

func (a *Apex) Reset() {
	a.max = 0
	a.samples = 0
}

// MaxSpeed tracks the highest speed, computed from the velocity components.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{name: "max_speed"} }

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s dynamo.State) {
	m.max = math.Max(m.max, math.Hypot(s.Vx, s.Vy))
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

type MaxMach struct {
	name string
	max  float64
}

func NewMaxMach() *MaxMach { return &MaxMach{name: "max_mach"} }

func (m *MaxMach) Name() string           { return m.name }
func (m *MaxMach) Observe(s dynamo.State) { m.max = math.Max(m.max, s.Mach) }
func (m *MaxMach) Value() float64         { return m.max }
func (m *MaxMach) Reset()                 { m.max = 0 }

// landing watches for the first return to the ground after the body has
// been above it.
type landing struct {
	flown   bool
	landed  bool
	samples int
	first   dynamo.State
	at      dynamo.State
	last    dynamo.State
}

func (l *landing) observe(s dynamo.State) {
	if l.samples == 0 {
		l.first = s
	}
	l.samples++
	l.last = s
	if l.landed {
		return
	}
	if s.Y > 0 {
		l.flown = true
		return
	}
	if l.flown {
		l.landed = true
		l.at = s
	}
}

func (l *landing) reset() { *l = landing{} }

// Range is the horizontal displacement from the first sample to the first
// landing, or to the last sample if the body never lands.
type Range struct {
	name string
	l    landing
}

func NewRange() *Range { return &Range{name: "range"} }

func (r *Range) Name() string           { return r.name }
func (r *Range) Observe(s dynamo.State) { r.l.observe(s) }
func (r *Range) Reset()                 { r.l.reset() }

func (r *Range) Value() float64 {
	end := r.l.last
	if r.l.landed {
		end = r.l.at
	}
	return end.X - r.l.first.X
}

// FlightTime is the time from the first sample to the first landing, or to
// the last sample if the body never lands.
type FlightTime struct {
	name string
	l    landing
}

func NewFlightTime() *FlightTime { return &FlightTime{name: "flight_time"} }

func (f *FlightTime) Name() string           { return f.name }
func (f *FlightTime) Observe(s dynamo.State) { f.l.observe(s) }
func (f *FlightTime) Reset()                 { f.l.reset() }

func (f *FlightTime) Value() float64 {
	end := f.l.last
	if f.l.landed {
		end = f.l.at
	}
	return end.T - f.l.first.T
}

// FuelUsed is the mass lost between the first and last sample.
type FuelUsed struct {
	name         string
	initial, now float64
	samples      int
}

func NewFuelUsed() *FuelUsed { return &FuelUsed{name: "fuel_used"} }

func (f *FuelUsed) Name() string { return f.name }

func (f *FuelUsed) Observe(s dynamo.State) {
	if f.samples == 0 {
		f.initial = s.Mass
	}
	f.now = s.Mass
	f.samples++
}

func (f *FuelUsed) Value() float64 { return f.initial - f.now }

func (f *FuelUsed) Reset() {
	f.initial, f.now = 0, 0
	f.samples = 0
}

// Default is the metric set attached to every run.
func Default(gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewApex(),
		NewRange(),
		NewFlightTime(),
		NewMaxSpeed(),
		NewMaxMach(),
		NewFuelUsed(),
		NewEnergyDrift(gravity),
	}
}
