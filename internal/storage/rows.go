package storage

import "github.com/san-kum/projsim/internal/dynamo"

// StateRow is the on-disk form of one sample in states.csv and JSON exports.
type StateRow struct {
	T        float64 `csv:"t" json:"t"`
	X        float64 `csv:"x" json:"x"`
	Y        float64 `csv:"y" json:"y"`
	Vx       float64 `csv:"vx" json:"vx"`
	Vy       float64 `csv:"vy" json:"vy"`
	Speed    float64 `csv:"speed" json:"speed"`
	Mach     float64 `csv:"mach" json:"mach"`
	Mass     float64 `csv:"mass" json:"mass"`
	FuelMass float64 `csv:"fuel_mass" json:"fuel_mass"`
	Thrust   float64 `csv:"thrust" json:"thrust"`
	Drag     float64 `csv:"drag" json:"drag"`
	Lift     float64 `csv:"lift" json:"lift"`
	Fx       float64 `csv:"fx" json:"fx"`
	Fy       float64 `csv:"fy" json:"fy"`
	Ax       float64 `csv:"ax" json:"ax"`
	Ay       float64 `csv:"ay" json:"ay"`
	Alpha    float64 `csv:"alpha" json:"alpha"`
	Gamma    float64 `csv:"gamma" json:"gamma"`
	Cl       float64 `csv:"cl" json:"cl"`
	Cd       float64 `csv:"cd" json:"cd"`
	Stage    float64 `csv:"stage" json:"stage"`
	Contact  string  `csv:"contact" json:"contact"`
}

func ToRows(states []dynamo.State) []StateRow {
	rows := make([]StateRow, len(states))
	for i, s := range states {
		rows[i] = StateRow{
			T: s.T, X: s.X, Y: s.Y, Vx: s.Vx, Vy: s.Vy,
			Speed: s.Speed, Mach: s.Mach,
			Mass: s.Mass, FuelMass: s.FuelMass,
			Thrust: s.Thrust, Drag: s.Drag, Lift: s.Lift,
			Fx: s.Fx, Fy: s.Fy, Ax: s.Ax, Ay: s.Ay,
			Alpha: s.Alpha, Gamma: s.Gamma, Cl: s.Cl, Cd: s.Cd,
			Stage:   s.Stage,
			Contact: s.Contact.String(),
		}
	}
	return rows
}

func FromRows(rows []StateRow) []dynamo.State {
	states := make([]dynamo.State, len(rows))
	for i, r := range rows {
		states[i] = dynamo.State{
			T: r.T, X: r.X, Y: r.Y, Vx: r.Vx, Vy: r.Vy,
			Speed: r.Speed, Mach: r.Mach,
			Mass: r.Mass, FuelMass: r.FuelMass,
			Thrust: r.Thrust, Drag: r.Drag, Lift: r.Lift,
			Fx: r.Fx, Fy: r.Fy, Ax: r.Ax, Ay: r.Ay,
			Alpha: r.Alpha, Gamma: r.Gamma, Cl: r.Cl, Cd: r.Cd,
			Stage: r.Stage,
		}
		if r.Contact == dynamo.Grounded.String() {
			states[i].Contact = dynamo.Grounded
		}
	}
	return states
}
