package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/projsim/internal/dynamo"
)

const (
	DefaultDragCoeff = 0.47 // sphere
	DefaultArea      = 0.01 // m^2
)

// Drag is quadratic aerodynamic drag opposing the velocity plus lift
// perpendicular to it.
type Drag struct {
	Cd, Cl float64
	Area   float64
	// MachCurve scales Cd by a transonic/supersonic drag rise.
	MachCurve  bool
	Atmosphere Atmosphere
}

func NewDrag() *Drag {
	return &Drag{
		Cd:         DefaultDragCoeff,
		Area:       DefaultArea,
		Atmosphere: StandardAtmosphere(),
	}
}

func (d *Drag) Evaluate(s dynamo.State, dt float64) dynamo.Forces {
	v := math.Sqrt(s.Vx*s.Vx + s.Vy*s.Vy)
	mach := d.Atmosphere.Mach(v, s.Y)

	cd := d.Cd
	if d.MachCurve {
		cd *= MachDragFactor(mach)
	}

	q := 0.5 * d.Atmosphere.Density(s.Y) * v * v
	drag := q * cd * d.Area
	lift := q * d.Cl * d.Area

	f := dynamo.Forces{
		Drag:  drag,
		Lift:  lift,
		Mach:  mach,
		Cd:    cd,
		Cl:    d.Cl,
		Alpha: s.Alpha,
	}
	if v > 0 {
		ux, uy := s.Vx/v, s.Vy/v
		f.Fx = -drag*ux - lift*uy
		f.Fy = -drag*uy + lift*ux
		f.Gamma = math.Atan2(s.Vy, s.Vx)
	}
	return f
}

// MachDragFactor is the drag-coefficient multiplier at a Mach number: flat
// below 0.8, a linear rise to 2x at Mach 1.2, then decaying as 1/sqrt(M).
func MachDragFactor(mach float64) float64 {
	switch {
	case mach < 0.8:
		return 1
	case mach < 1.2:
		return 1 + 2.5*(mach-0.8)
	default:
		return 2 * math.Sqrt(1.2/mach)
	}
}

func (d *Drag) GetParams() map[string]float64 {
	curve := 0.0
	if d.MachCurve {
		curve = 1
	}
	return map[string]float64{
		"cd":         d.Cd,
		"cl":         d.Cl,
		"area":       d.Area,
		"mach_curve": curve,
	}
}

func (d *Drag) SetParam(name string, value float64) error {
	switch name {
	case "cd":
		d.Cd = value
	case "cl":
		d.Cl = value
	case "area":
		d.Area = value
	case "mach_curve":
		d.MachCurve = value != 0
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
