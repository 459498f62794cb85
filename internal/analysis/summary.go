package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/projsim/internal/dynamo"
)

// Summary describes a finished trajectory.
type Summary struct {
	Samples int

	Apex     float64
	ApexTime float64

	MeanSpeed float64
	MaxSpeed  float64

	// Impact values are interpolated between the last airborne sample and
	// the first sample at ground. Impacted is false when the body never
	// came down within the horizon.
	Impacted    bool
	ImpactTime  float64
	ImpactRange float64
	ImpactSpeed float64
	ImpactAngle float64 // degrees below the horizon
}

func Summarize(states []dynamo.State) Summary {
	sum := Summary{Samples: len(states)}
	if len(states) == 0 {
		return sum
	}

	ys := Column(states, func(s dynamo.State) float64 { return s.Y })
	speeds := Column(states, func(s dynamo.State) float64 { return math.Hypot(s.Vx, s.Vy) })

	apex := floats.MaxIdx(ys)
	sum.Apex = ys[apex]
	sum.ApexTime = states[apex].T
	sum.MeanSpeed = stat.Mean(speeds, nil)
	sum.MaxSpeed = floats.Max(speeds)

	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1], states[i]
		if prev.Y <= 0 || cur.Y > 0 {
			continue
		}
		frac := prev.Y / (prev.Y - cur.Y)
		lerp := func(a, b float64) float64 { return a + frac*(b-a) }

		vx, vy := lerp(prev.Vx, cur.Vx), lerp(prev.Vy, cur.Vy)
		sum.Impacted = true
		sum.ImpactTime = lerp(prev.T, cur.T)
		sum.ImpactRange = lerp(prev.X, cur.X)
		sum.ImpactSpeed = math.Hypot(vx, vy)
		sum.ImpactAngle = math.Atan2(-vy, math.Abs(vx)) * 180 / math.Pi
		break
	}
	return sum
}

// Column maps every sample through fn.
func Column(states []dynamo.State, fn func(dynamo.State) float64) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i] = fn(s)
	}
	return out
}

// Series extracts a named field ("t", "y", "vx", ...) from every sample.
func Series(states []dynamo.State, field string) ([]float64, error) {
	if _, ok := dynamo.NewState().Field(field); !ok {
		return nil, fmt.Errorf("unknown field: %s (available: %v)", field, dynamo.FieldNames())
	}
	return Column(states, func(s dynamo.State) float64 {
		v, _ := s.Field(field)
		return v
	}), nil
}

// MaxAbsDiff compares two runs field by field over their common prefix and
// returns the largest absolute difference.
func MaxAbsDiff(a, b []dynamo.State, field string) (float64, error) {
	sa, err := Series(a, field)
	if err != nil {
		return 0, err
	}
	sb, err := Series(b, field)
	if err != nil {
		return 0, err
	}
	n := min(len(sa), len(sb))
	if n == 0 {
		return 0, nil
	}
	return floats.Distance(sa[:n], sb[:n], math.Inf(1)), nil
}
