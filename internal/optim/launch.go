package optim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/experiment"
)

// ConfigBuilder applies grid parameters to copies of base.
func ConfigBuilder(base *config.Config) BuildFunc {
	reg := experiment.NewRegistry()
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, val := range params {
			if err := cfg.SetParam(name, val); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

// LaunchGrid sweeps launch angle (degrees) and launch speed. An empty speeds
// slice keeps the speed of the scenario.
func LaunchGrid(angles, speeds []float64) *GridSearch {
	if len(speeds) == 0 {
		return NewGridSearch([]string{"launch_angle"}, [][]float64{angles})
	}
	return NewGridSearch(
		[]string{"launch_angle", "launch_speed"},
		[][]float64{angles, speeds},
	)
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Refine polishes one scenario parameter with Nelder-Mead, starting from
// start. It is meant to follow a coarse grid search.
func Refine(
	ctx context.Context,
	base *config.Config,
	param string,
	start float64,
	metricName string,
	maximize bool,
	maxEvals int,
) (float64, float64, error) {
	build := ConfigBuilder(base)
	sign := 1.0
	if maximize {
		sign = -1
	}

	var runErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if runErr != nil {
				return math.Inf(1)
			}
			exp, err := build(map[string]float64{param: x[0]})
			if err != nil {
				runErr = err
				return math.Inf(1)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				runErr = err
				return math.Inf(1)
			}
			val, ok := result.Metrics[metricName]
			if !ok {
				runErr = fmt.Errorf("unknown metric: %s", metricName)
				return math.Inf(1)
			}
			return sign * val
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0,
	}
	method := &optimize.NelderMead{SimplexSize: math.Max(math.Abs(start)*0.1, 1)}

	result, err := optimize.Minimize(problem, []float64{start}, settings, method)
	if runErr != nil {
		return 0, 0, runErr
	}
	if err != nil && result == nil {
		return 0, 0, err
	}
	return result.X[0], sign * result.F, nil
}
