package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/projsim/internal/experiment"
)

// BuildFunc creates the experiment for one set of parameter values.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// Candidate is one evaluated grid point. Err is set when the point could not
// be built or run; such points never win.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize selects the largest metric value instead of the smallest.
	Maximize bool
	// Workers bounds concurrent runs. Zero means GOMAXPROCS.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points enumerates the grid with the first parameter varying slowest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[i]))
		for _, p := range points {
			for _, val := range g.ranges[i] {
				np := make(map[string]float64, len(p)+1)
				for k, v := range p {
					np[k] = v
				}
				np[name] = val
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Evaluate runs every grid point and returns them in grid order.
func (g *GridSearch) Evaluate(ctx context.Context, build BuildFunc, metricName string) ([]Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid has %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	out := make([]Candidate, len(points))

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, params := range points {
		eg.Go(func() error {
			out[i] = Candidate{Params: params, Value: math.NaN()}

			exp, err := build(params)
			if err != nil {
				out[i].Err = err
				return nil
			}
			result, err := exp.Run(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				out[i].Err = err
				return nil
			}
			val, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("unknown metric: %s", metricName)
			}
			out[i].Value = val
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns the best parameters and their metric value. Ties go to the
// point that comes first in grid order.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, error) {
	candidates, err := g.Evaluate(ctx, build, metricName)
	if err != nil {
		return nil, 0, err
	}

	best := -1
	for i, c := range candidates {
		if c.Err != nil || math.IsNaN(c.Value) {
			continue
		}
		if best < 0 || g.better(c.Value, candidates[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return nil, 0, fmt.Errorf("no grid point could be evaluated")
	}
	return candidates[best].Params, candidates[best].Value, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.Maximize {
		return v > than
	}
	return v < than
}
