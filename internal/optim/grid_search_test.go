package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/projsim/internal/config"
)

func lob() *config.Config {
	cfg := config.GetPreset("ballistic", "lob")
	cfg.InitState.LaunchSpeed = 40
	return cfg
}

func TestPoints(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2}, {10, 20, 30}})
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("points = %d, want 6", len(points))
	}
	// first parameter varies slowest
	if points[0]["a"] != 1 || points[0]["b"] != 10 || points[3]["a"] != 2 || points[3]["b"] != 10 {
		t.Errorf("points out of order: %v", points)
	}
}

func TestLaunchAngleSweep(t *testing.T) {
	g := LaunchGrid([]float64{15, 30, 45, 60, 75}, nil)
	g.Maximize = true
	g.Workers = 2

	params, best, err := g.Search(context.Background(), ConfigBuilder(lob()), "range")
	if err != nil {
		t.Fatal(err)
	}
	if params["launch_angle"] != 45 {
		t.Errorf("best angle = %v, want 45", params["launch_angle"])
	}
	ideal := 40 * 40 / 9.81
	if math.Abs(best-ideal)/ideal > 0.02 {
		t.Errorf("range = %v, want about %v", best, ideal)
	}
}

func TestSearchTieBreak(t *testing.T) {
	g := LaunchGrid([]float64{20, 40, 60}, []float64{30, 40})
	params, val, err := g.Search(context.Background(), ConfigBuilder(lob()), "fuel_used")
	if err != nil {
		t.Fatal(err)
	}
	if val != 0 {
		t.Errorf("fuel used = %v", val)
	}
	if params["launch_angle"] != 20 || params["launch_speed"] != 30 {
		t.Errorf("tie not broken by grid order: %v", params)
	}
}

func TestSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"dt"}, [][]float64{{-1, 0.01}})
	params, _, err := g.Search(context.Background(), ConfigBuilder(lob()), "apex")
	if err != nil {
		t.Fatal(err)
	}
	if params["dt"] != 0.01 {
		t.Errorf("params = %v", params)
	}

	g = NewGridSearch([]string{"dt"}, [][]float64{{-1}})
	if _, _, err := g.Search(context.Background(), ConfigBuilder(lob()), "apex"); err == nil {
		t.Error("expected error when no point evaluates")
	}
}

func TestEvaluateUnknownMetric(t *testing.T) {
	g := LaunchGrid([]float64{45}, nil)
	if _, err := g.Evaluate(context.Background(), ConfigBuilder(lob()), "warp"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := LaunchGrid([]float64{30, 45}, nil)
	if _, err := g.Evaluate(ctx, ConfigBuilder(lob()), "range"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMismatchedGrid(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1}})
	if _, err := g.Evaluate(context.Background(), ConfigBuilder(lob()), "apex"); err == nil {
		t.Error("expected error for mismatched grid")
	}
}

func TestSpan(t *testing.T) {
	got := Span(10, 80, 8)
	if len(got) != 8 || got[0] != 10 || got[7] != 80 || got[1] != 20 {
		t.Errorf("span = %v", got)
	}
	if got := Span(5, 9, 1); len(got) != 1 || got[0] != 5 {
		t.Errorf("span = %v", got)
	}
}

func TestRefine(t *testing.T) {
	angle, val, err := Refine(context.Background(), lob(), "launch_angle", 35, "range", true, 60)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(angle-45) > 5 {
		t.Errorf("refined angle = %v, want near 45", angle)
	}

	exp, err := ConfigBuilder(lob())(map[string]float64{"launch_angle": 35})
	if err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if start := result.Metrics["range"]; val < start {
		t.Errorf("refined range %v worse than start %v", val, start)
	}
}

func TestRefineUnknownParam(t *testing.T) {
	if _, _, err := Refine(context.Background(), lob(), "warp", 1, "range", true, 10); err == nil {
		t.Error("expected error for unknown param")
	}
}
