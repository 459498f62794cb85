package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/projsim/internal/analysis"
	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/experiment"
	"github.com/san-kum/projsim/internal/optim"
	"github.com/san-kum/projsim/internal/storage"
	"github.com/san-kum/projsim/internal/tui"
	"github.com/san-kum/projsim/internal/viz"
)

var (
	configFile  string
	model       string
	mode        string
	dt          float64
	duration    float64
	gravity     float64
	posX        float64
	posY        float64
	velX        float64
	velY        float64
	launchSpeed float64
	launchAngle float64
	mass        float64
	grounded    bool

	saveRun   bool
	jsonOut   bool
	live      bool
	frameRate int
	pace      float64

	minAngle    float64
	maxAngle    float64
	angleSteps  int
	speeds      []float64
	metricName  string
	minimize    bool
	workers     int
	refineEvals int
)

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "scenario file (yaml), overrides the preset")
	f.StringVar(&model, "model", config.DefaultModel, "force model (inert, drag, thrust, rocket)")
	f.StringVar(&mode, "mode", config.DefaultMode, "integrator rules (corrected, legacy)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "horizon (s)")
	f.Float64Var(&gravity, "gravity", dynamo.StandardGravity, "gravitational acceleration (m/s^2)")
	f.Float64Var(&posX, "x", 0, "initial x (m)")
	f.Float64Var(&posY, "y", 0, "initial y (m)")
	f.Float64Var(&velX, "vx", 0, "initial vx (m/s)")
	f.Float64Var(&velY, "vy", 0, "initial vy (m/s)")
	f.Float64Var(&launchSpeed, "speed", 0, "launch speed (m/s), overrides vx/vy")
	f.Float64Var(&launchAngle, "angle", 45, "launch angle above the horizon (deg)")
	f.Float64Var(&mass, "mass", config.DefaultMass, "initial mass (kg)")
	f.BoolVar(&grounded, "grounded", false, "start resting on the ground")
}

// scenarioConfig resolves the scenario: preset, then --config, then any
// flag set explicitly on the command line.
func scenarioConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		p, err := config.Lookup(args[0])
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = model
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("x") {
		cfg.InitState.X = posX
	}
	if flags.Changed("y") {
		cfg.InitState.Y = posY
	}
	if flags.Changed("vx") {
		cfg.InitState.VX = velX
	}
	if flags.Changed("vy") {
		cfg.InitState.VY = velY
	}
	if flags.Changed("speed") {
		cfg.InitState.LaunchSpeed = launchSpeed
	}
	if flags.Changed("angle") {
		cfg.InitState.LaunchAngle = launchAngle
		cfg.Thrust.LaunchAngle = launchAngle
	}
	if flags.Changed("mass") {
		cfg.InitState.Mass = mass
	}
	if flags.Changed("grounded") {
		cfg.InitState.Grounded = grounded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExperiment(ctx context.Context, cfg *config.Config, observers ...dynamo.Observer) (*dynamo.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	for _, o := range observers {
		exp.GetSimulator().AddObserver(o)
	}

	logger.Info("simulation started",
		"model", cfg.Model, "mode", cfg.Mode, "dt", cfg.Dt, "duration", cfg.Duration)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return nil, err
	}

	logger.Info("simulation finished",
		"steps", result.StepsTaken, "samples", len(result.States), "elapsed", time.Since(start))
	for _, ev := range result.Events {
		logger.Debug(ev.Kind.String(), "step", ev.Step, "t", ev.Time, "x", ev.X)
	}
	return result, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := scenarioConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var observers []dynamo.Observer
	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(cmd.OutOrStdout(), cfg.Model, frameRate)
		renderer.Pace = pace
		renderer.Start()
		defer renderer.Stop()
		observers = append(observers, renderer)
	}

	result, err := runExperiment(ctx, cfg, observers...)
	if err != nil {
		return err
	}
	if renderer != nil {
		renderer.Flush()
	}

	var meta *storage.RunMetadata
	if saveRun {
		st := storage.New(dataDir)
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", dataDir)
		if meta, err = st.Load(runID); err != nil {
			return err
		}
	}

	if jsonOut {
		if meta == nil {
			meta = &storage.RunMetadata{
				Model:    cfg.Model,
				Mode:     result.Mode.String(),
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
				Gravity:  cfg.Gravity,
				Steps:    result.StepsTaken,
				Metrics:  result.Metrics,
			}
		}
		return storage.ExportJSON(cmd.OutOrStdout(), meta, result.States)
	}

	title := fmt.Sprintf("%s (%s)", cfg.Model, result.Mode)
	if meta != nil {
		title = meta.ID
	}
	out(cmd, "%s\n", viz.RenderSummary(title, result.Metrics, analysis.Summarize(result.States)))
	return nil
}

func compareModes(cmd *cobra.Command, args []string) error {
	cfg, err := scenarioConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	modes := []dynamo.Mode{dynamo.ModeLegacy, dynamo.ModeCorrected}
	results := make([]*dynamo.Result, len(modes))
	for i, m := range modes {
		c := cfg.Clone()
		c.Mode = m.String()
		if results[i], err = runExperiment(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tLEGACY\tCORRECTED")
	for _, name := range metricNames(results[0].Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", name, results[0].Metrics[name], results[1].Metrics[name])
	}
	fmt.Fprintf(w, "samples\t%d\t%d\n", len(results[0].States), len(results[1].States))
	fmt.Fprintf(w, "events\t%d\t%d\n", len(results[0].Events), len(results[1].Events))
	if err := w.Flush(); err != nil {
		return err
	}

	diff, err := analysis.MaxAbsDiff(results[0].States, results[1].States, plotField)
	if err != nil {
		return err
	}
	out(cmd, "\nmax |Δ%s| = %.6g\n\n", plotField, diff)

	a, _ := analysis.Series(results[0].States, plotField)
	b, _ := analysis.Series(results[1].States, plotField)
	out(cmd, "%s\n", viz.PlotCompare([][]float64{a, b}, []string{"legacy", "corrected"}, plotField, 80, 12))
	return nil
}

func optimizeLaunch(cmd *cobra.Command, args []string) error {
	cfg, err := scenarioConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.InitState.LaunchSpeed == 0 && len(speeds) == 0 && len(cfg.Thrust.Stages) == 0 {
		return fmt.Errorf("scenario has neither launch speed nor thrust; set --speed or --speeds")
	}

	ctx, cancel := signalContext()
	defer cancel()

	grid := optim.LaunchGrid(optim.Span(minAngle, maxAngle, angleSteps), speeds)
	grid.Maximize = !minimize
	grid.Workers = workers

	logger.Info("grid search started", "points", len(grid.Points()), "metric", metricName)
	start := time.Now()
	best, val, err := grid.Search(ctx, optim.ConfigBuilder(cfg), metricName)
	if err != nil {
		return err
	}
	logger.Info("grid search finished", "elapsed", time.Since(start))

	out(cmd, "best %s = %.4f at angle %.2f°", metricName, val, best["launch_angle"])
	if s, ok := best["launch_speed"]; ok {
		out(cmd, ", speed %.2f m/s", s)
	}
	out(cmd, "\n")

	if refineEvals > 0 {
		tuned := cfg.Clone()
		if s, ok := best["launch_speed"]; ok {
			tuned.InitState.LaunchSpeed = s
		}
		angle, rv, err := optim.Refine(ctx, tuned, "launch_angle", best["launch_angle"], metricName, !minimize, refineEvals)
		if err != nil {
			return err
		}
		out(cmd, "refined %s = %.4f at angle %.3f°\n", metricName, rv, angle)
	}
	return nil
}
