package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/projsim/internal/logging"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	logger = logging.Discard()
)

// main registers the projsim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "projsim",
		Short:        "fixed-step projectile and sounding rocket simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(cmd.ErrOrStderr(), logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".projsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.LevelFromEnv("warn"), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [group/preset]",
		Short: "run a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON instead of a summary")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the trajectory while it is computed")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().Float64Var(&pace, "pace", 0, "with --live, simulated seconds per wall second (0 = as fast as possible)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary and trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a state field over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "y", "state field to plot")
	plotCmd.Flags().StringVar(&phase, "phase", "", "phase portrait as xfield:yfield, e.g. y:vy")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonPath, "output", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgPath, "output", "o", "", "output file (default <run_id>.svg, - for stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVar(&svgColor, "color", "#00ffff", "stroke color")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the braille canvas as dots instead of a path")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list built-in scenarios",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [group/preset]",
		Short: "run a scenario with the legacy and corrected integrators",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareModes,
	}
	addScenarioFlags(compareCmd)
	compareCmd.Flags().StringVar(&plotField, "field", "y", "state field to plot for both runs")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [group/preset]",
		Short: "sweep launch angle (and speed) for the best metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  optimizeLaunch,
	}
	addScenarioFlags(optimizeCmd)
	optimizeCmd.Flags().Float64Var(&minAngle, "min-angle", 10, "smallest launch angle (deg)")
	optimizeCmd.Flags().Float64Var(&maxAngle, "max-angle", 80, "largest launch angle (deg)")
	optimizeCmd.Flags().IntVar(&angleSteps, "steps", 15, "number of launch angles")
	optimizeCmd.Flags().Float64SliceVar(&speeds, "speeds", nil, "launch speeds to sweep (m/s)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "range", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&minimize, "minimize", false, "minimize instead of maximize")
	optimizeCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	optimizeCmd.Flags().IntVar(&refineEvals, "refine", 0, "polish the best angle with this many Nelder-Mead evaluations")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, optimizeCmd, replayCmd)
	return rootCmd
}

func out(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
