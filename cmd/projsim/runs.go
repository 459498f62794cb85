package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/projsim/internal/analysis"
	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/export"
	"github.com/san-kum/projsim/internal/storage"
	"github.com/san-kum/projsim/internal/tui"
	"github.com/san-kum/projsim/internal/viz"
)

var (
	plotField  string
	phase      string
	plotWidth  int
	plotHeight int

	jsonPath  string
	svgPath   string
	svgWidth  int
	svgHeight int
	svgColor  string
	braille   bool
)

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, states, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		out(cmd, "no runs found\n")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tMODE\tTIME\tDURATION\tDT\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Model,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out(cmd, "%s\n", viz.RenderSummary(meta.ID, meta.Metrics, analysis.Summarize(states)))
	out(cmd, "%s  %s  dt=%g  duration=%gs  g=%g\n", meta.Model, meta.Mode, meta.Dt, meta.Duration, meta.Gravity)
	for _, ev := range meta.Events {
		out(cmd, "  %-9s step %-6d t=%.3fs x=%.2fm\n", ev.Kind, ev.Step, ev.Time, ev.X)
	}
	if len(states) > 0 {
		out(cmd, "\n%s", viz.TrajectoryCanvas(states, 70, 16))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out(cmd, "run: %s\n", meta.ID)
	out(cmd, "model: %s (%s)\n\n", meta.Model, meta.Mode)

	if phase != "" {
		xf, yf, ok := strings.Cut(phase, ":")
		if !ok {
			return fmt.Errorf("--phase wants xfield:yfield, got %q", phase)
		}
		portrait, err := analysis.GeneratePhasePortrait(states, xf, yf)
		if err != nil {
			return err
		}
		out(cmd, "%s vs %s\n%s", yf, xf, analysis.PhasePortraitToASCII(portrait, plotWidth, plotHeight))
		return nil
	}

	graph, err := viz.PlotField(states, plotField, plotWidth, plotHeight)
	if err != nil {
		return err
	}
	out(cmd, "%s\n", graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if jsonPath == "-" {
		return storage.ExportJSON(cmd.OutOrStdout(), meta, states)
	}
	if err := storage.ExportJSONFile(jsonPath, meta, states); err != nil {
		return err
	}
	logger.Info("exported", "run", meta.ID, "path", jsonPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if braille {
		svg = export.CanvasToSVG(viz.TrajectoryCanvas(states, svgWidth/8, svgHeight/16), 4)
	} else {
		svg = export.TrajectoryToSVG(export.StatePoints(states), svgWidth, svgHeight, svgColor)
	}
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", meta.ID)
	}

	path := svgPath
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := export.WriteSVG(cmd.OutOrStdout(), path, svg); err != nil {
		return err
	}
	logger.Info("exported", "run", meta.ID, "path", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	groups := config.ListGroups()
	if len(args) > 0 {
		if config.ListPresets(args[0]) == nil {
			return fmt.Errorf("unknown preset group: %s (available: %v)", args[0], groups)
		}
		groups = args[:1]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMODEL\tMODE\tDT\tDURATION")
	for _, g := range groups {
		for _, name := range config.ListPresets(g) {
			p := config.GetPreset(g, name)
			fmt.Fprintf(w, "%s/%s\t%s\t%s\t%g\t%gs\n", g, name, p.Model, p.Mode, p.Dt, p.Duration)
		}
	}
	return w.Flush()
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return tui.RunReplay(meta.ID, states)
}
