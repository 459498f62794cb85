package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/projsim/internal/analysis"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders a bar filled to percent (0..1).
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return SparkHigh.Render(bar)
	case percent > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// Metric renders one "label value" pair.
func Metric(label string, value float64, unit string) string {
	return MetricLabel.Render(fmt.Sprintf("%-13s", label)) + " " +
		MetricValue.Render(fmt.Sprintf("%10.3f", value)) + " " + Subtle.Render(unit)
}

var metricUnits = map[string]string{
	"apex":         "m",
	"range":        "m",
	"max_speed":    "m/s",
	"max_mach":     "",
	"flight_time":  "s",
	"fuel_used":    "kg",
	"energy_drift": "",
}

// RenderSummary lays out run metrics and the trajectory summary in a panel.
func RenderSummary(title string, metrics map[string]float64, sum analysis.Summary) string {
	var lines []string
	lines = append(lines, Title.Render(title), "")

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, Metric(name, metrics[name], metricUnits[name]))
	}

	lines = append(lines, "",
		Metric("samples", float64(sum.Samples), ""),
		Metric("apex time", sum.ApexTime, "s"),
		Metric("mean speed", sum.MeanSpeed, "m/s"),
	)
	if sum.Impacted {
		lines = append(lines,
			Metric("impact time", sum.ImpactTime, "s"),
			Metric("impact range", sum.ImpactRange, "m"),
			Metric("impact speed", sum.ImpactSpeed, "m/s"),
			Metric("impact angle", sum.ImpactAngle, "deg"),
		)
	} else {
		lines = append(lines, Subtle.Render("no impact within horizon"))
	}

	return Panel.Render(strings.Join(lines, "\n"))
}
