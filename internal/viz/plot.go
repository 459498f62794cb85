package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/projsim/internal/analysis"
	"github.com/san-kum/projsim/internal/dynamo"
)

// PlotSeries charts values, downsampled to at most width points.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(values, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotField charts one named field of a trajectory against sample index.
func PlotField(states []dynamo.State, field string, width, height int) (string, error) {
	data, err := analysis.Series(states, field)
	if err != nil {
		return "", err
	}
	caption := field
	if len(states) > 0 {
		caption = fmt.Sprintf("%s over t=[%.2f, %.2f]s", field, states[0].T, states[len(states)-1].T)
	}
	return PlotSeries(data, caption, width, height), nil
}

// Downsample keeps every k-th value so that about n remain. The last value
// is always kept.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	step := (len(values) + n - 1) / n
	out := make([]float64, 0, n+1)
	for i := 0; i < len(values); i += step {
		out = append(out, values[i])
	}
	if (len(values)-1)%step != 0 {
		out = append(out, values[len(values)-1])
	}
	return out
}

// PlotCompare charts several series on one set of axes with a legend.
func PlotCompare(series [][]float64, legends []string, caption string, width, height int) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			data = append(data, Downsample(s, width))
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Goldenrod, asciigraph.IndianRed),
		asciigraph.SeriesLegends(legends...),
	)
}
