package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynpar/internal/dynpar"
)

// ChartPanel is one quantity (or pair of quantities) plotted against the
// iteration index.
type ChartPanel struct {
	Caption string
	Fields  []dynpar.Field
	Legends []string
}

// ConvergencePanels is the 2x2 layout: semi-major axis and distance on top,
// magnitudes and masses of both components below.
var ConvergencePanels = []ChartPanel{
	{Caption: "semi-major axis [AU]", Fields: []dynpar.Field{dynpar.FieldSemiMajorAxis}},
	{Caption: "distance [pc]", Fields: []dynpar.Field{dynpar.FieldDistance}},
	{
		Caption: "absolute magnitude",
		Fields:  []dynpar.Field{dynpar.FieldAbsMag1, dynpar.FieldAbsMag2},
		Legends: []string{"primary", "secondary"},
	},
	{
		Caption: "mass [M☉]",
		Fields:  []dynpar.Field{dynpar.FieldMass1, dynpar.FieldMass2},
		Legends: []string{"primary", "secondary"},
	},
}

type ChartOptions struct {
	Height int
	Width  int
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{Height: 8, Width: 60}
}

// RenderChart plots every panel of ConvergencePanels, one below the other
// with a separator line between them.
func RenderChart(res *dynpar.Result, opts ChartOptions) string {
	if res == nil || res.History.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range ConvergencePanels {
		if i > 0 {
			sb.WriteString("\n")
			sb.WriteString(Separator(opts.Width))
			sb.WriteString("\n")
		}
		sb.WriteString(RenderPanel(res, p, opts))
	}
	return sb.String()
}

func RenderPanel(res *dynpar.Result, p ChartPanel, opts ChartOptions) string {
	series := make([][]float64, len(p.Fields))
	for i, f := range p.Fields {
		series[i] = res.History.Series(f, res.Constants)
	}

	lo, hi := res.History.Bounds(res.Constants, p.Fields...)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}

	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(3),
		asciigraph.LowerBound(lo - pad),
		asciigraph.UpperBound(hi + pad),
		asciigraph.Caption(p.Caption),
	}
	if len(series) > 1 {
		graphOpts = append(graphOpts, asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red))
	}
	if len(p.Legends) > 0 {
		graphOpts = append(graphOpts, asciigraph.SeriesLegends(p.Legends...))
	}

	return asciigraph.PlotMany(series, graphOpts...)
}
