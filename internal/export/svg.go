package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/dynpar/internal/dynpar"
	"github.com/san-kum/dynpar/internal/viz"
)

var seriesColors = []string{"#1f77b4", "#ff7f0e"}

const (
	panelWidth  = 420
	panelHeight = 260
	panelMargin = 48
)

// ChartSVG lays out viz.ConvergencePanels in a 2x2 grid. Each point is
// annotated with its value rounded to three decimals.
func ChartSVG(res *dynpar.Result) string {
	if res == nil || res.History.Len() == 0 {
		return ""
	}

	cols := 2
	rows := (len(viz.ConvergencePanels) + cols - 1) / cols
	width := cols * panelWidth
	height := rows * panelHeight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="11">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for i, p := range viz.ConvergencePanels {
		x0 := float64((i % cols) * panelWidth)
		y0 := float64((i / cols) * panelHeight)
		writePanel(&sb, res, p, x0, y0)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePanel(sb *strings.Builder, res *dynpar.Result, p viz.ChartPanel, x0, y0 float64) {
	left := x0 + panelMargin
	top := y0 + panelMargin/2
	w := float64(panelWidth - panelMargin - panelMargin/2)
	h := float64(panelHeight - panelMargin - panelMargin/2)

	lo, hi := res.History.Bounds(res.Constants, p.Fields...)
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	lo -= rng * 0.1
	hi += rng * 0.1
	rng = hi - lo

	n := res.History.Len()
	xAt := func(i int) float64 {
		if n == 1 {
			return left + w/2
		}
		return left + float64(i)/float64(n-1)*w
	}
	yAt := func(v float64) float64 { return top + h - (v-lo)/rng*h }

	sb.WriteString(fmt.Sprintf(`<g>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#cccccc"/>
<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>
<text x="%.1f" y="%.1f" text-anchor="middle">iteration</text>
`, left, top, w, h, left+w/2, top-6, p.Caption, left+w/2, top+h+30))

	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" fill="#666666">%d</text>
`, xAt(i), top+h+14, i))
	}

	for s, f := range p.Fields {
		color := seriesColors[s%len(seriesColors)]
		values := res.History.Series(f, res.Constants)

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, v := range values {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", xAt(i), yAt(v)))
		}
		sb.WriteString("\"/>\n")

		for i, v := range values {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, xAt(i), yAt(v), color, xAt(i)+4, yAt(v)-4, color, round3(v)))
		}

		if s < len(p.Legends) {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, left+w-80, top+14+float64(s)*14, color, p.Legends[s]))
		}
	}

	sb.WriteString("</g>\n")
}

func round3(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*1000)/1000)
}

func WriteSVG(w io.Writer, res *dynpar.Result) error {
	_, err := io.WriteString(w, ChartSVG(res))
	return err
}

func WriteSVGFile(path string, res *dynpar.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteSVG(w, res) })
}
