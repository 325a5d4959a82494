package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/dynpar/internal/dynpar"
)

// Summary renders the estimates of a run as a table with one sparkline per
// quantity showing how it settled.
func Summary(res *dynpar.Result) string {
	if res == nil {
		return ""
	}
	r := res.FinalReadings()
	c := res.Constants
	spark := func(f dynpar.Field) string { return Sparkline(res.History.Series(f, c)) }

	rows := [][]string{
		{"period T", fmt.Sprintf("%.2f yr", res.PeriodYears()), "", ""},
		{"semi-major axis a", fmt.Sprintf("%.2f AU", r.SemiMajorAxisAU), "", spark(dynpar.FieldSemiMajorAxis)},
		{"distance d", fmt.Sprintf("%.2f pc", r.DistancePc), "", spark(dynpar.FieldDistance)},
		{"absolute magnitude M", fmt.Sprintf("%.2f", r.AbsMag1), fmt.Sprintf("%.2f", r.AbsMag2), spark(dynpar.FieldAbsMag1)},
		{"luminosity L [L☉]", fmt.Sprintf("%.3f", r.Lum1), fmt.Sprintf("%.3f", r.Lum2), spark(dynpar.FieldLum1)},
		{"mass m [M☉]", fmt.Sprintf("%.2f", r.Mass1), fmt.Sprintf("%.2f", r.Mass2), spark(dynpar.FieldMass1)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("quantity", "primary", "secondary", "trend").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle.Padding(0, 1)
			case col == 0:
				return MetricLabel.Padding(0, 1)
			default:
				return MetricValue.Padding(0, 1)
			}
		})

	var sb strings.Builder
	sb.WriteString(Title.Render("dynamical parallax"))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(Status(res))
	return sb.String()
}

func Status(res *dynpar.Result) string {
	if res.Converged {
		return StatusConverged.Render(fmt.Sprintf("converged after %d iterations", res.Iterations))
	}
	return StatusFailed.Render(fmt.Sprintf("not converged after %d iterations", res.Iterations))
}
