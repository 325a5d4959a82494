package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dynpar/internal/dynpar"
)

// ExportData is the JSON document written for a run.
type ExportData struct {
	Converged   bool              `json:"converged"`
	Iterations  int               `json:"iterations"`
	PeriodYears float64           `json:"period_years"`
	Geometry    GeometryData      `json:"geometry"`
	Final       dynpar.Readings   `json:"final"`
	History     []dynpar.Readings `json:"history"`
}

type GeometryData struct {
	AlphaRad      float64 `json:"alpha_rad"`
	BetaRad       float64 `json:"beta_rad"`
	HRad          float64 `json:"h_rad"`
	PartialAreaSr float64 `json:"partial_area_sr"`
	TotalAreaSr   float64 `json:"total_area_sr"`
}

func NewExportData(res *dynpar.Result) ExportData {
	g := res.Geometry
	return ExportData{
		Converged:   res.Converged,
		Iterations:  res.Iterations,
		PeriodYears: res.PeriodYears(),
		Geometry: GeometryData{
			AlphaRad:      g.Alpha,
			BetaRad:       g.Beta,
			HRad:          g.H,
			PartialAreaSr: g.PartialArea,
			TotalAreaSr:   g.TotalArea,
		},
		Final:   res.FinalReadings(),
		History: res.History.Readings(res.Constants),
	}
}

func WriteJSON(w io.Writer, res *dynpar.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(res))
}

func WriteJSONFile(path string, res *dynpar.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, res) })
}
