package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/dynpar/internal/dynpar"
)

var csvHeader = []string{"iteration", "a_au", "d_pc", "abs_mag1", "abs_mag2", "lum1_solar", "lum2_solar", "mass1_solar", "mass2_solar"}

// WriteCSV writes one row per recorded state, seed first.
func WriteCSV(w io.Writer, res *dynpar.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range res.History.Readings(res.Constants) {
		row := []string{strconv.Itoa(r.Index)}
		for _, v := range []float64{r.SemiMajorAxisAU, r.DistancePc, r.AbsMag1, r.AbsMag2, r.Lum1, r.Lum2, r.Mass1, r.Mass2} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteCSVFile(path string, res *dynpar.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, res) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
