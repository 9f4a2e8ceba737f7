package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/emden"
)

// WriteCSV writes the trajectory as x,y,z rows at full precision.
func WriteCSV(w io.Writer, traj *emden.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	row := make([]string, 3)
	for i := range traj.X {
		row[0] = strconv.FormatFloat(traj.X[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(traj.Y[i], 'g', -1, 64)
		row[2] = strconv.FormatFloat(traj.Z[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type Data struct {
	N            float64   `json:"n"`
	H            float64   `json:"h"`
	XInit        float64   `json:"x_init"`
	Steps        int       `json:"steps"`
	XI1          float64   `json:"xi1"`
	ThetaPrime   float64   `json:"theta_prime"`
	DensityRatio float64   `json:"density_ratio"`
	X            []float64 `json:"x"`
	Y            []float64 `json:"y"`
	Z            []float64 `json:"z"`
}

// WriteJSON writes the star's scalars and its full trajectory.
func WriteJSON(w io.Writer, star *analysis.Star) error {
	traj := star.Trajectory()
	data := Data{
		N:            star.N(),
		H:            traj.H,
		XInit:        traj.XInit,
		Steps:        traj.Iterations,
		XI1:          star.XI1(),
		ThetaPrime:   star.ThetaPrime(),
		DensityRatio: star.DensityRatio(),
		X:            traj.X,
		Y:            traj.Y,
		Z:            traj.Z,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
