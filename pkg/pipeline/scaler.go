package pipeline

import (
	"fmt"
	"math"
)

// StandardScaler standardizes numeric columns to zero mean and unit
// variance using statistics fitted on one tenant's training distribution.
// A zero-variance column keeps scale 1 so constant features map to zero
// instead of NaN.
type StandardScaler struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// Fit computes per-column mean and standard deviation over the rows
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to fit scaler on")
	}
	width := len(rows[0])
	s.Means = make([]float64, width)
	s.Scales = make([]float64, width)

	for _, row := range rows {
		if len(row) != width {
			return fmt.Errorf("row width %d does not match %d", len(row), width)
		}
		for i, v := range row {
			s.Means[i] += v
		}
	}
	n := float64(len(rows))
	for i := range s.Means {
		s.Means[i] /= n
	}

	for _, row := range rows {
		for i, v := range row {
			d := v - s.Means[i]
			s.Scales[i] += d * d
		}
	}
	for i := range s.Scales {
		s.Scales[i] = math.Sqrt(s.Scales[i] / n)
		if s.Scales[i] == 0 {
			s.Scales[i] = 1
		}
	}
	return nil
}

// Transform standardizes one row in place-safe fashion
func (s *StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Means[i]) / s.Scales[i]
	}
	return out
}
