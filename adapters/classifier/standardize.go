package classifier

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// scaler z-scores columns with statistics fitted on the training rows only.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(x mat.Matrix) *scaler {
	rows, cols := x.Dims()
	s := &scaler{mean: make([]float64, cols), std: make([]float64, cols)}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		m, sd := stat.MeanStdDev(col, nil)
		if sd == 0 || sd != sd {
			sd = 1
		}
		s.mean[j], s.std[j] = m, sd
	}
	return s
}

func (s *scaler) transform(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.mean[j]) / s.std[j]
	}, x)
	return out
}
