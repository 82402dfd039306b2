package comparison

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary describes the loss distribution of one feature set.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// CI95 is the half-width of the 95% confidence interval of the mean.
	CI95 float64 `json:"ci95"`
}

// Summarize computes summary statistics for a loss row.
func Summarize(losses []float64) Summary {
	if len(losses) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(losses)

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	s := Summary{Mean: mean, Median: median, Min: lo, Max: hi}
	if len(losses) > 1 {
		sd, _ := stats.StandardDeviationSample(data)
		s.StdDev = sd
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(losses) - 1)}
		s.CI95 = t.Quantile(0.975) * sd / math.Sqrt(float64(len(losses)))
	}
	return s
}
