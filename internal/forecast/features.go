package forecast

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// CausalSmooth computes a trailing moving average of the input. Position i
// averages values[max(0, i-window+1) .. i], so positions before the first
// full window use a partial window of all available prior points and never
// any future ones. Causality relative to a split point therefore depends
// entirely on what slice the caller passes in: smoothing a training prefix
// is causal by construction, smoothing the full series before truncation
// is not.
func CausalSmooth(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}

		sum := 0.0
		for j := lo; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(i-lo+1)
	}
	return out
}

// Standardizer holds the centering and scaling parameters of one fit. It is
// scoped to a single model fit: the rolling protocol fits a fresh one per
// origin so no scaling information can cross origins.
type Standardizer struct {
	Mean  float64
	Scale float64

	// Degenerate is set when the input had zero variance and the scale was
	// substituted with 1. Callers should log it; it is not an error.
	Degenerate bool
}

// FitStandardizer estimates mean and population standard deviation from the
// given values only.
func FitStandardizer(values []float64) Standardizer {
	mean, err := stats.Mean(values)
	if err != nil {
		return Standardizer{Scale: 1, Degenerate: true}
	}

	scale, err := stats.StandardDeviationPopulation(values)
	if err != nil || scale == 0 {
		return Standardizer{Mean: mean, Scale: 1, Degenerate: true}
	}

	return Standardizer{Mean: mean, Scale: scale}
}

// Apply transforms a raw value to standardized units.
func (s Standardizer) Apply(v float64) float64 {
	return (v - s.Mean) / s.Scale
}

// Invert maps a standardized value back to raw units.
func (s Standardizer) Invert(v float64) float64 {
	return v*s.Scale + s.Mean
}

// LaggedMatrix is the autoregressive design matrix built from one smoothed
// and standardized sequence. Row t holds the order preceding standardized
// values, most recent first, with the standardized value at t as target.
type LaggedMatrix struct {
	X      *mat.Dense
	Y      *mat.VecDense
	Scaler Standardizer
}

// BuildLaggedMatrix standardizes values (statistics from this input only)
// and assembles the lag-feature matrix of the given order. Row count is
// len(values) - order.
func BuildLaggedMatrix(values []float64, order int) (*LaggedMatrix, error) {
	if order < 1 {
		order = 1
	}
	if len(values) <= order {
		return nil, &InsufficientDataError{Op: "build lagged matrix", Need: order + 1, Have: len(values)}
	}

	scaler := FitStandardizer(values)
	z := make([]float64, len(values))
	for i, v := range values {
		z[i] = scaler.Apply(v)
	}

	rows := len(z) - order
	x := mat.NewDense(rows, order, nil)
	y := mat.NewVecDense(rows, nil)

	for t := 0; t < rows; t++ {
		// Features for target z[order+t]: z[order+t-1], z[order+t-2], ...
		for lag := 1; lag <= order; lag++ {
			x.Set(t, lag-1, z[order+t-lag])
		}
		y.SetVec(t, z[order+t])
	}

	return &LaggedMatrix{X: x, Y: y, Scaler: scaler}, nil
}

// lagRow builds a single inference-time feature row from the last order
// values of smoothed, standardized with the supplied scaler and ordered
// most recent first, matching the training row layout.
func lagRow(smoothed []float64, order int, scaler Standardizer) []float64 {
	row := make([]float64, order)
	n := len(smoothed)
	for lag := 1; lag <= order; lag++ {
		row[lag-1] = scaler.Apply(smoothed[n-lag])
	}
	return row
}
