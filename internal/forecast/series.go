package forecast

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic PM10 series shape: diurnal and weekly cycles over a slow
// positive trend, with Gaussian measurement noise, floored at zero.
const (
	baseLevelUgM3  = 25.0
	dailyAmpUgM3   = 8.0
	weeklyAmpUgM3  = 4.0
	trendRatePerHr = 0.002
	noiseSigmaUgM3 = 5.0

	hoursPerDay  = 24
	hoursPerWeek = 168
)

// Series is an hourly, gap-free sequence of non-negative PM10
// concentrations. Values are immutable once generated; index i is the
// observation at Start + i hours.
type Series struct {
	Start  time.Time
	Values []float64
}

// Len returns the number of hourly observations.
func (s Series) Len() int {
	return len(s.Values)
}

// Timestamp returns the observation time for index i.
func (s Series) Timestamp(i int) time.Time {
	return s.Start.Add(time.Duration(i) * time.Hour)
}

// GenerateSyntheticPM10 produces a deterministic synthetic hourly PM10
// series of n hours. The same seed always yields a bit-identical series.
func GenerateSyntheticPM10(n int, seed int64) Series {
	if n < 0 {
		n = 0
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: noiseSigmaUgM3,
		Src:   rand.NewPCG(uint64(seed), uint64(seed)),
	}

	values := make([]float64, n)
	for t := 0; t < n; t++ {
		v := baseLevelUgM3 +
			dailyAmpUgM3*math.Sin(2*math.Pi*float64(t)/hoursPerDay) +
			weeklyAmpUgM3*math.Sin(2*math.Pi*float64(t)/hoursPerWeek) +
			trendRatePerHr*float64(t) +
			noise.Rand()

		// Physical concentrations cannot go negative.
		if v < 0 {
			v = 0
		}
		values[t] = v
	}

	return Series{
		Start:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Values: values,
	}
}
