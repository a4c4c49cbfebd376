package forecast

import (
	"context"
	"fmt"
)

// Params carries the tunables shared by both validation protocols. The
// static protocol reads TrainFraction; the rolling protocol reads
// WarmupHours, StepHours and Parallelism; everything else is common.
type Params struct {
	Horizons        []int
	LagOrder        int
	SmoothingWindow int
	TrainFraction   float64
	WarmupHours     int
	StepHours       int
	RidgeAlpha      float64
	Parallelism     int
}

// DefaultParams returns the reference configuration: a two-year hourly
// series evaluated at {1,6,12,24,48,72} hours ahead with an AR(24) model
// over a 24-hour trailing mean.
func DefaultParams() Params {
	return Params{
		Horizons:        []int{1, 6, 12, 24, 48, 72},
		LagOrder:        24,
		SmoothingWindow: 24,
		TrainFraction:   0.75,
		WarmupHours:     8760,
		StepHours:       168,
		RidgeAlpha:      1.0,
	}
}

// Validate rejects parameter combinations that cannot describe a coherent
// evaluation regardless of series length.
func (p Params) Validate() error {
	if len(p.Horizons) == 0 {
		return fmt.Errorf("protocol params: at least one horizon required")
	}
	for _, h := range p.Horizons {
		if h < 1 {
			return fmt.Errorf("protocol params: horizon %d is not a positive hour count", h)
		}
	}
	if p.LagOrder < 1 {
		return fmt.Errorf("protocol params: lag order %d must be >= 1", p.LagOrder)
	}
	if p.SmoothingWindow < 1 {
		return fmt.Errorf("protocol params: smoothing window %d must be >= 1", p.SmoothingWindow)
	}
	if p.TrainFraction <= 0 || p.TrainFraction >= 1 {
		return fmt.Errorf("protocol params: train fraction %g must be in (0, 1)", p.TrainFraction)
	}
	if p.WarmupHours < 1 {
		return fmt.Errorf("protocol params: warmup %d must be >= 1", p.WarmupHours)
	}
	if p.StepHours < 1 {
		return fmt.Errorf("protocol params: step %d must be >= 1", p.StepHours)
	}
	if p.RidgeAlpha < 0 {
		return fmt.Errorf("protocol params: ridge alpha %g must be >= 0", p.RidgeAlpha)
	}
	return nil
}

func maxHorizon(horizons []int) int {
	max := 0
	for _, h := range horizons {
		if h > max {
			max = h
		}
	}
	return max
}

// Protocol is a validation strategy: it scores one forecasting setup
// against the persistence baseline across a horizon set. The two
// implementations share all model machinery and differ only in what data
// may influence training.
type Protocol interface {
	Name() string
	Evaluate(ctx context.Context, series Series, params Params) (HorizonRecords, error)
}
