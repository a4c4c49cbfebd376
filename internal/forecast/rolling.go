package forecast

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"predictability-platform/pkg/logging"
)

// RollingOriginProtocol is the causally constrained validation. It walks a
// fixed-step sequence of forecast origins; at each origin the smoothing
// transform, the standardizer and the model are derived from the series
// prefix strictly before the origin. Origins are independent, so they run
// as a bounded parallel map over the read-only series.
type RollingOriginProtocol struct {
	logger *logging.StructuredLogger
}

// NewRollingOriginProtocol creates the rolling-origin causal protocol.
func NewRollingOriginProtocol(logger *logging.StructuredLogger) *RollingOriginProtocol {
	return &RollingOriginProtocol{logger: logger}
}

// Name identifies the protocol in results and persistence.
func (p *RollingOriginProtocol) Name() string {
	return "rolling_causal"
}

// originForecast holds the outcome of one origin: the (horizon
// independent) model forecast plus per-horizon scores against truth and
// persistence.
type originForecast struct {
	origin     int
	forecast   float64
	degenerate bool
	rmse       map[int]float64
	skill      map[int]float64
}

// Evaluate runs every origin and aggregates per horizon by arithmetic mean
// over the origins that produced a sample. An empty origin sequence yields
// an empty record set, not an error.
func (p *RollingOriginProtocol) Evaluate(ctx context.Context, series Series, params Params) (HorizonRecords, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	if params.WarmupHours <= params.LagOrder {
		return nil, &InsufficientDataError{Op: "rolling protocol", Need: params.LagOrder + 1, Have: params.WarmupHours}
	}

	var origins []int
	for o := params.WarmupHours; o < n-maxHorizon(params.Horizons); o += params.StepHours {
		origins = append(origins, o)
	}

	if len(origins) == 0 {
		p.logger.Info(ctx, "[ROLLING_EMPTY] Warmup window leaves no usable origins", logging.Fields{
			"series_hours": n,
			"warmup_hours": params.WarmupHours,
			"max_horizon":  maxHorizon(params.Horizons),
		})
		return HorizonRecords{}, nil
	}

	limit := params.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if limit > len(origins) {
		limit = len(origins)
	}

	// Each origin writes only its own slot, so the merge needs no locks
	// and the aggregation order is deterministic.
	results := make([]originForecast, len(origins))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, origin := range origins {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			of, err := forecastFromOrigin(series.Values, origin, params)
			if err != nil {
				return fmt.Errorf("origin %d: %w", origin, err)
			}
			results[i] = of
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rolling protocol: %w", err)
	}

	degenerate := 0
	rmseByH := map[int][]float64{}
	skillByH := map[int][]float64{}
	for _, of := range results {
		if of.degenerate {
			degenerate++
		}
		for h, v := range of.rmse {
			rmseByH[h] = append(rmseByH[h], v)
			skillByH[h] = append(skillByH[h], of.skill[h])
		}
	}

	if degenerate > 0 {
		p.logger.Warn(ctx, "[ROLLING_DEGENERATE_SCALE] Zero-variance training prefixes, scale substituted with 1", logging.Fields{
			"origin_count": degenerate,
		})
	}

	records := HorizonRecords{}
	for h, rmses := range rmseByH {
		meanRMSE, err := stats.Mean(rmses)
		if err != nil {
			continue
		}
		meanSkill, err := stats.Mean(skillByH[h])
		if err != nil {
			continue
		}
		records[h] = SkillRecord{
			RMSE:    meanRMSE,
			Skill:   meanSkill,
			Samples: len(rmses),
		}
	}

	p.logger.Debug(ctx, "[ROLLING_EVAL] Rolling protocol evaluated", logging.Fields{
		"series_hours":    n,
		"origin_count":    len(origins),
		"parallelism":     limit,
		"horizons_scored": len(records),
	})

	return records, nil
}

// forecastFromOrigin trains and forecasts from one origin. The forecast is
// a pure function of values[:origin]; indices at or beyond the origin are
// touched only to score the forecast against truth.
func forecastFromOrigin(values []float64, origin int, params Params) (originForecast, error) {
	smoothed := CausalSmooth(values[:origin], params.SmoothingWindow)

	lm, err := BuildLaggedMatrix(smoothed, params.LagOrder)
	if err != nil {
		return originForecast{}, err
	}

	model := NewRidge(params.RidgeAlpha)
	if err := model.Fit(lm.X, lm.Y); err != nil {
		return originForecast{}, err
	}

	row := lagRow(smoothed, params.LagOrder, lm.Scaler)
	predScaled, err := model.Predict(row)
	if err != nil {
		return originForecast{}, err
	}
	pred := lm.Scaler.Invert(predScaled)

	of := originForecast{
		origin:     origin,
		forecast:   pred,
		degenerate: lm.Scaler.Degenerate,
		rmse:       map[int]float64{},
		skill:      map[int]float64{},
	}

	persist := values[origin-1]
	for _, h := range params.Horizons {
		if origin+h >= len(values) {
			continue
		}

		truth := values[origin+h-1]
		errModel := (pred - truth) * (pred - truth)
		errPersist := (persist - truth) * (persist - truth)

		of.rmse[h] = math.Sqrt(errModel)
		of.skill[h] = SkillScore(errModel, errPersist)
	}

	return of, nil
}
