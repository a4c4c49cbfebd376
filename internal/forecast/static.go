package forecast

import (
	"context"
	"fmt"
	"math"

	"predictability-platform/pkg/logging"
)

// StaticLeakyProtocol is the single-split validation with global
// preprocessing. The trailing mean is computed over the ENTIRE series
// before the train/test split, and the test feature row is taken from the
// smoothed test region itself, so future structure leaks into both
// training values near the boundary and the inference inputs. This is the
// deliberate contrast case, not a bug.
type StaticLeakyProtocol struct {
	logger *logging.StructuredLogger
}

// NewStaticLeakyProtocol creates the leaky single-split protocol.
func NewStaticLeakyProtocol(logger *logging.StructuredLogger) *StaticLeakyProtocol {
	return &StaticLeakyProtocol{logger: logger}
}

// Name identifies the protocol in results and persistence.
func (p *StaticLeakyProtocol) Name() string {
	return "static_leaky"
}

// Evaluate splits at floor(n * TrainFraction), fits one model on the
// globally smoothed training prefix and scores each horizon from that
// single origin. Horizons that would index past the series end are
// silently omitted.
func (p *StaticLeakyProtocol) Evaluate(ctx context.Context, series Series, params Params) (HorizonRecords, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	k := int(float64(n) * params.TrainFraction)
	if k <= params.LagOrder {
		return nil, &InsufficientDataError{Op: "static protocol", Need: params.LagOrder + 1, Have: k}
	}

	// The leak: smooth train and test together before splitting.
	smoothed := CausalSmooth(series.Values, params.SmoothingWindow)

	lm, err := BuildLaggedMatrix(smoothed[:k], params.LagOrder)
	if err != nil {
		return nil, fmt.Errorf("static protocol: %w", err)
	}
	if lm.Scaler.Degenerate {
		p.logger.Warn(ctx, "[STATIC_DEGENERATE_SCALE] Zero-variance training input, scale substituted with 1", logging.Fields{
			"split_index": k,
		})
	}

	model := NewRidge(params.RidgeAlpha)
	if err := model.Fit(lm.X, lm.Y); err != nil {
		return nil, fmt.Errorf("static protocol: %w", err)
	}

	records := HorizonRecords{}
	if k+params.LagOrder > n {
		// Not enough room past the split for even one feature row; every
		// horizon is out of range.
		return records, nil
	}

	// Feature row from the smoothed values at [k, k+p), most recent first,
	// standardized with the training scaler.
	row := lagRow(smoothed[:k+params.LagOrder], params.LagOrder, lm.Scaler)
	predScaled, err := model.Predict(row)
	if err != nil {
		return nil, fmt.Errorf("static protocol: %w", err)
	}
	pred := lm.Scaler.Invert(predScaled)

	persist := series.Values[k-1]
	dropped := 0
	for _, h := range params.Horizons {
		if k+params.LagOrder+h >= n {
			dropped++
			continue
		}

		truth := series.Values[k+h-1]
		errModel := (pred - truth) * (pred - truth)
		errPersist := (persist - truth) * (persist - truth)

		records[h] = SkillRecord{
			RMSE:    math.Sqrt(errModel),
			Skill:   SkillScore(errModel, errPersist),
			Samples: 1,
		}
	}

	p.logger.Debug(ctx, "[STATIC_EVAL] Static protocol evaluated", logging.Fields{
		"series_hours":     n,
		"split_index":      k,
		"horizons_scored":  len(records),
		"horizons_dropped": dropped,
	})

	return records, nil
}
