package forecast

import (
	"context"
	"errors"
	"testing"
)

func rollingTestParams() Params {
	return Params{
		Horizons:        []int{1, 6},
		LagOrder:        8,
		SmoothingWindow: 8,
		TrainFraction:   0.75,
		WarmupHours:     400,
		StepHours:       50,
		RidgeAlpha:      1.0,
		Parallelism:     2,
	}
}

func TestRollingOriginProtocol_Name(t *testing.T) {
	if got := NewRollingOriginProtocol(testLogger()).Name(); got != "rolling_causal" {
		t.Errorf("Name() = %q, want %q", got, "rolling_causal")
	}
}

func TestRollingOriginProtocol_Evaluate(t *testing.T) {
	series := GenerateSyntheticPM10(1000, 42)
	p := NewRollingOriginProtocol(testLogger())

	records, err := p.Evaluate(context.Background(), series, rollingTestParams())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// Origins at 400, 450, ..., 950 with max horizon 6: twelve origins,
	// and every origin can score both horizons.
	for _, h := range []int{1, 6} {
		rec, ok := records[h]
		if !ok {
			t.Fatalf("missing horizon %d", h)
		}
		if rec.Samples != 12 {
			t.Errorf("horizon %d Samples = %d, want 12", h, rec.Samples)
		}
		if rec.RMSE < 0 {
			t.Errorf("horizon %d RMSE = %v, want non-negative", h, rec.RMSE)
		}
	}
}

func TestRollingOriginProtocol_DeterministicAcrossParallelism(t *testing.T) {
	series := GenerateSyntheticPM10(1000, 42)
	p := NewRollingOriginProtocol(testLogger())

	serial := rollingTestParams()
	serial.Parallelism = 1
	parallel := rollingTestParams()
	parallel.Parallelism = 4

	a, err := p.Evaluate(context.Background(), series, serial)
	if err != nil {
		t.Fatalf("serial evaluation failed: %v", err)
	}
	b, err := p.Evaluate(context.Background(), series, parallel)
	if err != nil {
		t.Fatalf("parallel evaluation failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("record counts differ: %d vs %d", len(a), len(b))
	}
	for h, recA := range a {
		if recA != b[h] {
			t.Errorf("horizon %d differs between parallelism levels: %+v vs %+v", h, recA, b[h])
		}
	}
}

func TestForecastFromOrigin_CausalForecast(t *testing.T) {
	// The forecast must be a pure function of the prefix before the
	// origin: rewriting everything from the origin onward cannot move it.
	series := GenerateSyntheticPM10(600, 42)
	params := rollingTestParams()
	origin := 450

	base, err := forecastFromOrigin(series.Values, origin, params)
	if err != nil {
		t.Fatalf("base forecast failed: %v", err)
	}

	perturbed := append([]float64(nil), series.Values...)
	for i := origin; i < len(perturbed); i++ {
		perturbed[i] += 1000
	}

	got, err := forecastFromOrigin(perturbed, origin, params)
	if err != nil {
		t.Fatalf("perturbed forecast failed: %v", err)
	}

	if got.forecast != base.forecast {
		t.Errorf("forecast moved from %v to %v after rewriting the future", base.forecast, got.forecast)
	}
}

func TestForecastFromOrigin_SkipsOutOfRangeHorizons(t *testing.T) {
	series := GenerateSyntheticPM10(460, 42)
	params := rollingTestParams()

	// Origin 450 leaves room for horizon 6 (index 455) but not much more.
	of, err := forecastFromOrigin(series.Values, 450, params)
	if err != nil {
		t.Fatalf("forecast failed: %v", err)
	}

	if _, ok := of.rmse[1]; !ok {
		t.Error("horizon 1 should be scored")
	}
	if _, ok := of.rmse[6]; !ok {
		t.Error("horizon 6 should be scored")
	}

	params.Horizons = []int{20}
	of, err = forecastFromOrigin(series.Values, 450, params)
	if err != nil {
		t.Fatalf("forecast failed: %v", err)
	}
	if len(of.rmse) != 0 {
		t.Errorf("horizon 20 runs past the series end, got scores %v", of.rmse)
	}
}

func TestRollingOriginProtocol_NoUsableOrigins(t *testing.T) {
	// Warmup swallows the whole series: an empty result, not an error.
	series := GenerateSyntheticPM10(300, 42)
	p := NewRollingOriginProtocol(testLogger())

	records, err := p.Evaluate(context.Background(), series, rollingTestParams())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v, want empty", records)
	}
}

func TestRollingOriginProtocol_WarmupBelowLagOrder(t *testing.T) {
	series := GenerateSyntheticPM10(1000, 42)
	params := rollingTestParams()
	params.WarmupHours = params.LagOrder

	p := NewRollingOriginProtocol(testLogger())
	_, err := p.Evaluate(context.Background(), series, params)
	if err == nil {
		t.Fatal("expected error for warmup at or below lag order")
	}

	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %T, want *InsufficientDataError", err)
	}
}

func TestRollingOriginProtocol_CancelledContext(t *testing.T) {
	series := GenerateSyntheticPM10(1000, 42)
	p := NewRollingOriginProtocol(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Evaluate(ctx, series, rollingTestParams()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
