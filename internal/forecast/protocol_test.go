package forecast

import (
	"context"
	"io"
	"testing"

	"predictability-platform/pkg/logging"
)

func testLogger() *logging.StructuredLogger {
	logger := logging.NewStructuredLogger("test", "0.0.0", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	return logger
}

// TestProtocolComparison_ReferenceRun exercises both protocols on the
// reference two-year series and checks the headline property: the leaky
// static split never reports a shorter predictability limit than the
// causal rolling evaluation.
func TestProtocolComparison_ReferenceRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-length comparison in short mode")
	}

	series := GenerateSyntheticPM10(17520, 42)
	params := DefaultParams()
	ctx := context.Background()

	static := NewStaticLeakyProtocol(testLogger())
	staticRecords, err := static.Evaluate(ctx, series, params)
	if err != nil {
		t.Fatalf("static evaluation failed: %v", err)
	}

	rolling := NewRollingOriginProtocol(testLogger())
	rollingRecords, err := rolling.Evaluate(ctx, series, params)
	if err != nil {
		t.Fatalf("rolling evaluation failed: %v", err)
	}

	for _, h := range params.Horizons {
		if _, ok := staticRecords[h]; !ok {
			t.Errorf("static records missing horizon %d", h)
		}
		if _, ok := rollingRecords[h]; !ok {
			t.Errorf("rolling records missing horizon %d", h)
		}
	}

	for h, rec := range staticRecords {
		if rec.Samples != 1 {
			t.Errorf("static horizon %d Samples = %d, want 1", h, rec.Samples)
		}
		if rec.RMSE < 0 {
			t.Errorf("static horizon %d RMSE = %v, want non-negative", h, rec.RMSE)
		}
	}

	// Origins run from 8760 to 17328 in steps of 168.
	for h, rec := range rollingRecords {
		if rec.Samples != 52 {
			t.Errorf("rolling horizon %d Samples = %d, want 52", h, rec.Samples)
		}
	}

	staticHStar := HStar(staticRecords, 0)
	rollingHStar := HStar(rollingRecords, 0)
	if staticHStar < rollingHStar {
		t.Errorf("static H* = %d below rolling H* = %d; the leaky protocol should not look worse",
			staticHStar, rollingHStar)
	}
}
