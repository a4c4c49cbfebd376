package models

import (
	"testing"
)

func TestBenchmarkSpec_ApplyDefaults(t *testing.T) {
	var spec BenchmarkSpec
	spec.ApplyDefaults()

	if spec.SeriesHours != 17520 {
		t.Errorf("SeriesHours = %d, want 17520", spec.SeriesHours)
	}
	if len(spec.Horizons) != 6 || spec.Horizons[0] != 1 || spec.Horizons[5] != 72 {
		t.Errorf("Horizons = %v, want [1 6 12 24 48 72]", spec.Horizons)
	}
	if spec.LagOrder != 24 || spec.SmoothingWindow != 24 {
		t.Errorf("LagOrder/SmoothingWindow = %d/%d, want 24/24", spec.LagOrder, spec.SmoothingWindow)
	}
	if spec.TrainFraction != 0.75 {
		t.Errorf("TrainFraction = %v, want 0.75", spec.TrainFraction)
	}
	if spec.WarmupHours != 8760 || spec.StepHours != 168 {
		t.Errorf("WarmupHours/StepHours = %d/%d, want 8760/168", spec.WarmupHours, spec.StepHours)
	}
	if spec.RidgeAlpha != 1.0 {
		t.Errorf("RidgeAlpha = %v, want 1.0", spec.RidgeAlpha)
	}

	// Explicit values survive defaulting.
	spec = BenchmarkSpec{SeriesHours: 5000, Seed: 7}
	spec.ApplyDefaults()
	if spec.SeriesHours != 5000 || spec.Seed != 7 {
		t.Errorf("explicit values overwritten: %d/%d", spec.SeriesHours, spec.Seed)
	}
}

func TestBenchmarkSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BenchmarkSpec)
		wantErr bool
	}{
		{"defaults are valid", func(s *BenchmarkSpec) {}, false},
		{"zero series hours", func(s *BenchmarkSpec) { s.SeriesHours = -1 }, true},
		{"no horizons", func(s *BenchmarkSpec) { s.Horizons = []int{} }, true},
		{"negative horizon", func(s *BenchmarkSpec) { s.Horizons = []int{1, -6} }, true},
		{"zero lag order", func(s *BenchmarkSpec) { s.LagOrder = -1 }, true},
		{"train fraction one", func(s *BenchmarkSpec) { s.TrainFraction = 1 }, true},
		{"negative ridge alpha", func(s *BenchmarkSpec) { s.RidgeAlpha = -0.5 }, true},
		{"negative parallelism", func(s *BenchmarkSpec) { s.Parallelism = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec BenchmarkSpec
			spec.ApplyDefaults()
			tt.mutate(&spec)

			err := spec.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr {
				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestBuildHorizonComparisons(t *testing.T) {
	static := []HorizonSkill{
		{HorizonHours: 1, RMSE: 1.1, Skill: 0.5},
		{HorizonHours: 6, RMSE: 2.2, Skill: 0.3},
	}
	rolling := []HorizonSkill{
		{HorizonHours: 1, RMSE: 3.3, Skill: -0.1},
		{HorizonHours: 12, RMSE: 4.4, Skill: -0.4},
	}

	got := BuildHorizonComparisons(static, rolling)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	// Sorted by horizon, union of both sides.
	if got[0].HorizonHours != 1 || got[1].HorizonHours != 6 || got[2].HorizonHours != 12 {
		t.Fatalf("horizons = [%d %d %d], want [1 6 12]", got[0].HorizonHours, got[1].HorizonHours, got[2].HorizonHours)
	}

	if got[0].StaticRMSE == nil || *got[0].StaticRMSE != 1.1 {
		t.Error("horizon 1 static RMSE missing or wrong")
	}
	if got[0].RollingSkill == nil || *got[0].RollingSkill != -0.1 {
		t.Error("horizon 1 rolling skill missing or wrong")
	}

	// One-sided horizons carry nils on the absent side.
	if got[1].RollingRMSE != nil || got[1].RollingSkill != nil {
		t.Error("horizon 6 should have no rolling scores")
	}
	if got[2].StaticRMSE != nil || got[2].StaticSkill != nil {
		t.Error("horizon 12 should have no static scores")
	}

	// Skill inflation is relative improvement of static over rolling:
	// (0.5 / -0.1 - 1) * 100 = -600.
	if got[0].SkillInflationPct == nil {
		t.Fatal("horizon 1 should carry a skill inflation percentage")
	}
	if diff := *got[0].SkillInflationPct + 600; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("horizon 1 inflation = %v, want -600", *got[0].SkillInflationPct)
	}

	// Inflation is undefined when one side is missing.
	if got[1].SkillInflationPct != nil || got[2].SkillInflationPct != nil {
		t.Error("one-sided horizons should have nil inflation")
	}
}

func TestBuildHorizonComparisons_ZeroRollingSkill(t *testing.T) {
	static := []HorizonSkill{{HorizonHours: 1, RMSE: 1, Skill: 0.5}}
	rolling := []HorizonSkill{{HorizonHours: 1, RMSE: 2, Skill: 0}}

	got := BuildHorizonComparisons(static, rolling)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].SkillInflationPct != nil {
		t.Errorf("inflation = %v, want nil for zero rolling skill", *got[0].SkillInflationPct)
	}
}

func TestBuildHorizonComparisons_Empty(t *testing.T) {
	if got := BuildHorizonComparisons(nil, nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestHStarInflationPct(t *testing.T) {
	got := HStarInflationPct(72, 24)
	if got == nil {
		t.Fatal("expected a value for non-zero rolling limit")
	}
	if *got != 200 {
		t.Errorf("inflation = %v, want 200", *got)
	}

	got = HStarInflationPct(24, 24)
	if got == nil || *got != 0 {
		t.Errorf("inflation = %v, want 0", got)
	}

	if got := HStarInflationPct(72, 0); got != nil {
		t.Errorf("inflation = %v, want nil for zero rolling limit", *got)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "seed", Value: "x", Message: "bad seed"}
	if err.Error() != "bad seed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad seed")
	}
	if err.IsTransient() {
		t.Error("IsTransient() should be false")
	}
}
