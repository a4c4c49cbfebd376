package models

import (
	"fmt"
	"sort"
	"time"
)

// BenchmarkSpec holds the parameters for a single benchmark run.
// Zero values are filled in by ApplyDefaults before validation.
type BenchmarkSpec struct {
	SeriesHours     int     `json:"series_hours"`
	Seed            int64   `json:"seed"`
	Horizons        []int   `json:"horizons"`
	LagOrder        int     `json:"lag_order"`
	SmoothingWindow int     `json:"smoothing_window"`
	TrainFraction   float64 `json:"train_fraction"`
	WarmupHours     int     `json:"warmup_hours"`
	StepHours       int     `json:"step_hours"`
	RidgeAlpha      float64 `json:"ridge_alpha"`
	SkillThreshold  float64 `json:"skill_threshold"`
	Parallelism     int     `json:"parallelism"`
	Persist         bool    `json:"persist"`
}

// ApplyDefaults fills unset fields with standard benchmark settings
func (s *BenchmarkSpec) ApplyDefaults() {
	if s.SeriesHours == 0 {
		s.SeriesHours = 17520
	}
	if len(s.Horizons) == 0 {
		s.Horizons = []int{1, 6, 12, 24, 48, 72}
	}
	if s.LagOrder == 0 {
		s.LagOrder = 24
	}
	if s.SmoothingWindow == 0 {
		s.SmoothingWindow = 24
	}
	if s.TrainFraction == 0 {
		s.TrainFraction = 0.75
	}
	if s.WarmupHours == 0 {
		s.WarmupHours = 8760
	}
	if s.StepHours == 0 {
		s.StepHours = 168
	}
	if s.RidgeAlpha == 0 {
		s.RidgeAlpha = 1.0
	}
}

// Validate checks the spec for values that cannot produce a meaningful run
func (s *BenchmarkSpec) Validate() error {
	if s.SeriesHours < 1 {
		return &ValidationError{Field: "series_hours", Value: fmt.Sprintf("%d", s.SeriesHours), Message: "series_hours must be positive"}
	}
	if len(s.Horizons) == 0 {
		return &ValidationError{Field: "horizons", Value: "", Message: "at least one horizon is required"}
	}
	for _, h := range s.Horizons {
		if h < 1 {
			return &ValidationError{Field: "horizons", Value: fmt.Sprintf("%d", h), Message: "horizons must be positive"}
		}
	}
	if s.LagOrder < 1 {
		return &ValidationError{Field: "lag_order", Value: fmt.Sprintf("%d", s.LagOrder), Message: "lag_order must be positive"}
	}
	if s.SmoothingWindow < 1 {
		return &ValidationError{Field: "smoothing_window", Value: fmt.Sprintf("%d", s.SmoothingWindow), Message: "smoothing_window must be positive"}
	}
	if s.TrainFraction <= 0 || s.TrainFraction >= 1 {
		return &ValidationError{Field: "train_fraction", Value: fmt.Sprintf("%g", s.TrainFraction), Message: "train_fraction must be in (0, 1)"}
	}
	if s.WarmupHours < 1 {
		return &ValidationError{Field: "warmup_hours", Value: fmt.Sprintf("%d", s.WarmupHours), Message: "warmup_hours must be positive"}
	}
	if s.StepHours < 1 {
		return &ValidationError{Field: "step_hours", Value: fmt.Sprintf("%d", s.StepHours), Message: "step_hours must be positive"}
	}
	if s.RidgeAlpha < 0 {
		return &ValidationError{Field: "ridge_alpha", Value: fmt.Sprintf("%g", s.RidgeAlpha), Message: "ridge_alpha must be non-negative"}
	}
	if s.Parallelism < 0 {
		return &ValidationError{Field: "parallelism", Value: fmt.Sprintf("%d", s.Parallelism), Message: "parallelism must be non-negative"}
	}
	return nil
}

// BenchmarkRun is a completed benchmark with its headline results
type BenchmarkRun struct {
	RunID           string    `json:"run_id" db:"run_id"`
	SeriesHours     int       `json:"series_hours" db:"series_hours"`
	Seed            int64     `json:"seed" db:"seed"`
	LagOrder        int       `json:"lag_order" db:"lag_order"`
	SmoothingWindow int       `json:"smoothing_window" db:"smoothing_window"`
	TrainFraction   float64   `json:"train_fraction" db:"train_fraction"`
	WarmupHours     int       `json:"warmup_hours" db:"warmup_hours"`
	StepHours       int       `json:"step_hours" db:"step_hours"`
	RidgeAlpha      float64   `json:"ridge_alpha" db:"ridge_alpha"`
	SkillThreshold  float64   `json:"skill_threshold" db:"skill_threshold"`
	StaticHStar     int       `json:"static_hstar" db:"static_hstar"`
	RollingHStar    int       `json:"rolling_hstar" db:"rolling_hstar"`
	DurationMS      int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// HorizonSkill is the scored result for one protocol at one horizon
type HorizonSkill struct {
	ID           int64     `json:"id" db:"id"`
	RunID        string    `json:"run_id" db:"run_id"`
	Protocol     string    `json:"protocol" db:"protocol"`
	HorizonHours int       `json:"horizon_hours" db:"horizon_hours"`
	RMSE         float64   `json:"rmse" db:"rmse"`
	Skill        float64   `json:"skill" db:"skill"`
	Samples      int       `json:"samples" db:"samples"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HorizonComparison places the two protocols side by side at one horizon.
// Pointers are nil when a protocol produced no score for that horizon.
type HorizonComparison struct {
	HorizonHours      int      `json:"horizon_hours"`
	StaticRMSE        *float64 `json:"static_rmse,omitempty"`
	StaticSkill       *float64 `json:"static_skill,omitempty"`
	RollingRMSE       *float64 `json:"rolling_rmse,omitempty"`
	RollingSkill      *float64 `json:"rolling_skill,omitempty"`
	SkillInflationPct *float64 `json:"skill_inflation_pct,omitempty"`
}

// BenchmarkComparison is the full outcome of one run: both protocols
// scored per horizon plus the headline operational limits.
type BenchmarkComparison struct {
	Run          BenchmarkRun        `json:"run"`
	Horizons     []HorizonComparison `json:"horizons"`
	InflationPct *float64            `json:"inflation_pct,omitempty"`
}

// BuildHorizonComparisons merges per-protocol horizon scores into a single
// sorted comparison table. Horizons present in either protocol appear once.
func BuildHorizonComparisons(static, rolling []HorizonSkill) []HorizonComparison {
	byHorizon := make(map[int]*HorizonComparison)

	for i := range static {
		hs := static[i]
		c := ensureComparison(byHorizon, hs.HorizonHours)
		rmse, skill := hs.RMSE, hs.Skill
		c.StaticRMSE = &rmse
		c.StaticSkill = &skill
	}
	for i := range rolling {
		hs := rolling[i]
		c := ensureComparison(byHorizon, hs.HorizonHours)
		rmse, skill := hs.RMSE, hs.Skill
		c.RollingRMSE = &rmse
		c.RollingSkill = &skill
	}

	horizons := make([]int, 0, len(byHorizon))
	for h := range byHorizon {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)

	result := make([]HorizonComparison, 0, len(horizons))
	for _, h := range horizons {
		c := byHorizon[h]
		c.SkillInflationPct = skillInflationPct(c.StaticSkill, c.RollingSkill)
		result = append(result, *c)
	}
	return result
}

// skillInflationPct is (static/rolling - 1) * 100, defined only when both
// protocols scored the horizon and the rolling skill is nonzero.
func skillInflationPct(staticSkill, rollingSkill *float64) *float64 {
	if staticSkill == nil || rollingSkill == nil || *rollingSkill == 0 {
		return nil
	}
	pct := (*staticSkill / *rollingSkill - 1) * 100
	return &pct
}

func ensureComparison(byHorizon map[int]*HorizonComparison, horizon int) *HorizonComparison {
	if c, ok := byHorizon[horizon]; ok {
		return c
	}
	c := &HorizonComparison{HorizonHours: horizon}
	byHorizon[horizon] = c
	return c
}

// HStarInflationPct computes how much the static protocol inflates the
// operational limit relative to the rolling protocol, as a percentage.
// Returns nil when the rolling limit is zero.
func HStarInflationPct(staticHStar, rollingHStar int) *float64 {
	if rollingHStar == 0 {
		return nil
	}
	pct := (float64(staticHStar)/float64(rollingHStar) - 1) * 100
	return &pct
}
