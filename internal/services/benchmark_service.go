package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"predictability-platform/internal/forecast"
	"predictability-platform/internal/models"
	"predictability-platform/internal/repository"
	"predictability-platform/pkg/logging"
	"predictability-platform/pkg/metrics"
)

// BenchmarkService runs the static-vs-rolling validation benchmark end to end:
// generate the synthetic series, evaluate both protocols, compute the
// operational limits, and optionally persist the results.
type BenchmarkService struct {
	repo    repository.BenchmarkRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
	static  *forecast.StaticLeakyProtocol
	rolling *forecast.RollingOriginProtocol
}

// NewBenchmarkService creates a new benchmark service. The repository may be
// nil, in which case runs are never persisted regardless of the spec.
func NewBenchmarkService(repo repository.BenchmarkRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *BenchmarkService {
	return &BenchmarkService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
		static:  forecast.NewStaticLeakyProtocol(logger),
		rolling: forecast.NewRollingOriginProtocol(logger),
	}
}

// Run executes one benchmark described by spec
func (s *BenchmarkService) Run(ctx context.Context, spec models.BenchmarkSpec) (*models.BenchmarkComparison, error) {
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	startTime := time.Now()

	s.metrics.ActiveBenchmarks.Inc()
	defer s.metrics.ActiveBenchmarks.Dec()

	s.logger.Info(ctx, "[BENCHMARK_START] Starting benchmark run", logging.Fields{
		"run_id":       runID,
		"series_hours": spec.SeriesHours,
		"seed":         spec.Seed,
		"horizons":     spec.Horizons,
		"stage":        "INITIALIZATION",
	})

	series := forecast.GenerateSyntheticPM10(spec.SeriesHours, spec.Seed)

	params := forecast.Params{
		Horizons:        spec.Horizons,
		LagOrder:        spec.LagOrder,
		SmoothingWindow: spec.SmoothingWindow,
		TrainFraction:   spec.TrainFraction,
		WarmupHours:     spec.WarmupHours,
		StepHours:       spec.StepHours,
		RidgeAlpha:      spec.RidgeAlpha,
		Parallelism:     spec.Parallelism,
	}

	staticRecords, err := s.evaluateProtocol(ctx, s.static, series, params)
	if err != nil {
		s.metrics.RecordBenchmark("error", time.Since(startTime))
		return nil, fmt.Errorf("static protocol failed: %w", err)
	}

	rollingRecords, err := s.evaluateProtocol(ctx, s.rolling, series, params)
	if err != nil {
		s.metrics.RecordBenchmark("error", time.Since(startTime))
		return nil, fmt.Errorf("rolling protocol failed: %w", err)
	}

	if origins := maxSamples(rollingRecords); origins > 0 {
		s.metrics.OriginsPerRun.Observe(float64(origins))
	}

	staticHStar := forecast.HStar(staticRecords, spec.SkillThreshold)
	rollingHStar := forecast.HStar(rollingRecords, spec.SkillThreshold)

	s.metrics.RecordHStar(s.static.Name(), staticHStar)
	s.metrics.RecordHStar(s.rolling.Name(), rollingHStar)

	duration := time.Since(startTime)
	now := time.Now().UTC()

	run := models.BenchmarkRun{
		RunID:           runID,
		SeriesHours:     spec.SeriesHours,
		Seed:            spec.Seed,
		LagOrder:        spec.LagOrder,
		SmoothingWindow: spec.SmoothingWindow,
		TrainFraction:   spec.TrainFraction,
		WarmupHours:     spec.WarmupHours,
		StepHours:       spec.StepHours,
		RidgeAlpha:      spec.RidgeAlpha,
		SkillThreshold:  spec.SkillThreshold,
		StaticHStar:     staticHStar,
		RollingHStar:    rollingHStar,
		DurationMS:      duration.Milliseconds(),
		CreatedAt:       now,
	}

	staticSkills := recordsToSkills(runID, s.static.Name(), staticRecords, now)
	rollingSkills := recordsToSkills(runID, s.rolling.Name(), rollingRecords, now)

	comparison := &models.BenchmarkComparison{
		Run:          run,
		Horizons:     models.BuildHorizonComparisons(derefSkills(staticSkills), derefSkills(rollingSkills)),
		InflationPct: models.HStarInflationPct(staticHStar, rollingHStar),
	}

	if spec.Persist && s.repo != nil {
		if err := s.persistRun(ctx, &run, append(staticSkills, rollingSkills...)); err != nil {
			s.metrics.RecordBenchmark("persist_error", duration)
			return nil, err
		}
	}

	s.metrics.RecordBenchmark("success", duration)

	s.logger.Info(ctx, "[BENCHMARK_COMPLETE] Benchmark run completed", logging.Fields{
		"run_id":        runID,
		"static_hstar":  staticHStar,
		"rolling_hstar": rollingHStar,
		"duration_ms":   duration.Milliseconds(),
		"persisted":     spec.Persist && s.repo != nil,
		"stage":         "COMPLETE",
	})

	return comparison, nil
}

// evaluateProtocol runs one protocol and times it
func (s *BenchmarkService) evaluateProtocol(ctx context.Context, p forecast.Protocol, series forecast.Series, params forecast.Params) (forecast.HorizonRecords, error) {
	timer := time.Now()
	records, err := p.Evaluate(ctx, series, params)
	s.metrics.ProtocolRunDuration.WithLabelValues(p.Name()).Observe(time.Since(timer).Seconds())
	return records, err
}

// persistRun stores the run header and all per-horizon scores
func (s *BenchmarkService) persistRun(ctx context.Context, run *models.BenchmarkRun, skills []*models.HorizonSkill) error {
	if err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Error(ctx, "[BENCHMARK_PERSIST_ERROR] Failed to persist run", logging.Fields{
			"run_id": run.RunID,
			"stage":  "PERSISTENCE",
		}, err)
		return fmt.Errorf("failed to persist run: %w", err)
	}

	if err := s.repo.UpsertHorizonSkills(ctx, skills); err != nil {
		s.logger.Error(ctx, "[BENCHMARK_PERSIST_ERROR] Failed to persist horizon skills", logging.Fields{
			"run_id": run.RunID,
			"stage":  "PERSISTENCE",
		}, err)
		return fmt.Errorf("failed to persist horizon skills: %w", err)
	}

	return nil
}

// recordsToSkills flattens protocol output into persistable rows
func recordsToSkills(runID, protocol string, records forecast.HorizonRecords, createdAt time.Time) []*models.HorizonSkill {
	skills := make([]*models.HorizonSkill, 0, len(records))
	for _, h := range records.Horizons() {
		rec := records[h]
		skills = append(skills, &models.HorizonSkill{
			RunID:        runID,
			Protocol:     protocol,
			HorizonHours: h,
			RMSE:         rec.RMSE,
			Skill:        rec.Skill,
			Samples:      rec.Samples,
			CreatedAt:    createdAt,
		})
	}
	return skills
}

// maxSamples returns the largest per-horizon sample count, which for the
// rolling protocol is the number of contributing origins.
func maxSamples(records forecast.HorizonRecords) int {
	max := 0
	for _, h := range records.Horizons() {
		if records[h].Samples > max {
			max = records[h].Samples
		}
	}
	return max
}

func derefSkills(skills []*models.HorizonSkill) []models.HorizonSkill {
	out := make([]models.HorizonSkill, len(skills))
	for i, hs := range skills {
		out[i] = *hs
	}
	return out
}
