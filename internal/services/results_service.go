package services

import (
	"context"

	"predictability-platform/internal/models"
	"predictability-platform/internal/repository"
	"predictability-platform/pkg/logging"
)

// ResultsService provides read access to stored benchmark results
type ResultsService struct {
	repo   repository.BenchmarkRepository
	logger *logging.StructuredLogger
}

// NewResultsService creates a new results service
func NewResultsService(repo repository.BenchmarkRepository, logger *logging.StructuredLogger) *ResultsService {
	return &ResultsService{
		repo:   repo,
		logger: logger,
	}
}

// ListRuns retrieves benchmark runs with filtering and pagination
func (s *ResultsService) ListRuns(ctx context.Context, filter repository.RunFilter) ([]*models.BenchmarkRun, int, error) {
	return s.repo.ListRuns(ctx, filter)
}

// GetComparison reconstructs the full comparison for a stored run
func (s *ResultsService) GetComparison(ctx context.Context, runID string) (*models.BenchmarkComparison, error) {
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	skills, err := s.repo.GetHorizonSkills(ctx, runID)
	if err != nil {
		return nil, err
	}

	var static, rolling []models.HorizonSkill
	for _, hs := range skills {
		switch hs.Protocol {
		case "static_leaky":
			static = append(static, *hs)
		case "rolling_causal":
			rolling = append(rolling, *hs)
		}
	}

	return &models.BenchmarkComparison{
		Run:          *run,
		Horizons:     models.BuildHorizonComparisons(static, rolling),
		InflationPct: models.HStarInflationPct(run.StaticHStar, run.RollingHStar),
	}, nil
}

// HealthCheck verifies the underlying storage is reachable
func (s *ResultsService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
