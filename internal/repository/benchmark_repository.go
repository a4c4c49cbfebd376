package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"predictability-platform/internal/models"
	"predictability-platform/pkg/database"
	"predictability-platform/pkg/logging"
)

// BenchmarkRepository provides data access for benchmark runs and their
// per-horizon skill scores
type BenchmarkRepository interface {
	CreateRun(ctx context.Context, run *models.BenchmarkRun) error
	GetRun(ctx context.Context, runID string) (*models.BenchmarkRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*models.BenchmarkRun, int, error)

	UpsertHorizonSkills(ctx context.Context, skills []*models.HorizonSkill) error
	GetHorizonSkills(ctx context.Context, runID string) ([]*models.HorizonSkill, error)

	HealthCheck(ctx context.Context) error
}

// RunFilter defines filters for querying benchmark runs
type RunFilter struct {
	Seed        *int64
	SeriesHours *int
	Limit       int
	Offset      int
}

// benchmarkRepository implements BenchmarkRepository
type benchmarkRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewBenchmarkRepository creates a new benchmark repository
func NewBenchmarkRepository(db *database.PostgresDB, logger *logging.StructuredLogger) BenchmarkRepository {
	return &benchmarkRepository{
		db:     db,
		logger: logger,
	}
}

// CreateRun persists a completed benchmark run
func (r *benchmarkRepository) CreateRun(ctx context.Context, run *models.BenchmarkRun) error {
	query := `
		INSERT INTO benchmark_runs (
			run_id, series_hours, seed,
			lag_order, smoothing_window, train_fraction,
			warmup_hours, step_hours, ridge_alpha, skill_threshold,
			static_hstar, rolling_hstar, duration_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, "insert_run", query,
		run.RunID,
		run.SeriesHours,
		run.Seed,
		run.LagOrder,
		run.SmoothingWindow,
		run.TrainFraction,
		run.WarmupHours,
		run.StepHours,
		run.RidgeAlpha,
		run.SkillThreshold,
		run.StaticHStar,
		run.RollingHStar,
		run.DurationMS,
		run.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create benchmark run: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CREATE_RUN] Benchmark run persisted", logging.Fields{
		"run_id":        run.RunID,
		"static_hstar":  run.StaticHStar,
		"rolling_hstar": run.RollingHStar,
	})

	return nil
}

// GetRun retrieves a benchmark run by ID
func (r *benchmarkRepository) GetRun(ctx context.Context, runID string) (*models.BenchmarkRun, error) {
	query := `
		SELECT run_id, series_hours, seed,
		       lag_order, smoothing_window, train_fraction,
		       warmup_hours, step_hours, ridge_alpha, skill_threshold,
		       static_hstar, rolling_hstar, duration_ms, created_at
		FROM benchmark_runs
		WHERE run_id = $1
	`

	var run models.BenchmarkRun
	err := r.db.GetContext(ctx, "get_run", &run, query, runID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "benchmark_run",
			ID:       runID,
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark run: %w", err)
	}

	return &run, nil
}

// ListRuns retrieves benchmark runs with filtering and pagination
func (r *benchmarkRepository) ListRuns(ctx context.Context, filter RunFilter) ([]*models.BenchmarkRun, int, error) {
	query := `
		SELECT run_id, series_hours, seed,
		       lag_order, smoothing_window, train_fraction,
		       warmup_hours, step_hours, ridge_alpha, skill_threshold,
		       static_hstar, rolling_hstar, duration_ms, created_at
		FROM benchmark_runs
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Seed != nil {
		query += fmt.Sprintf(" AND seed = $%d", argNum)
		args = append(args, *filter.Seed)
		argNum++
	}

	if filter.SeriesHours != nil {
		query += fmt.Sprintf(" AND series_hours = $%d", argNum)
		args = append(args, *filter.SeriesHours)
		argNum++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_runs", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count benchmark runs: %w", err)
	}

	// Add ordering and pagination
	query += " ORDER BY created_at DESC, run_id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var runs []*models.BenchmarkRun
	err = r.db.SelectContext(ctx, "list_runs", &runs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list benchmark runs: %w", err)
	}

	return runs, totalCount, nil
}

// UpsertHorizonSkills persists per-horizon scores in a single transaction
func (r *benchmarkRepository) UpsertHorizonSkills(ctx context.Context, skills []*models.HorizonSkill) error {
	if len(skills) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.logger.Debug(ctx, "[REPO_UPSERT_SKILLS] Horizon skills persisted", logging.Fields{
			"count":       len(skills),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO horizon_skills (
			run_id, protocol, horizon_hours, rmse, skill, samples, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, protocol, horizon_hours) DO UPDATE SET
			rmse = EXCLUDED.rmse,
			skill = EXCLUDED.skill,
			samples = EXCLUDED.samples
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, hs := range skills {
		_, err := stmt.ExecContext(ctx,
			hs.RunID,
			hs.Protocol,
			hs.HorizonHours,
			hs.RMSE,
			hs.Skill,
			hs.Samples,
			hs.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert horizon skill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetHorizonSkills retrieves all per-horizon scores for a run
func (r *benchmarkRepository) GetHorizonSkills(ctx context.Context, runID string) ([]*models.HorizonSkill, error) {
	query := `
		SELECT id, run_id, protocol, horizon_hours, rmse, skill, samples, created_at
		FROM horizon_skills
		WHERE run_id = $1
		ORDER BY protocol, horizon_hours
	`

	var skills []*models.HorizonSkill
	err := r.db.SelectContext(ctx, "get_horizon_skills", &skills, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get horizon skills: %w", err)
	}

	return skills, nil
}

// HealthCheck performs a repository health check
func (r *benchmarkRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
