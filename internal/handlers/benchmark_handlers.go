package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"predictability-platform/internal/models"
	"predictability-platform/internal/repository"
	"predictability-platform/internal/services"
	"predictability-platform/pkg/logging"
	"predictability-platform/pkg/metrics"
)

// BenchmarkHandler handles benchmark API endpoints
type BenchmarkHandler struct {
	benchmarkService *services.BenchmarkService
	resultsService   *services.ResultsService
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewBenchmarkHandler creates a new benchmark handler
func NewBenchmarkHandler(
	benchmarkService *services.BenchmarkService,
	resultsService *services.ResultsService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *BenchmarkHandler {
	return &BenchmarkHandler{
		benchmarkService: benchmarkService,
		resultsService:   resultsService,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// CreateRun handles POST /api/benchmark/runs
func (h *BenchmarkHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/benchmark/runs").Observe(duration.Seconds())
	}()

	var spec models.BenchmarkSpec
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			h.sendError(w, r, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	comparison, err := h.benchmarkService.Run(ctx, spec)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			h.sendError(w, r, vErr.Message, http.StatusBadRequest)
			return
		}
		h.logger.Error(ctx, "[API_CREATE_RUN_ERROR] Benchmark run failed", logging.Fields{
			"series_hours": spec.SeriesHours,
			"seed":         spec.Seed,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/benchmark/runs")
		h.sendError(w, r, "benchmark run failed", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/benchmark/runs", "POST", "201")
	h.sendJSON(w, comparison, http.StatusCreated)
}

// ListRuns handles GET /api/benchmark/runs
func (h *BenchmarkHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/benchmark/runs").Observe(duration.Seconds())
	}()

	seedStr := r.URL.Query().Get("seed")
	seriesHoursStr := r.URL.Query().Get("series_hours")
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	// Default pagination
	page := 1
	limit := 100

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	offset := (page - 1) * limit

	filter := repository.RunFilter{
		Limit:  limit,
		Offset: offset,
	}

	if seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			h.sendError(w, r, "invalid seed, expected integer", http.StatusBadRequest)
			return
		}
		filter.Seed = &seed
	}

	if seriesHoursStr != "" {
		hours, err := strconv.Atoi(seriesHoursStr)
		if err != nil || hours < 1 {
			h.sendError(w, r, "invalid series_hours, expected positive integer", http.StatusBadRequest)
			return
		}
		filter.SeriesHours = &hours
	}

	runs, total, err := h.resultsService.ListRuns(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_RUNS_ERROR] Failed to list runs", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/benchmark/runs")
		h.sendError(w, r, "failed to retrieve benchmark runs", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       runs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/benchmark/runs", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetRun handles GET /api/benchmark/runs/{run_id}
func (h *BenchmarkHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/benchmark/runs/{run_id}").Observe(duration.Seconds())
	}()

	runID := mux.Vars(r)["run_id"]

	comparison, err := h.resultsService.GetComparison(ctx, runID)
	if err != nil {
		var nfErr *repository.NotFoundError
		if errors.As(err, &nfErr) {
			h.sendError(w, r, nfErr.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "[API_GET_RUN_ERROR] Failed to get run", logging.Fields{
			"run_id": runID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/benchmark/runs/{run_id}")
		h.sendError(w, r, "failed to retrieve benchmark run", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/benchmark/runs/{run_id}", "GET", "200")
	h.sendJSON(w, comparison, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *BenchmarkHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.resultsService != nil {
		if err := h.resultsService.HealthCheck(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			h.sendJSON(w, status, http.StatusServiceUnavailable)
			return
		}
		status["database"] = "ok"
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// sendJSON sends a JSON response
func (h *BenchmarkHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *BenchmarkHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all benchmark API routes
func (h *BenchmarkHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/benchmark/runs", h.CreateRun).Methods("POST")
	router.HandleFunc("/api/benchmark/runs", h.ListRuns).Methods("GET")
	router.HandleFunc("/api/benchmark/runs/{run_id}", h.GetRun).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
