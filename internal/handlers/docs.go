package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Predictability Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Predictability Platform API",
			"description": "Benchmark service comparing static and rolling-origin validation protocols for PM10 forecast horizon limits",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Predictability Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/benchmark/runs": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Run a benchmark",
					"description": "Generate a synthetic PM10 series, evaluate both validation protocols, and return the horizon comparison",
					"requestBody": map[string]interface{}{
						"required": false,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"series_hours":     map[string]interface{}{"type": "integer", "default": 17520},
										"seed":             map[string]interface{}{"type": "integer", "default": 42},
										"horizons":         map[string]interface{}{"type": "array", "items": map[string]string{"type": "integer"}},
										"lag_order":        map[string]interface{}{"type": "integer", "default": 24},
										"smoothing_window": map[string]interface{}{"type": "integer", "default": 24},
										"train_fraction":   map[string]interface{}{"type": "number", "default": 0.75},
										"warmup_hours":     map[string]interface{}{"type": "integer", "default": 8760},
										"step_hours":       map[string]interface{}{"type": "integer", "default": 168},
										"ridge_alpha":      map[string]interface{}{"type": "number", "default": 1.0},
										"skill_threshold":  map[string]interface{}{"type": "number", "default": 0.0},
										"parallelism":      map[string]interface{}{"type": "integer", "default": 0},
										"persist":          map[string]interface{}{"type": "boolean", "default": false},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"201": map[string]interface{}{
							"description": "Benchmark completed",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"run": map[string]interface{}{
												"type": "object",
												"properties": map[string]interface{}{
													"run_id":        map[string]string{"type": "string", "format": "uuid"},
													"series_hours":  map[string]string{"type": "integer"},
													"seed":          map[string]string{"type": "integer"},
													"static_hstar":  map[string]string{"type": "integer"},
													"rolling_hstar": map[string]string{"type": "integer"},
													"duration_ms":   map[string]string{"type": "integer"},
													"created_at":    map[string]string{"type": "string", "format": "date-time"},
												},
											},
											"horizons": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"horizon_hours":       map[string]string{"type": "integer"},
														"static_rmse":         map[string]interface{}{"type": "number", "nullable": true},
														"static_skill":        map[string]interface{}{"type": "number", "nullable": true},
														"rolling_rmse":        map[string]interface{}{"type": "number", "nullable": true},
														"rolling_skill":       map[string]interface{}{"type": "number", "nullable": true},
														"skill_inflation_pct": map[string]interface{}{"type": "number", "nullable": true},
													},
												},
											},
											"inflation_pct": map[string]interface{}{"type": "number", "nullable": true},
										},
									},
								},
							},
						},
						"400": map[string]interface{}{
							"description": "Invalid benchmark parameters",
						},
					},
				},
				"get": map[string]interface{}{
					"summary":     "List benchmark runs",
					"description": "Retrieve stored benchmark runs with filtering and pagination",
					"parameters": []map[string]interface{}{
						{
							"name":        "seed",
							"in":          "query",
							"description": "Filter by generator seed",
							"required":    false,
							"schema":      map[string]string{"type": "integer"},
						},
						{
							"name":        "series_hours",
							"in":          "query",
							"description": "Filter by series length in hours",
							"required":    false,
							"schema":      map[string]string{"type": "integer"},
						},
						{
							"name":        "page",
							"in":          "query",
							"description": "Page number (default: 1)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
						{
							"name":        "limit",
							"in":          "query",
							"description": "Records per page (default: 100)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 100},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"run_id":        map[string]string{"type": "string", "format": "uuid"},
														"series_hours":  map[string]string{"type": "integer"},
														"seed":          map[string]string{"type": "integer"},
														"static_hstar":  map[string]string{"type": "integer"},
														"rolling_hstar": map[string]string{"type": "integer"},
														"duration_ms":   map[string]string{"type": "integer"},
														"created_at":    map[string]string{"type": "string", "format": "date-time"},
													},
												},
											},
											"total":       map[string]string{"type": "integer"},
											"page":        map[string]string{"type": "integer"},
											"limit":       map[string]string{"type": "integer"},
											"total_pages": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/benchmark/runs/{run_id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get a benchmark run",
					"description": "Retrieve a stored run with its full horizon comparison",
					"parameters": []map[string]interface{}{
						{
							"name":     "run_id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string", "format": "uuid"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
						},
						"404": map[string]interface{}{
							"description": "Run not found",
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its storage are running",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
