package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Database.MaxOpenConns = %d, want 25", cfg.Database.MaxOpenConns)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Benchmark.SeriesHours != 17520 {
		t.Errorf("Benchmark.SeriesHours = %d, want 17520", cfg.Benchmark.SeriesHours)
	}
	if cfg.Benchmark.Seed != 42 {
		t.Errorf("Benchmark.Seed = %d, want 42", cfg.Benchmark.Seed)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "bench_test")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BENCHMARK_SEED", "123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Database != "bench_test" {
		t.Errorf("Database.Database = %q, want bench_test", cfg.Database.Database)
	}
	if cfg.Database.ConnMaxLifetime != 90*time.Second {
		t.Errorf("Database.ConnMaxLifetime = %v, want 90s", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Benchmark.Seed != 123 {
		t.Errorf("Benchmark.Seed = %d, want 123", cfg.Benchmark.Seed)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Database.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("Database.ConnMaxLifetime = %v, want fallback 5m", cfg.Database.ConnMaxLifetime)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty db host", func(c *Config) { c.Database.Host = "" }},
		{"empty db name", func(c *Config) { c.Database.Database = "" }},
		{"zero max open conns", func(c *Config) { c.Database.MaxOpenConns = 0 }},
		{"zero series hours", func(c *Config) { c.Benchmark.SeriesHours = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
