package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func capture(level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	logger := NewStructuredLogger("test-service", "1.2.3", level)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	return logger, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v: %s", err, buf.String())
	}
	return entry
}

func TestStructuredLogger_InfoEntry(t *testing.T) {
	logger, buf := capture(DebugLevel)

	logger.Info(context.Background(), "something happened", Fields{"count": 3})

	entry := decode(t, buf)
	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", entry.Level)
	}
	if entry.Service != "test-service" || entry.Version != "1.2.3" {
		t.Errorf("Service/Version = %q/%q", entry.Service, entry.Version)
	}
	if entry.Message != "something happened" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("Fields[count] = %v, want 3", entry.Fields["count"])
	}
	if entry.File != "" {
		t.Error("info entries should not carry caller information")
	}
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := capture(WarnLevel)

	logger.Debug(context.Background(), "dropped", nil)
	logger.Info(context.Background(), "dropped", nil)
	if buf.Len() != 0 {
		t.Fatalf("below-threshold entries were written: %s", buf.String())
	}

	logger.Warn(context.Background(), "kept", nil)
	if buf.Len() == 0 {
		t.Error("warn entry should be written at warn level")
	}
}

func TestStructuredLogger_ErrorCarriesCallerAndError(t *testing.T) {
	logger, buf := capture(DebugLevel)

	logger.Error(context.Background(), "it broke", nil, errors.New("boom"))

	entry := decode(t, buf)
	if entry.Error != "boom" {
		t.Errorf("Error = %q, want boom", entry.Error)
	}
	if entry.File == "" || entry.Line == 0 {
		t.Error("error entries should carry caller information")
	}
}

func TestStructuredLogger_RunIDFromContext(t *testing.T) {
	logger, buf := capture(DebugLevel)

	ctx := WithRunID(context.Background(), "run-abc")
	logger.Info(ctx, "with run", nil)

	entry := decode(t, buf)
	if entry.RunID != "run-abc" {
		t.Errorf("RunID = %q, want run-abc", entry.RunID)
	}
}

func TestContextLogger_MergesFields(t *testing.T) {
	logger, buf := capture(DebugLevel)

	logger.WithFields(Fields{"component": "smoother", "shared": "base"}).
		Info(context.Background(), "merged", Fields{"shared": "override", "extra": 1})

	entry := decode(t, buf)
	if entry.Fields["component"] != "smoother" {
		t.Errorf("Fields[component] = %v", entry.Fields["component"])
	}
	if entry.Fields["shared"] != "override" {
		t.Errorf("Fields[shared] = %v, want call-site value", entry.Fields["shared"])
	}
	if entry.Fields["extra"] != float64(1) {
		t.Errorf("Fields[extra] = %v", entry.Fields["extra"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
