package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", "  error ", slog.LevelError},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.envValue)
			if level := getLogLevelFromEnv(); level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestRunID(t *testing.T) {
	t.Run("generate run ID", func(t *testing.T) {
		id1 := GenerateRunID()
		id2 := GenerateRunID()
		if id1 == id2 {
			t.Error("GenerateRunID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateRunID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("context round trip", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-1")
		if got := GetRunID(ctx); got != "run-1" {
			t.Errorf("GetRunID() = %q, want %q", got, "run-1")
		}
	})

	t.Run("empty context", func(t *testing.T) {
		if got := GetRunID(context.Background()); got != "" {
			t.Errorf("GetRunID() = %q, want empty string", got)
		}
	})

	t.Run("auto-generate", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "")
		if got := GetRunID(ctx); len(got) != 16 {
			t.Errorf("auto-generated run ID has wrong length: %q", got)
		}
	})
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug, "json")
	ctx := WithRunID(context.Background(), "run-123")

	tests := []struct {
		name  string
		log   func()
		level string
		check func(t *testing.T, entry map[string]any)
	}{
		{
			name:  "info",
			log:   func() { logger.Info(ctx, "tick", "tick", 3) },
			level: "INFO",
			check: func(t *testing.T, entry map[string]any) {
				if entry["tick"] != float64(3) {
					t.Errorf("tick = %v, want 3", entry["tick"])
				}
			},
		},
		{
			name:  "error",
			log:   func() { logger.Error(ctx, "load failed", errors.New("boom"), "path", "scene.yaml") },
			level: "ERROR",
			check: func(t *testing.T, entry map[string]any) {
				if entry["error"] != "boom" {
					t.Errorf("error = %v, want boom", entry["error"])
				}
			},
		},
		{name: "debug", log: func() { logger.Debug(ctx, "view") }, level: "DEBUG"},
		{name: "warn", log: func() { logger.Warn(ctx, "slow frame") }, level: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decodeEntry(t, &buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %v", entry["level"], tt.level)
			}
			if entry["run_id"] != "run-123" {
				t.Errorf("run_id = %v, want run-123", entry["run_id"])
			}
			if tt.check != nil {
				tt.check(t, entry)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo, "json").Component("engine")

	logger.Info(context.Background(), "started")

	entry := decodeEntry(t, &buf)
	if entry["component"] != "engine" {
		t.Errorf("component = %v, want engine", entry["component"])
	}
	if _, ok := entry["run_id"]; ok {
		t.Error("run_id should be absent without a run ID in the context")
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo, "TEXT")

	logger.Info(context.Background(), "hello", "body", 1)

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "body=1") {
		t.Errorf("unexpected text output %q", out)
	}
}

func TestDiscard(t *testing.T) {
	// must not panic or write anywhere
	Discard().Error(context.Background(), "ignored", errors.New("x"))
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "loading %s", "scene.json")
	if wrapped.Error() != "loading scene.json: original error" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapError() should preserve original error")
	}
}

func TestMain(m *testing.M) {
	os.Unsetenv(FormatEnv)
	os.Exit(m.Run())
}
