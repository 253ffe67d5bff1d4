package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "debug", config.GraylogConfig{})

	logger.Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("file output missing message: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("file output missing field: %q", out)
	}
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got := LogFilePath("/var/log/carte", start)
	if !strings.Contains(got, "carte.20240315_103000.log") {
		t.Errorf("unexpected path: %s", got)
	}
}

func TestDispatcherLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	dl := NewDispatcherLogger(logger)

	dl.Error("something failed", "command", ":EXPORT:", "attempt", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["level"] != "error" {
		t.Errorf("expected level error, got %v", entry["level"])
	}
	if entry["message"] != "something failed" {
		t.Errorf("expected message, got %v", entry["message"])
	}
	if entry["command"] != ":EXPORT:" {
		t.Errorf("expected command field, got %v", entry["command"])
	}
	if entry["attempt"] != float64(2) {
		t.Errorf("expected attempt=2, got %v", entry["attempt"])
	}
}

func TestDispatcherLoggerOddPairs(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf))

	// trailing key without value is dropped, not panicked on
	dl.Info("msg", "k1", "v1", "dangling")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["k1"] != "v1" {
		t.Errorf("expected k1=v1, got %v", entry["k1"])
	}
	if _, ok := entry["dangling"]; ok {
		t.Error("dangling key should be dropped")
	}
}
