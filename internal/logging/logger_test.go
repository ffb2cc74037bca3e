package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		json   bool
	}{
		{"json", "json", true},
		{"console", "console", false},
		{"auto on a buffer", "auto", true},
		{"empty on a buffer", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Options{Level: "info", Format: tt.format, Writer: &buf})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			logger.Info("layer added", "id", 3)

			var rec map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &rec) == nil
			if isJSON != tt.json {
				t.Errorf("Expected json=%v, got output %q", tt.json, buf.String())
			}
			if !strings.Contains(buf.String(), "layer added") {
				t.Errorf("Expected message in output, got %q", buf.String())
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.level); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}

	var buf bytes.Buffer
	logger, _ := New(Options{Level: "warn", Format: "json", Writer: &buf})
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %q", buf.String())
	}
}
