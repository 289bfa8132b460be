package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := InitWriter(&buf, "debug", "json")

	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected debug level to be enabled")
	}
	log.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestInitWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	log := InitWriter(&buf, "warn", "text")

	log.Info("dropped")
	log.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "msg=kept") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	InitWriter(&bytes.Buffer{}, "info", "text")

	if FromContext(context.Background()) != L {
		t.Fatalf("expected global logger without a context logger")
	}

	custom := L.With("request_id", "12345")
	ctx := WithContext(context.Background(), custom)
	if FromContext(ctx) != custom {
		t.Fatalf("expected the stored logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Fatalf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
