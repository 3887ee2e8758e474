package telemetry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Info("request.complete", map[string]any{"status": 200, "path": "/analyze"})
	Error("model.failed", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/analyze" {
		t.Fatalf("unexpected path field: %v", fields["path"])
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[1].Level)
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", entries[1].ContextMap()["error"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
