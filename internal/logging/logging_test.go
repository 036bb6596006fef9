package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInitSetsDefaultLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(original)
	})

	Init(false)
	logger := slog.Default()
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("expected info to be disabled by default")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatalf("expected warn to be enabled by default")
	}

	Init(true)
	logger = slog.Default()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected debug to be enabled with verbose")
	}
}

func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Info("hidden")
	logger.Warn("parse error", slog.String("resource", "malformed"))

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Fatalf("expected info to be filtered, got %q", output)
	}
	if !strings.Contains(output, "resource=malformed") {
		t.Fatalf("expected warn attributes in output, got %q", output)
	}
}
