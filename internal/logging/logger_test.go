package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"galleria/internal/services"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.With(String(FieldComponent, "quarantine")).Info("item activated", Int64("item_id", 7))

	line := buf.String()
	if !strings.Contains(line, "[quarantine]") {
		t.Fatalf("expected component tag in %q", line)
	}
	if !strings.Contains(line, "item activated") {
		t.Fatalf("expected message in %q", line)
	}
	if !strings.Contains(line, "item_id=7") {
		t.Fatalf("expected attr in %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below level, got %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestWithContextAddsItemAndTask(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithTask(services.WithItemID(context.Background(), 42), "quarantine")
	WithContext(ctx, logger).Info("processing")

	line := buf.String()
	if !strings.Contains(line, "item_id=42") || !strings.Contains(line, "task=quarantine") {
		t.Fatalf("expected context fields in %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled at every level")
	}
}
