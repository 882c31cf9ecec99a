package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"podforge/internal/logging"
	"podforge/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	handler := logging.NewTestConsoleHandler(&buf)
	logger := slog.New(handler).With(logging.String(logging.FieldComponent, "workflow-manager"))

	logger.Info("stage started", logging.String("processing_status", "transcribing"))

	out := buf.String()
	if !strings.Contains(out, "workflow-manager: stage started") {
		t.Fatalf("missing component prefix: %q", out)
	}
	if !strings.Contains(out, "processing_status=transcribing") {
		t.Fatalf("missing attr: %q", out)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewTestConsoleHandler(&buf))

	ctx := services.WithProjectID(context.Background(), 7)
	ctx = services.WithStage(ctx, "generation")
	ctx = services.WithJob(ctx, "hashtags")

	logging.WithContext(ctx, logger).Info("job settled")

	out := buf.String()
	for _, want := range []string{"project_id=7", "stage=generation", "job=hashtags"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled at every level")
	}
}
