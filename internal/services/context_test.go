package services_test

import (
	"context"
	"testing"

	"podforge/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithProjectID(ctx, 42)
	ctx = services.WithStage(ctx, "transcription")
	ctx = services.WithJob(ctx, "summary")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.ProjectIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("project id = %d, %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcription" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if job, ok := services.JobFromContext(ctx); !ok || job != "summary" {
		t.Fatalf("job = %q, %v", job, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-1" {
		t.Fatalf("request id = %q, %v", rid, ok)
	}
}

func TestContextEmpty(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.ProjectIDFromContext(ctx); ok {
		t.Fatal("expected no project id")
	}
	if _, ok := services.StageFromContext(services.WithStage(ctx, "")); ok {
		t.Fatal("empty stage should not be stored")
	}
}
