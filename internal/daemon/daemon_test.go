package daemon_test

import (
	"context"
	"testing"

	"podforge/internal/config"
	"podforge/internal/daemon"
	"podforge/internal/generation"
	"podforge/internal/retry"
	"podforge/internal/services/assemblyai"
	"podforge/internal/store"
	"podforge/internal/testsupport"
	"podforge/internal/transcription"
	"podforge/internal/workflow"
)

type noopProvider struct{}

func (noopProvider) Transcribe(context.Context, string) (*assemblyai.Transcript, error) {
	return &assemblyai.Transcript{Status: "completed", Text: "hello"}, nil
}

type noopChat struct{}

func (noopChat) CompleteJSON(context.Context, string, string) (string, error) {
	return "{}", nil
}

func newManager(cfg *config.Config, st *store.Store) *workflow.Manager {
	transcriptionStage := transcription.NewStage(noopProvider{}, nil)
	generationStage := generation.NewStage(generation.NewGenerators(noopChat{}), 1, nil)
	executor := retry.NewExecutor(st, generationStage, nil)
	return workflow.NewManager(cfg, st, transcriptionStage, generationStage, executor, nil)
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, st, newManager(cfg, st), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status, err := d.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.DatabasePath != st.Path() {
		t.Fatalf("database path = %q, want %q", status.DatabasePath, st.Path())
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status, err = d.Status(ctx)
	if err != nil {
		t.Fatalf("Status after stop: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockExcludesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	first, err := daemon.New(cfg, st, newManager(cfg, st), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(first.Stop)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second, err := daemon.New(cfg, st, newManager(cfg, st), nil)
	if err != nil {
		t.Fatalf("daemon.New second: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after release failed: %v", err)
	}
	second.Stop()
}
