// Command podforged runs the podforge background daemon: it drains the
// project pipeline and the retry queue until interrupted.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"podforge/internal/config"
	"podforge/internal/daemon"
	"podforge/internal/generation"
	"podforge/internal/logging"
	"podforge/internal/retry"
	"podforge/internal/services/assemblyai"
	"podforge/internal/services/llm"
	"podforge/internal/store"
	"podforge/internal/transcription"
	"podforge/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateProviders(); err != nil {
		log.Fatalf("validate config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open project store", logging.Error(err))
		return
	}

	transcriber := assemblyai.NewClient(assemblyai.Config{
		APIKey:              cfg.Transcription.APIKey,
		BaseURL:             cfg.Transcription.BaseURL,
		PollIntervalSeconds: cfg.Transcription.PollIntervalSeconds,
		TimeoutSeconds:      cfg.Transcription.TimeoutSeconds,
	})
	chat := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	transcriptionStage := transcription.NewStage(transcriber, logger)
	generationStage := generation.NewStage(
		generation.NewGenerators(chat),
		cfg.Workflow.GenerationConcurrency,
		logger,
	)
	retryExecutor := retry.NewExecutor(st, generationStage, logger)
	manager := workflow.NewManager(cfg, st, transcriptionStage, generationStage, retryExecutor, logger)

	d, err := daemon.New(cfg, st, manager, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		st.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("podforged shutting down")
}
