package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"podforge/internal/config"
	"podforge/internal/generation"
	"podforge/internal/logging"
	"podforge/internal/retry"
	"podforge/internal/services"
	"podforge/internal/store"
	"podforge/internal/transcription"
)

// Manager coordinates pipeline and retry processing against the store.
type Manager struct {
	cfg           *config.Config
	store         *store.Store
	logger        *slog.Logger
	transcription *transcription.Stage
	generation    *generation.Stage
	retries       *retry.Executor

	pollInterval       time.Duration
	errorRetryInterval time.Duration
	maxAttempts        int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager constructs a workflow manager.
func NewManager(
	cfg *config.Config,
	st *store.Store,
	transcriptionStage *transcription.Stage,
	generationStage *generation.Stage,
	retryExecutor *retry.Executor,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxAttempts := cfg.Workflow.MaxPipelineAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Manager{
		cfg:                cfg,
		store:              st,
		logger:             logging.NewComponentLogger(logger, "workflow"),
		transcription:      transcriptionStage,
		generation:         generationStage,
		retries:            retryExecutor,
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		maxAttempts:        maxAttempts,
	}
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	m.wg.Add(2)
	go m.runPipelineLane(runCtx)
	go m.runRetryLane(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) runPipelineLane(ctx context.Context) {
	defer m.wg.Done()
	logger := m.logger.With(logging.String("lane", "pipeline"))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p, err := m.store.NextForPipeline(ctx)
		if err != nil {
			logger.Error("failed to fetch next project", logging.Error(err))
			m.sleep(ctx, m.errorRetryInterval)
			continue
		}
		if p == nil {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		if err := m.ProcessProject(ctx, p); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("pipeline run failed",
				logging.Int64("project_id", p.ID),
				logging.Error(err),
			)
			m.sleep(ctx, m.errorRetryInterval)
		}
	}
}

func (m *Manager) runRetryLane(ctx context.Context) {
	defer m.wg.Done()
	logger := m.logger.With(logging.String("lane", "retry"))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, err := m.store.NextRetry(ctx)
		if err != nil {
			logger.Error("failed to fetch next retry", logging.Error(err))
			m.sleep(ctx, m.errorRetryInterval)
			continue
		}
		if req == nil {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		if err := m.retries.Execute(ctx, req); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// The request stays queued: deferrals wait for the pipeline
			// run to settle, and a store outage does not eat the request.
			if errors.Is(err, services.ErrTransient) {
				logger.Info("retry deferred",
					logging.Int64("project_id", req.ProjectID),
					logging.Error(err),
				)
			} else {
				logger.Error("retry run failed",
					logging.Int64("project_id", req.ProjectID),
					logging.Error(err),
				)
			}
			m.sleep(ctx, m.errorRetryInterval)
			continue
		}

		if err := m.store.RemoveRetry(ctx, req.ID); err != nil {
			logger.Error("failed to dequeue retry", logging.Error(err))
			m.sleep(ctx, m.errorRetryInterval)
		}
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
