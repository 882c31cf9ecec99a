package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"podforge/internal/jobs"
	"podforge/internal/logging"
	"podforge/internal/project"
	"podforge/internal/services"
)

// ProcessProject drives one project through its remaining pipeline phases.
// Completed phases are skipped, so a re-claimed project resumes where it
// left off. A fatal stage error fails the project once the attempt budget
// is spent; before that the project stays in processing and the lane picks
// it up again.
func (m *Manager) ProcessProject(ctx context.Context, p *project.Project) error {
	ctx = services.WithProjectID(ctx, p.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	log := logging.WithContext(ctx, m.logger)

	p.Attempts++
	if p.Status == project.StatusUploaded {
		p.Status = project.StatusProcessing
	}
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "workflow", "claim project", "persist processing status", err)
	}
	log.Info("pipeline run started",
		logging.String("plan", string(p.Plan)),
		logging.Int("attempt", p.Attempts),
	)

	if p.JobStatus.Transcription != project.PhaseCompleted {
		if err := m.runTranscription(ctx, p); err != nil {
			return m.handleStageFailure(ctx, p, "transcription", err)
		}
	} else {
		log.Info("transcription already completed, skipping")
	}

	if p.JobStatus.ContentGeneration != project.PhaseCompleted {
		if err := m.runGeneration(ctx, p); err != nil {
			return m.handleStageFailure(ctx, p, "workflow", err)
		}
	} else {
		log.Info("generation already completed, skipping")
	}

	p.Status = project.StatusCompleted
	now := time.Now().UTC()
	p.CompletedAt = &now
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "workflow", "complete project", "persist completed status", err)
	}
	log.Info("pipeline run completed", logging.Int("job_errors", len(p.JobErrors)))
	return nil
}

func (m *Manager) runTranscription(ctx context.Context, p *project.Project) error {
	ctx = services.WithStage(ctx, "transcription")
	p.JobStatus.Transcription = project.PhaseRunning
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "transcription", "start", "persist running phase", err)
	}

	if err := m.transcription.Execute(ctx, p); err != nil {
		return err
	}

	p.JobStatus.Transcription = project.PhaseCompleted
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "transcription", "finish", "persist transcript", err)
	}
	return nil
}

func (m *Manager) runGeneration(ctx context.Context, p *project.Project) error {
	ctx = services.WithStage(ctx, "generation")
	p.JobStatus.ContentGeneration = project.PhaseRunning
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "generation", "start", "persist running phase", err)
	}

	outcome, err := m.generation.Execute(ctx, p, jobs.ForTier(p.Plan))
	if err != nil {
		return err
	}

	// A full pass replaces the whole error map; stale entries from an
	// earlier run must not survive a clean pass.
	p.Content.Merge(outcome.Content)
	if len(outcome.Errors) > 0 {
		p.JobErrors = outcome.Errors
	} else {
		p.JobErrors = nil
	}

	p.JobStatus.ContentGeneration = project.PhaseCompleted
	if err := m.store.Update(ctx, p); err != nil {
		return services.Wrap(services.ErrInfrastructure, "generation", "finish", "persist generated content", err)
	}
	return nil
}

// handleStageFailure records a fatal pipeline failure. While the attempt
// budget lasts, the project keeps its processing status and failed phase so
// the next lane pass retries it; once spent, the project is failed with a
// top-level error record.
func (m *Manager) handleStageFailure(ctx context.Context, p *project.Project, step string, err error) error {
	log := logging.WithContext(ctx, m.logger)

	if p.JobStatus.Transcription == project.PhaseRunning {
		p.JobStatus.Transcription = project.PhaseFailed
	}
	if p.JobStatus.ContentGeneration == project.PhaseRunning {
		p.JobStatus.ContentGeneration = project.PhaseFailed
	}

	if p.Attempts < m.maxAttempts {
		log.Warn("pipeline run failed, will retry",
			logging.Int("attempt", p.Attempts),
			logging.Int("max_attempts", m.maxAttempts),
			logging.Error(err),
		)
		if updateErr := m.store.Update(ctx, p); updateErr != nil {
			return services.Wrap(services.ErrInfrastructure, "workflow", "record failure", "persist failed phase", updateErr)
		}
		return err
	}

	p.SetFatalError(step, services.Message(err), "")
	if updateErr := m.store.Update(ctx, p); updateErr != nil {
		return services.Wrap(services.ErrInfrastructure, "workflow", "record failure", "persist fatal error", updateErr)
	}
	log.Error("pipeline run failed permanently",
		logging.String("step", step),
		logging.Int("attempts", p.Attempts),
		logging.Error(err),
	)
	return err
}
