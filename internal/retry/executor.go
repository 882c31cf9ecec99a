package retry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"podforge/internal/generation"
	"podforge/internal/logging"
	"podforge/internal/services"
	"podforge/internal/store"
)

// Executor runs queued retry requests against the generation stage.
type Executor struct {
	store  *store.Store
	stage  *generation.Stage
	logger *slog.Logger
}

// NewExecutor constructs the daemon-side retry runner.
func NewExecutor(st *store.Store, stage *generation.Stage, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		store:  st,
		stage:  stage,
		logger: logging.NewComponentLogger(logger, "retry"),
	}
}

// Execute re-runs one generation job and merges the result into the stored
// project. Success overwrites the job's content slot and clears only that
// job's error entry; failure overwrites only that job's error entry. Both
// outcomes persist as single-column patches so a concurrent writer of the
// same row is never clobbered. A request for a project that no longer
// exists is dropped without error; a project still in the pipeline defers
// the request until its run settles.
func (e *Executor) Execute(ctx context.Context, req *store.RetryRequest) error {
	ctx = services.WithProjectID(ctx, req.ProjectID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	log := e.logger.With(
		logging.Int64("project_id", req.ProjectID),
		logging.String("job", string(req.Job)),
	)

	p, err := e.store.GetByID(ctx, req.ProjectID)
	if err != nil {
		return services.Wrap(services.ErrInfrastructure, "retry", "execute", "load project", err)
	}
	if p == nil || p.Deleted() {
		log.Info("dropping retry for missing project")
		return nil
	}
	if !p.OwnedBy(req.UserID) {
		log.Warn("dropping retry from non-owner")
		return nil
	}
	// The pipeline lane writes full rows while a run is in flight. Defer
	// until the project settles so the two lanes never race on one row.
	if !p.Status.IsTerminal() {
		log.Info("deferring retry, pipeline run in flight", logging.String("status", string(p.Status)))
		return services.Wrap(services.ErrTransient, "retry", "execute", "project pipeline still running", nil)
	}

	value, runErr := e.stage.RunJob(ctx, p, req.Job)
	if runErr == nil {
		runErr = p.Content.Set(req.Job, value)
	}
	if runErr != nil {
		log.Warn("retry run failed", logging.Error(runErr))
		if err := e.store.SaveJobError(ctx, p.ID, req.Job, services.Message(runErr)); err != nil {
			return services.Wrap(services.ErrInfrastructure, "retry", "execute", "persist retry failure", err)
		}
		return nil
	}

	payload, err := p.Content.MarshalSlot(req.Job)
	if err != nil {
		return services.Wrap(services.ErrInfrastructure, "retry", "execute", "encode retry result", err)
	}
	if err := e.store.SaveJobContent(ctx, p.ID, req.Job, payload); err != nil {
		return services.Wrap(services.ErrInfrastructure, "retry", "execute", "persist retry result", err)
	}
	log.Info("retry run succeeded")
	return nil
}
