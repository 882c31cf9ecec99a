package retry

import (
	"context"
	"log/slog"

	"podforge/internal/jobs"
	"podforge/internal/logging"
	"podforge/internal/plan"
	"podforge/internal/project"
	"podforge/internal/services"
	"podforge/internal/store"
)

// Coordinator validates and enqueues retry requests on behalf of users.
type Coordinator struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCoordinator constructs the request-side retry service.
func NewCoordinator(st *store.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		store:  st,
		logger: logging.NewComponentLogger(logger, "retry"),
	}
}

// RetryJob queues a regeneration of one failed or unsatisfying job. The
// caller must own the project; the job must be one the project's original
// plan could have produced.
func (c *Coordinator) RetryJob(ctx context.Context, userID string, currentPlan plan.Tier, projectID int64, job jobs.Name) error {
	if !jobs.Known(job) {
		return services.Wrap(services.ErrValidation, "retry", "retry job", "unknown job "+string(job), nil)
	}
	p, err := c.loadOwned(ctx, userID, projectID, "retry job")
	if err != nil {
		return err
	}
	if p.Transcript == nil {
		return services.Wrap(services.ErrValidation, "retry", "retry job", "project has no transcript yet", nil)
	}

	// Inference can undershoot when the job being retried is exactly the one
	// that failed, so the caller's current plan also grants access.
	originalPlan := p.InferOriginalPlan()
	if !entitledToJob(originalPlan, job) && !entitledToJob(currentPlan, job) {
		return services.Wrap(services.ErrEntitlement, "retry", "retry job",
			"job "+string(job)+" is not part of the "+string(originalPlan)+" plan this project was processed under", nil)
	}

	if _, err := c.store.EnqueueRetry(ctx, store.RetryRequest{
		ProjectID:    projectID,
		Job:          job,
		UserID:       userID,
		OriginalPlan: originalPlan,
		CurrentPlan:  currentPlan,
	}); err != nil {
		return services.Wrap(services.ErrInfrastructure, "retry", "retry job", "enqueue retry request", err)
	}

	c.logger.Info("retry queued",
		logging.Int64("project_id", projectID),
		logging.String("job", string(job)),
		logging.String("original_plan", string(originalPlan)),
	)
	return nil
}

// GenerateMissingFeatures queues every job the caller's current plan is
// entitled to whose content slot is still empty. Used after a plan upgrade
// to backfill content without re-running the whole pipeline. Returns the
// jobs queued.
func (c *Coordinator) GenerateMissingFeatures(ctx context.Context, userID string, currentPlan plan.Tier, projectID int64) ([]jobs.Name, error) {
	p, err := c.loadOwned(ctx, userID, projectID, "generate missing")
	if err != nil {
		return nil, err
	}
	if p.Transcript == nil {
		return nil, services.Wrap(services.ErrValidation, "retry", "generate missing", "project has no transcript yet", nil)
	}

	pending, err := c.store.PendingRetryJobs(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrInfrastructure, "retry", "generate missing", "list pending retries", err)
	}
	queued := make(map[jobs.Name]bool, len(pending))
	for _, job := range pending {
		queued[job] = true
	}

	originalPlan := p.InferOriginalPlan()
	var missing []jobs.Name
	for _, job := range jobs.ForTier(currentPlan) {
		if p.Content.Has(job) || queued[job] {
			continue
		}
		missing = append(missing, job)
	}
	if len(missing) == 0 {
		return nil, services.Wrap(services.ErrEntitlement, "retry", "generate missing",
			"no missing features for the "+string(currentPlan)+" plan", nil)
	}

	for _, job := range missing {
		if _, err := c.store.EnqueueRetry(ctx, store.RetryRequest{
			ProjectID:    projectID,
			Job:          job,
			UserID:       userID,
			OriginalPlan: originalPlan,
			CurrentPlan:  currentPlan,
		}); err != nil {
			return nil, services.Wrap(services.ErrInfrastructure, "retry", "generate missing", "enqueue retry request", err)
		}
	}

	c.logger.Info("missing features queued",
		logging.Int64("project_id", projectID),
		logging.Int("jobs", len(missing)),
		logging.String("current_plan", string(currentPlan)),
	)
	return missing, nil
}

func (c *Coordinator) loadOwned(ctx context.Context, userID string, projectID int64, operation string) (*project.Project, error) {
	p, err := c.store.GetByID(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrInfrastructure, "retry", operation, "load project", err)
	}
	if p == nil || p.Deleted() {
		return nil, services.Wrap(services.ErrNotFound, "retry", operation, "project not found", nil)
	}
	if !p.OwnedBy(userID) {
		return nil, services.Wrap(services.ErrAuthorization, "retry", operation, "project belongs to another user", nil)
	}
	return p, nil
}

func entitledToJob(tier plan.Tier, job jobs.Name) bool {
	for _, name := range jobs.ForTier(tier) {
		if name == job {
			return true
		}
	}
	return false
}
