package generation

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"podforge/internal/jobs"
	"podforge/internal/logging"
	"podforge/internal/project"
	"podforge/internal/services"
)

// Outcome is the settled partition of one generation pass: every requested
// job lands in exactly one of the two maps.
type Outcome struct {
	Content project.Content
	Errors  map[jobs.Name]string
}

// Stage runs the content generation phase of the pipeline.
type Stage struct {
	gens        *Generators
	concurrency int
	logger      *slog.Logger
}

// NewStage constructs the generation stage. Concurrency bounds how many
// jobs run at once; values below one run the full set unbounded.
func NewStage(gens *Generators, concurrency int, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		gens:        gens,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "generation"),
	}
}

// Execute runs the requested jobs concurrently against the project's
// transcript. Each job settles independently: a failure is recorded in the
// outcome's error map and never cancels a sibling or fails the stage. The
// only error Execute itself returns is a missing transcript, which no job
// can survive.
func (s *Stage) Execute(ctx context.Context, p *project.Project, requested []jobs.Name) (Outcome, error) {
	outcome := Outcome{Errors: make(map[jobs.Name]string)}
	if p.Transcript == nil {
		return outcome, services.Wrap(services.ErrFatalStage, "generation", "execute", "project has no transcript", nil)
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("starting generation fan-out", logging.Int("jobs", len(requested)))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		group.SetLimit(s.concurrency)
	}

	for _, job := range requested {
		job := job
		group.Go(func() error {
			value, err := s.gens.Run(groupCtx, job, p.Transcript)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("generation job failed",
					logging.String("job", string(job)),
					logging.Error(err),
				)
				outcome.Errors[job] = services.Message(err)
				return nil
			}
			if setErr := outcome.Content.Set(job, value); setErr != nil {
				outcome.Errors[job] = services.Message(setErr)
				return nil
			}
			log.Info("generation job completed", logging.String("job", string(job)))
			return nil
		})
	}

	// Workers never return errors, so Wait only reflects context state.
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return outcome, services.Wrap(services.ErrTransient, "generation", "execute", "generation interrupted", err)
	}

	log.Info("generation fan-out settled",
		logging.Int("succeeded", len(requested)-len(outcome.Errors)),
		logging.Int("failed", len(outcome.Errors)),
	)
	return outcome, nil
}

// RunJob executes a single job for the retry path. The result is returned
// rather than merged so the caller controls how stored state is updated.
func (s *Stage) RunJob(ctx context.Context, p *project.Project, job jobs.Name) (any, error) {
	if p.Transcript == nil {
		return nil, services.Wrap(services.ErrFatalStage, "generation", "retry", "project has no transcript", nil)
	}
	return s.gens.Run(ctx, job, p.Transcript)
}
