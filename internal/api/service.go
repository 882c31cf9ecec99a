package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"podforge/internal/blob"
	"podforge/internal/logging"
	"podforge/internal/plan"
	"podforge/internal/project"
	"podforge/internal/services"
	"podforge/internal/store"
)

// maxDisplayNameLength bounds user-facing project names.
const maxDisplayNameLength = 200

// allowedAudioTypes is the upload MIME allow-list.
var allowedAudioTypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/x-m4a":  true,
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/aac":    true,
	"audio/ogg":    true,
	"audio/opus":   true,
	"audio/webm":   true,
	"audio/flac":   true,
	"audio/x-flac": true,
	"audio/3gpp":   true,
	"audio/3gpp2":  true,
}

// Service exposes project CRUD on top of the store.
type Service struct {
	store  *store.Store
	blobs  blob.Deleter
	logger *slog.Logger
}

// NewService constructs the project service. A nil deleter disables blob
// cleanup on delete.
func NewService(st *store.Store, blobs blob.Deleter, logger *slog.Logger) *Service {
	if blobs == nil {
		blobs = blob.NopDeleter{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  st,
		blobs:  blobs,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// CreateProjectInput carries the upload metadata for a new project.
type CreateProjectInput struct {
	UserID       string
	InputURL     string
	FileName     string
	DisplayName  string
	FileSize     int64
	FileDuration float64
	FileFormat   string
	MimeType     string
	Plan         plan.Tier
}

// CreateProject validates the upload against the caller's plan and inserts
// the project in the uploaded state for the pipeline to claim.
func (s *Service) CreateProject(ctx context.Context, input CreateProjectInput) (*project.Project, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "create project", "user id required", nil)
	}
	if strings.TrimSpace(input.InputURL) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "create project", "input url required", nil)
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "create project", "file name required", nil)
	}
	if input.FileSize <= 0 {
		return nil, services.Wrap(services.ErrValidation, "api", "create project", "file size required", nil)
	}
	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if !allowedAudioTypes[mimeType] {
		return nil, services.Wrap(services.ErrValidation, "api", "create project", "unsupported audio type "+mimeType, nil)
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if len(displayName) > maxDisplayNameLength {
		return nil, services.Wrap(services.ErrValidation, "api", "create project",
			fmt.Sprintf("display name exceeds %d characters", maxDisplayNameLength), nil)
	}
	if displayName == "" {
		displayName = deriveDisplayName(input.FileName)
	}

	if err := s.checkPlanLimits(ctx, input); err != nil {
		return nil, err
	}

	p, err := s.store.CreateProject(ctx, &project.Project{
		UserID:       input.UserID,
		InputURL:     input.InputURL,
		FileName:     input.FileName,
		DisplayName:  displayName,
		FileSize:     input.FileSize,
		FileDuration: input.FileDuration,
		FileFormat:   input.FileFormat,
		MimeType:     mimeType,
		Plan:         input.Plan,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrInfrastructure, "api", "create project", "insert project", err)
	}

	s.logger.Info("project created",
		logging.Int64("project_id", p.ID),
		logging.String("plan", string(p.Plan)),
		logging.Int64("file_size", p.FileSize),
	)
	return p, nil
}

func (s *Service) checkPlanLimits(ctx context.Context, input CreateProjectInput) error {
	limits := plan.LimitsFor(input.Plan)

	if limits.MaxProjects != plan.Unlimited {
		count, err := s.store.CountByUser(ctx, input.UserID, plan.CountsDeletedProjects(input.Plan))
		if err != nil {
			return services.Wrap(services.ErrInfrastructure, "api", "create project", "count projects", err)
		}
		if count >= limits.MaxProjects {
			return services.Wrap(services.ErrEntitlement, "api", "create project",
				fmt.Sprintf("project limit of %d reached for the %s plan", limits.MaxProjects, input.Plan), nil)
		}
	}
	if limits.MaxFileSize != plan.Unlimited && input.FileSize > limits.MaxFileSize {
		return services.Wrap(services.ErrEntitlement, "api", "create project",
			fmt.Sprintf("file exceeds the %s plan size limit", input.Plan), nil)
	}
	if limits.MaxDuration != plan.Unlimited && input.FileDuration > float64(limits.MaxDuration) {
		return services.Wrap(services.ErrEntitlement, "api", "create project",
			fmt.Sprintf("audio exceeds the %s plan duration limit", input.Plan), nil)
	}
	return nil
}

// GetProject returns a project the caller owns.
func (s *Service) GetProject(ctx context.Context, userID string, id int64) (*project.Project, error) {
	return s.loadOwned(ctx, userID, id, "get project")
}

// ListProjects returns the caller's projects newest first. A limit of zero
// or less returns everything.
func (s *Service) ListProjects(ctx context.Context, userID string, limit, offset int) ([]*project.Project, error) {
	projects, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, services.Wrap(services.ErrInfrastructure, "api", "list projects", "list projects", err)
	}
	return projects, nil
}

// DeleteProject soft-deletes a project the caller owns and removes the
// uploaded audio from blob storage. Blob cleanup is best-effort; the stored
// input URL is returned so a caller can re-attempt cleanup.
func (s *Service) DeleteProject(ctx context.Context, userID string, id int64) (string, error) {
	p, err := s.loadOwned(ctx, userID, id, "delete project")
	if err != nil {
		return "", err
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return "", services.Wrap(services.ErrInfrastructure, "api", "delete project", "soft delete", err)
	}

	if err := s.blobs.Delete(ctx, p.InputURL); err != nil {
		s.logger.Warn("blob cleanup failed",
			logging.Int64("project_id", id),
			logging.Error(err),
		)
	}

	s.logger.Info("project deleted", logging.Int64("project_id", id))
	return p.InputURL, nil
}

// UpdateDisplayName renames a project the caller owns.
func (s *Service) UpdateDisplayName(ctx context.Context, userID string, id int64, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return services.Wrap(services.ErrValidation, "api", "rename project", "display name required", nil)
	}
	if len(trimmed) > maxDisplayNameLength {
		return services.Wrap(services.ErrValidation, "api", "rename project",
			fmt.Sprintf("display name exceeds %d characters", maxDisplayNameLength), nil)
	}

	if _, err := s.loadOwned(ctx, userID, id, "rename project"); err != nil {
		return err
	}
	if err := s.store.UpdateDisplayName(ctx, id, trimmed); err != nil {
		return services.Wrap(services.ErrInfrastructure, "api", "rename project", "update display name", err)
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, userID string, id int64, operation string) (*project.Project, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrInfrastructure, "api", operation, "load project", err)
	}
	if p == nil || p.Deleted() {
		return nil, services.Wrap(services.ErrNotFound, "api", operation, "project not found", nil)
	}
	if !p.OwnedBy(userID) {
		return nil, services.Wrap(services.ErrAuthorization, "api", operation, "project belongs to another user", nil)
	}
	return p, nil
}
