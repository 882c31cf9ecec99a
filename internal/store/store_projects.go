package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"podforge/internal/project"
)

// CreateProject inserts a new project in the uploaded state and returns the
// stored row.
func (s *Store) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p == nil {
		return nil, errors.New("project is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (
            user_id, input_url, file_name, display_name, file_size, file_duration,
            file_format, mime_type, plan, status,
            transcription_status, generation_status,
            attempts, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID,
		p.InputURL,
		p.FileName,
		nullableString(p.DisplayName),
		p.FileSize,
		p.FileDuration,
		nullableString(p.FileFormat),
		nullableString(p.MimeType),
		string(p.Plan),
		string(project.StatusUploaded),
		string(project.PhasePending),
		string(project.PhasePending),
		0,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a project by identifier. Returns nil when no row exists;
// soft-deleted projects are still returned so callers can distinguish
// deleted from missing.
func (s *Store) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Update persists all mutable fields of an existing project. Full-row
// writes require a single writer per row: the pipeline lane holds that
// role while a project is non-terminal, and the retry lane persists
// through SaveJobContent/SaveJobError instead of this method.
func (s *Store) Update(ctx context.Context, p *project.Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	p.UpdatedAt = time.Now().UTC()

	errorJSON, err := marshalError(p.Error)
	if err != nil {
		return err
	}
	jobErrorsJSON, err := marshalJobErrors(p.JobErrors)
	if err != nil {
		return err
	}
	transcriptJSON, err := marshalTranscript(p.Transcript)
	if err != nil {
		return err
	}
	slotValues, err := marshalSlots(&p.Content)
	if err != nil {
		return err
	}

	args := []any{
		nullableTime(p.DeletedAt),
		nullableString(p.DisplayName),
		p.FileDuration,
		nullableString(p.FileFormat),
		string(p.Plan),
		string(p.Status),
		string(p.JobStatus.Transcription),
		string(p.JobStatus.ContentGeneration),
		errorJSON,
		jobErrorsJSON,
		transcriptJSON,
	}
	args = append(args, slotValues...)
	args = append(args,
		p.Attempts,
		p.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(p.CompletedAt),
		p.ID,
	)

	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET
            deleted_at = ?, display_name = ?, file_duration = ?, file_format = ?,
            plan = ?, status = ?,
            transcription_status = ?, generation_status = ?,
            error_json = ?, job_errors_json = ?, transcript_json = ?,
            summary_json = ?, social_posts_json = ?, titles_json = ?,
            hashtags_json = ?, key_moments_json = ?, youtube_timestamps_json = ?,
            attempts = ?, updated_at = ?, completed_at = ?
        WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", p.ID)
	}
	return nil
}

// ListByUser returns a user's projects newest first, excluding soft-deleted
// rows. A limit of zero or less means no limit.
func (s *Store) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
        WHERE user_id = ? AND deleted_at IS NULL
        ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// CountByUser counts a user's projects. Free-tier limits count deleted
// projects against the lifetime cap, so callers choose whether soft-deleted
// rows are included.
func (s *Store) CountByUser(ctx context.Context, userID string, includeDeleted bool) (int64, error) {
	query := `SELECT COUNT(1) FROM projects WHERE user_id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// SoftDelete marks a project deleted without dropping the row, preserving it
// for lifetime plan-limit accounting.
func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return fmt.Errorf("soft delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", id)
	}
	return nil
}

// UpdateDisplayName sets the user-facing project name.
func (s *Store) UpdateDisplayName(ctx context.Context, id int64, name string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET display_name = ?, updated_at = ? WHERE id = ?`,
		nullableString(name), now, id,
	)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", id)
	}
	return nil
}

// NextForPipeline returns the oldest non-deleted project still owed pipeline
// work, or nil when the queue is drained.
func (s *Store) NextForPipeline(ctx context.Context) (*project.Project, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects
            WHERE deleted_at IS NULL AND status IN (?, ?)
            ORDER BY id LIMIT 1`,
		string(project.StatusUploaded),
		string(project.StatusProcessing),
	)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pipeline project: %w", err)
	}
	return p, nil
}

// Stats reports project counts by status, excluding soft-deleted rows.
func (s *Store) Stats(ctx context.Context) (map[project.Status]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, COUNT(1) FROM projects WHERE deleted_at IS NULL GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[project.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[project.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}
