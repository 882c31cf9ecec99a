package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"podforge/internal/jobs"
	"podforge/internal/plan"
)

// RetryRequest is one queued single-job retry. It carries the plan snapshot
// captured when the request was made so the retry runs under the same
// entitlement decision that admitted it.
type RetryRequest struct {
	ID           int64
	ProjectID    int64
	Job          jobs.Name
	UserID       string
	OriginalPlan plan.Tier
	CurrentPlan  plan.Tier
	CreatedAt    time.Time
}

// EnqueueRetry records a single-job retry request for the retry lane.
func (s *Store) EnqueueRetry(ctx context.Context, req RetryRequest) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO retry_requests (project_id, job, user_id, original_plan, current_plan, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
		req.ProjectID,
		string(req.Job),
		req.UserID,
		string(req.OriginalPlan),
		string(req.CurrentPlan),
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("enqueue retry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// NextRetry returns the oldest queued retry request, or nil when the queue
// is drained.
func (s *Store) NextRetry(ctx context.Context) (*RetryRequest, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, project_id, job, user_id, original_plan, current_plan, created_at
            FROM retry_requests ORDER BY id LIMIT 1`,
	)
	req, err := scanRetry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next retry: %w", err)
	}
	return req, nil
}

// RemoveRetry deletes a processed retry request.
func (s *Store) RemoveRetry(ctx context.Context, id int64) error {
	if _, err := s.execWithRetry(ctx, `DELETE FROM retry_requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove retry: %w", err)
	}
	return nil
}

// PendingRetryJobs lists the jobs already queued for a project so callers
// can avoid enqueueing duplicates.
func (s *Store) PendingRetryJobs(ctx context.Context, projectID int64) ([]jobs.Name, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT job FROM retry_requests WHERE project_id = ? ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("pending retries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []jobs.Name
	for rows.Next() {
		var job string
		if err := rows.Scan(&job); err != nil {
			return nil, fmt.Errorf("scan retry job: %w", err)
		}
		names = append(names, jobs.Name(job))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retries: %w", err)
	}
	return names, nil
}

// SaveJobContent stores one job's generated payload and clears that job's
// error entry in a single statement. No other column is touched, so a
// concurrent writer of the same project row cannot be clobbered.
func (s *Store) SaveJobContent(ctx context.Context, projectID int64, job jobs.Name, payload []byte) error {
	column, ok := slotColumns[job]
	if !ok {
		return fmt.Errorf("job %q has no content column", job)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET `+column+` = ?,
            job_errors_json = nullif(json_remove(coalesce(job_errors_json, '{}'), ?), '{}'),
            updated_at = ?
        WHERE id = ?`,
		string(payload),
		"$."+string(job),
		time.Now().UTC().Format(time.RFC3339Nano),
		projectID,
	)
	if err != nil {
		return fmt.Errorf("save %s content: %w", job, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", projectID)
	}
	return nil
}

// SaveJobError records one job's failure message in the error map without
// touching any other column.
func (s *Store) SaveJobError(ctx context.Context, projectID int64, job jobs.Name, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET
            job_errors_json = json_set(coalesce(job_errors_json, '{}'), ?, ?),
            updated_at = ?
        WHERE id = ?`,
		"$."+string(job),
		message,
		time.Now().UTC().Format(time.RFC3339Nano),
		projectID,
	)
	if err != nil {
		return fmt.Errorf("save %s error: %w", job, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", projectID)
	}
	return nil
}

func scanRetry(scanner interface{ Scan(dest ...any) error }) (*RetryRequest, error) {
	var (
		id           int64
		projectID    int64
		job          string
		userID       string
		originalPlan string
		currentPlan  string
		createdRaw   sql.NullString
	)
	if err := scanner.Scan(&id, &projectID, &job, &userID, &originalPlan, &currentPlan, &createdRaw); err != nil {
		return nil, err
	}
	req := &RetryRequest{
		ID:           id,
		ProjectID:    projectID,
		Job:          jobs.Name(job),
		UserID:       userID,
		OriginalPlan: plan.Parse(originalPlan),
		CurrentPlan:  plan.Parse(currentPlan),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		req.CreatedAt = created
	}
	return req, nil
}
