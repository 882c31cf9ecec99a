package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"podforge/internal/jobs"
	"podforge/internal/plan"
	"podforge/internal/project"
)

const projectColumns = "id, user_id, deleted_at, input_url, file_name, display_name, file_size, file_duration, file_format, mime_type, plan, status, transcription_status, generation_status, error_json, job_errors_json, transcript_json, summary_json, social_posts_json, titles_json, hashtags_json, key_moments_json, youtube_timestamps_json, attempts, created_at, updated_at, completed_at"

// contentSlots pairs content slot jobs with their column order in
// projectColumns. Scan and update code both iterate this list so the two
// cannot drift.
var contentSlots = []jobs.Name{
	jobs.Summary,
	jobs.SocialPosts,
	jobs.Titles,
	jobs.Hashtags,
	jobs.KeyMoments,
	jobs.YouTubeTimestamps,
}

// slotColumns maps content slot jobs to their projects column for targeted
// single-column updates.
var slotColumns = map[jobs.Name]string{
	jobs.Summary:           "summary_json",
	jobs.SocialPosts:       "social_posts_json",
	jobs.Titles:            "titles_json",
	jobs.Hashtags:          "hashtags_json",
	jobs.KeyMoments:        "key_moments_json",
	jobs.YouTubeTimestamps: "youtube_timestamps_json",
}

func scanProject(scanner interface{ Scan(dest ...any) error }) (*project.Project, error) {
	var (
		id            int64
		userID        string
		deletedRaw    sql.NullString
		inputURL      string
		fileName      string
		displayName   sql.NullString
		fileSize      int64
		fileDuration  float64
		fileFormat    sql.NullString
		mimeType      sql.NullString
		planStr       string
		statusStr     string
		transcription sql.NullString
		generation    sql.NullString
		errorJSON     sql.NullString
		jobErrorsJSON sql.NullString
		transcript    sql.NullString
		slots         = make([]sql.NullString, len(contentSlots))
		attempts      int64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
		completedRaw  sql.NullString
	)

	dest := []any{
		&id,
		&userID,
		&deletedRaw,
		&inputURL,
		&fileName,
		&displayName,
		&fileSize,
		&fileDuration,
		&fileFormat,
		&mimeType,
		&planStr,
		&statusStr,
		&transcription,
		&generation,
		&errorJSON,
		&jobErrorsJSON,
		&transcript,
	}
	for i := range slots {
		dest = append(dest, &slots[i])
	}
	dest = append(dest, &attempts, &createdRaw, &updatedRaw, &completedRaw)

	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	p := &project.Project{
		ID:           id,
		UserID:       userID,
		InputURL:     inputURL,
		FileName:     fileName,
		DisplayName:  displayName.String,
		FileSize:     fileSize,
		FileDuration: fileDuration,
		FileFormat:   fileFormat.String,
		MimeType:     mimeType.String,
		Plan:         plan.Parse(planStr),
		Status:       project.Status(statusStr),
		JobStatus: project.JobStatus{
			Transcription:     phaseOrPending(transcription),
			ContentGeneration: phaseOrPending(generation),
		},
		Attempts: int(attempts),
	}

	if errorJSON.Valid && errorJSON.String != "" {
		var perr project.Error
		if err := json.Unmarshal([]byte(errorJSON.String), &perr); err != nil {
			return nil, fmt.Errorf("decode project error: %w", err)
		}
		p.Error = &perr
	}
	if jobErrorsJSON.Valid && jobErrorsJSON.String != "" {
		if err := json.Unmarshal([]byte(jobErrorsJSON.String), &p.JobErrors); err != nil {
			return nil, fmt.Errorf("decode job errors: %w", err)
		}
	}
	if transcript.Valid && transcript.String != "" {
		var t project.Transcript
		if err := json.Unmarshal([]byte(transcript.String), &t); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		p.Transcript = &t
	}
	for i, job := range contentSlots {
		if !slots[i].Valid || slots[i].String == "" {
			continue
		}
		if err := p.Content.UnmarshalSlot(job, []byte(slots[i].String)); err != nil {
			return nil, fmt.Errorf("decode %s slot: %w", job, err)
		}
	}

	if deleted, err := parseTimeString(deletedRaw.String); err == nil {
		p.DeletedAt = &deleted
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		p.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		p.UpdatedAt = updated
	}
	if completed, err := parseTimeString(completedRaw.String); err == nil {
		p.CompletedAt = &completed
	}
	return p, nil
}

func phaseOrPending(value sql.NullString) project.PhaseStatus {
	if !value.Valid || value.String == "" {
		return project.PhasePending
	}
	return project.PhaseStatus(value.String)
}

func marshalError(perr *project.Error) (any, error) {
	if perr == nil {
		return nil, nil
	}
	data, err := json.Marshal(perr)
	if err != nil {
		return nil, fmt.Errorf("encode project error: %w", err)
	}
	return string(data), nil
}

func marshalJobErrors(jobErrors map[jobs.Name]string) (any, error) {
	if len(jobErrors) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(jobErrors)
	if err != nil {
		return nil, fmt.Errorf("encode job errors: %w", err)
	}
	return string(data), nil
}

func marshalTranscript(t *project.Transcript) (any, error) {
	if t == nil {
		return nil, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	return string(data), nil
}

func marshalSlots(content *project.Content) ([]any, error) {
	values := make([]any, 0, len(contentSlots))
	for _, job := range contentSlots {
		data, err := content.MarshalSlot(job)
		if err != nil {
			return nil, fmt.Errorf("encode %s slot: %w", job, err)
		}
		if data == nil {
			values = append(values, nil)
			continue
		}
		values = append(values, string(data))
	}
	return values, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
