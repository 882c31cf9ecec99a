package project

import (
	"strings"
	"time"

	"podforge/internal/jobs"
	"podforge/internal/plan"
)

// Status represents the overall lifecycle of a project.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var statusRank = map[Status]int{
	StatusUploaded:   0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusRank[normalized]
	return normalized, ok
}

// CanAdvance reports whether a status transition moves forward. Transitions
// are monotonic: uploaded → processing → {completed, failed}, never backward.
func CanAdvance(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == StatusCompleted || from == StatusFailed {
		return false
	}
	return toRank > fromRank
}

// IsTerminal reports whether a status ends the pipeline.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PhaseStatus represents the state of one coarse pipeline phase.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
)

// JobStatus tracks the two pipeline phases for a project. It doubles as the
// step-completion ledger the orchestrator consults before re-invoking a
// stage, so re-delivered triggers never re-bill a provider.
type JobStatus struct {
	Transcription     PhaseStatus `json:"transcription"`
	ContentGeneration PhaseStatus `json:"contentGeneration"`
}

// Error records a fatal pipeline failure on a project.
type Error struct {
	Message   string    `json:"message"`
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// Project is the aggregate root for one uploaded audio file.
type Project struct {
	ID          int64
	UserID      string
	DeletedAt   *time.Time
	InputURL    string
	FileName    string
	DisplayName string
	FileSize    int64
	// FileDuration is the audio length in seconds; zero when unknown.
	FileDuration float64
	FileFormat   string
	MimeType     string

	// Plan is the tier captured from the upload trigger; the pipeline is
	// gated on this snapshot, not on live entitlement.
	Plan plan.Tier

	Status    Status
	JobStatus JobStatus
	Error     *Error

	// JobErrors holds isolated per-job failures keyed by job name. A full
	// generation pass replaces the map; a single-job retry merges into it.
	JobErrors map[jobs.Name]string

	Transcript *Transcript
	Content    Content

	// Attempts counts whole-pipeline runs, bounding event-level retries.
	Attempts int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Deleted reports whether the project is soft-deleted.
func (p *Project) Deleted() bool {
	return p != nil && p.DeletedAt != nil
}

// OwnedBy reports whether the given user owns the project.
func (p *Project) OwnedBy(userID string) bool {
	return p != nil && p.UserID == userID
}

// SetFatalError marks the project failed with a top-level error record.
func (p *Project) SetFatalError(step, message, details string) {
	p.Status = StatusFailed
	p.Error = &Error{
		Message:   message,
		Step:      step,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
}

// SetJobError records an isolated failure for one job.
func (p *Project) SetJobError(job jobs.Name, message string) {
	if p.JobErrors == nil {
		p.JobErrors = make(map[jobs.Name]string, 1)
	}
	p.JobErrors[job] = message
}

// ClearJobError removes a job's error entry, if any.
func (p *Project) ClearJobError(job jobs.Name) {
	delete(p.JobErrors, job)
}

// InferOriginalPlan derives the plan a project was processed under from
// which content slots are populated. Ultra-only slots imply ultra, pro-only
// slots imply pro, otherwise free.
func (p *Project) InferOriginalPlan() plan.Tier {
	if p.Content.KeyMoments != nil || p.Content.YouTubeTimestamps != nil {
		return plan.TierUltra
	}
	if p.Content.SocialPosts != nil || p.Content.Titles != nil || p.Content.Hashtags != nil {
		return plan.TierPro
	}
	return plan.TierFree
}

// DisplayTitle returns the user-facing name for a project.
func (p *Project) DisplayTitle() string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	return p.FileName
}
