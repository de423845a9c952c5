package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusTimeout    JobStatus = "timeout"
)

// Terminal reports whether no further work happens for a job in this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusTimeout
}

// GenerationRequest is the immutable copy of what the client asked for.
type GenerationRequest struct {
	Theme          string `json:"theme"`
	TechnicalArea  string `json:"area_tecnologica"`
	TargetAudience string `json:"target_audience"`
	NumChapters    int    `json:"num_chapters"`
}

// GenerationJob is the durable, externally pollable projection of exactly one
// workflow execution. One writer (the runner goroutine) mutates it; polling
// clients read whatever snapshot the store last persisted.
type GenerationJob struct {
	ID           string
	UserID       string
	Status       JobStatus
	Progress     int
	CurrentStep  string
	Content      string
	ApostilaID   string
	DownloadURL  string
	ErrorMessage string
	Request      GenerationRequest
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewGenerationJob(id, userID string, req GenerationRequest) *GenerationJob {
	now := time.Now()
	return &GenerationJob{
		ID:        id,
		UserID:    userID,
		Status:    JobStatusPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AdvanceProgress raises the progress value, clamped to 0..100. Progress is
// monotonically non-decreasing within a job's lifetime.
func (j *GenerationJob) AdvanceProgress(p int) {
	if p > 100 {
		p = 100
	}
	if p > j.Progress {
		j.Progress = p
	}
}

// AppendContent adds a fragment to the append-only live content buffer.
func (j *GenerationJob) AppendContent(fragment string) {
	if fragment == "" {
		return
	}
	j.Content += fragment
}
