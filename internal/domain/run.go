package domain

import "time"

// RunStatus is the lifecycle state of one pipeline execution.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// PipelineRun tracks one full recompute: when it ran, how many articles it
// classified and whether it finished.
type PipelineRun struct {
	ID            int64      `json:"id" db:"id"`
	ReferenceDate time.Time  `json:"reference_date" db:"reference_date"`
	Status        RunStatus  `json:"status" db:"status"`
	TotalArticles int        `json:"total_articles" db:"total_articles"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"`
	ErrorMessage  string     `json:"error_message,omitempty" db:"error_message"`
}
