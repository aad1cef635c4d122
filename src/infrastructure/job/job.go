package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one row of the durable job ledger. The ledger is the source of
// truth for job state; the queue only carries the job ID and payload.
type Job struct {
	ID        int             `json:"id" gorm:"primaryKey"`
	TaskType  string          `json:"task_type" gorm:"index"`
	Payload   json.RawMessage `json:"payload" gorm:"type:jsonb"`
	Status    JobStatus       `json:"status" gorm:"index"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobRepository persists the ledger.
type JobRepository interface {
	Create(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error)
	Get(ctx context.Context, id int) (*Job, error)
	UpdateStatus(ctx context.Context, id int, status JobStatus, err *string) error
}
