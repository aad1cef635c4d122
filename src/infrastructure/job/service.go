package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const Topic = "jobs"

// TaskHandler processes one task type's payload.
type TaskHandler func(ctx context.Context, payload json.RawMessage) error

type JobService struct {
	publisher message.Publisher
	repo      JobRepository
	logger    watermill.LoggerAdapter
	handlers  map[string]TaskHandler
}

type JobMessage struct {
	JobID    int             `json:"job_id"`
	TaskType string          `json:"task_type"`
	Payload  json.RawMessage `json:"payload"`
}

func NewJobService(publisher message.Publisher, repo JobRepository, logger watermill.LoggerAdapter) *JobService {
	return &JobService{
		publisher: publisher,
		repo:      repo,
		logger:    logger,
		handlers:  make(map[string]TaskHandler),
	}
}

// RegisterHandler binds a task type to its handler. Workers register the
// tasks they can process; the API server registers none.
func (s *JobService) RegisterHandler(taskType string, handler TaskHandler) {
	s.handlers[taskType] = handler
}

// EnqueueJob creates a new job and publishes it to the message queue
func (s *JobService) EnqueueJob(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error) {
	// Create job record
	job, err := s.repo.Create(ctx, taskType, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	jobMsg := JobMessage{
		JobID:    job.ID,
		TaskType: job.TaskType,
		Payload:  job.Payload,
	}

	msgPayload, err := json.Marshal(jobMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), msgPayload)
	if err := s.publisher.Publish(Topic, msg); err != nil {
		return nil, fmt.Errorf("failed to publish job message: %w", err)
	}

	return job, nil
}

// ProcessJobMessage processes a job message from the queue
func (s *JobService) ProcessJobMessage(msg *message.Message) error {
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Payload, &jobMsg); err != nil {
		return fmt.Errorf("failed to unmarshal job message: %w", err)
	}

	ctx := context.Background()

	job, err := s.repo.Get(ctx, jobMsg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("job not found: %d", jobMsg.JobID)
	}

	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusRunning, nil); err != nil {
		return fmt.Errorf("failed to update job status to running: %w", err)
	}

	handler, ok := s.handlers[job.TaskType]
	if !ok {
		err := fmt.Errorf("unknown task type: %s", job.TaskType)
		errStr := err.Error()
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, JobStatusFailed, &errStr); updateErr != nil {
			s.logger.Error("Failed to update job status to failed", updateErr, watermill.LogFields{
				"job_id": job.ID,
			})
		}
		return err
	}

	if err := handler(ctx, job.Payload); err != nil {
		errStr := err.Error()
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, JobStatusFailed, &errStr); updateErr != nil {
			s.logger.Error("Failed to update job status to failed", updateErr, watermill.LogFields{
				"job_id": job.ID,
			})
		}
		return fmt.Errorf("failed to process job: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusCompleted, nil); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	return nil
}
