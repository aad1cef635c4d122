package jobctrl

import (
	"context"
	"encoding/json"
	"fmt"

	"vidya/src/infrastructure/job"
)

// AnswerRecorder satisfies tutor.AnswerRecorder by enqueueing an
// answer_persist job instead of writing to the vector store inline.
type AnswerRecorder struct {
	jobs *job.JobService
}

func NewAnswerRecorder(jobs *job.JobService) *AnswerRecorder {
	return &AnswerRecorder{jobs: jobs}
}

func (r *AnswerRecorder) RecordAnswer(ctx context.Context, question, answer, subject, topic string) error {
	payload, err := json.Marshal(AnswerPersistPayload{
		Question: question,
		Answer:   answer,
		Subject:  subject,
		Topic:    topic,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal answer persist payload: %w", err)
	}

	if _, err := r.jobs.EnqueueJob(ctx, TaskTypeAnswerPersist, payload); err != nil {
		return fmt.Errorf("failed to enqueue answer persist job: %w", err)
	}
	return nil
}
