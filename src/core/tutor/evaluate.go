package tutor

import (
	"context"
	"fmt"
	"time"
)

// EvaluateService scores a student's selected answers against a stored
// question set.
type EvaluateService struct {
	sets  QuestionSetStore
	store EvaluationStore
}

func NewEvaluateService(sets QuestionSetStore, store EvaluationStore) *EvaluateService {
	return &EvaluateService{sets: sets, store: store}
}

// Evaluate scores the selections for the question set and persists the
// result. Selections map question index to chosen choice index; unanswered
// questions count as wrong.
func (s *EvaluateService) Evaluate(ctx context.Context, setID, userID string, selections map[int]int) (*Evaluation, error) {
	set, err := s.sets.GetQuestionSet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question set: %w", err)
	}
	if set == nil {
		return nil, fmt.Errorf("%w: question set %s", ErrNotFound, setID)
	}

	ev := Score(set, selections)
	ev.UserID = userID
	ev.CreatedAt = time.Now().UTC()

	id, err := s.store.InsertEvaluation(ctx, &ev)
	if err != nil {
		return nil, fmt.Errorf("failed to store evaluation: %w", err)
	}
	ev.ID = id
	return &ev, nil
}

// History returns the user's past evaluations.
func (s *EvaluateService) History(ctx context.Context, userID string) ([]Evaluation, error) {
	return s.store.ListByUser(ctx, userID)
}

// Score computes percentage = correct/total*100 for the selections.
func Score(set *QuestionSet, selections map[int]int) Evaluation {
	total := len(set.Questions)
	correct := 0
	for i, q := range set.Questions {
		if chosen, ok := selections[i]; ok && chosen == q.Answer {
			correct++
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	return Evaluation{
		SetID:      set.ID,
		Total:      total,
		Correct:    correct,
		Percentage: percentage,
	}
}
