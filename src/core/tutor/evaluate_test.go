package tutor_test

import (
	"context"
	"errors"
	"testing"

	"vidya/src/core/tutor"
)

type fakeEvaluationStore struct {
	inserted *tutor.Evaluation
}

func (f *fakeEvaluationStore) InsertEvaluation(ctx context.Context, ev *tutor.Evaluation) (string, error) {
	f.inserted = ev
	return "eval-1", nil
}

func (f *fakeEvaluationStore) ListByUser(ctx context.Context, userID string) ([]tutor.Evaluation, error) {
	if f.inserted == nil {
		return nil, nil
	}
	return []tutor.Evaluation{*f.inserted}, nil
}

func quizSet() *tutor.QuestionSet {
	return &tutor.QuestionSet{
		ID: "set-1",
		Questions: []tutor.Question{
			{Prompt: "q0", Choices: []string{"a", "b"}, Answer: 0},
			{Prompt: "q1", Choices: []string{"a", "b"}, Answer: 1},
			{Prompt: "q2", Choices: []string{"a", "b", "c"}, Answer: 2},
			{Prompt: "q3", Choices: []string{"a", "b"}, Answer: 0},
		},
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name           string
		selections     map[int]int
		wantCorrect    int
		wantPercentage float64
	}{
		{
			name:           "all correct",
			selections:     map[int]int{0: 0, 1: 1, 2: 2, 3: 0},
			wantCorrect:    4,
			wantPercentage: 100,
		},
		{
			name:           "three of four",
			selections:     map[int]int{0: 0, 1: 1, 2: 2, 3: 1},
			wantCorrect:    3,
			wantPercentage: 75,
		},
		{
			name:           "unanswered questions count as wrong",
			selections:     map[int]int{0: 0},
			wantCorrect:    1,
			wantPercentage: 25,
		},
		{
			name:           "no selections",
			selections:     map[int]int{},
			wantCorrect:    0,
			wantPercentage: 0,
		},
		{
			name:           "selection for a question that does not exist is ignored",
			selections:     map[int]int{9: 0},
			wantCorrect:    0,
			wantPercentage: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tutor.Score(quizSet(), tt.selections)

			if ev.Total != 4 {
				t.Errorf("Score() total = %d, want 4", ev.Total)
			}
			if ev.Correct != tt.wantCorrect {
				t.Errorf("Score() correct = %d, want %d", ev.Correct, tt.wantCorrect)
			}
			if ev.Percentage != tt.wantPercentage {
				t.Errorf("Score() percentage = %v, want %v", ev.Percentage, tt.wantPercentage)
			}
		})
	}
}

func TestScoreEmptySet(t *testing.T) {
	ev := tutor.Score(&tutor.QuestionSet{ID: "empty"}, map[int]int{})
	if ev.Percentage != 0 {
		t.Errorf("Score() percentage = %v for an empty set, want 0", ev.Percentage)
	}
}

func TestEvaluatePersistsResult(t *testing.T) {
	sets := &fakeQuestionSetStore{stored: map[string]*tutor.QuestionSet{"set-1": quizSet()}}
	store := &fakeEvaluationStore{}
	svc := tutor.NewEvaluateService(sets, store)

	ev, err := svc.Evaluate(context.Background(), "set-1", "user-7", map[int]int{0: 0, 1: 1})
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}

	if ev.ID != "eval-1" {
		t.Errorf("Evaluate() ID = %q, want %q", ev.ID, "eval-1")
	}
	if ev.UserID != "user-7" {
		t.Errorf("Evaluate() user = %q, want %q", ev.UserID, "user-7")
	}
	if ev.Correct != 2 || ev.Percentage != 50 {
		t.Errorf("Evaluate() correct = %d percentage = %v, want 2 and 50", ev.Correct, ev.Percentage)
	}
	if store.inserted == nil {
		t.Error("Evaluate() did not persist the evaluation")
	}
}

func TestHistory(t *testing.T) {
	sets := &fakeQuestionSetStore{stored: map[string]*tutor.QuestionSet{"set-1": quizSet()}}
	store := &fakeEvaluationStore{}
	svc := tutor.NewEvaluateService(sets, store)

	if _, err := svc.Evaluate(context.Background(), "set-1", "user-7", map[int]int{0: 0}); err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}

	history, err := svc.History(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("History() returned %d evaluations, want 1", len(history))
	}
}

func TestEvaluateUnknownSet(t *testing.T) {
	svc := tutor.NewEvaluateService(&fakeQuestionSetStore{}, &fakeEvaluationStore{})

	_, err := svc.Evaluate(context.Background(), "missing", "user-7", nil)
	if !errors.Is(err, tutor.ErrNotFound) {
		t.Errorf("Evaluate() error = %v, want %v", err, tutor.ErrNotFound)
	}
}
