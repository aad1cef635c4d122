package tutor_test

import (
	"context"
	"errors"
	"testing"

	"vidya/src/core/tutor"
)

type fakeQuestionSetStore struct {
	inserted *tutor.QuestionSet
	stored   map[string]*tutor.QuestionSet
}

func (f *fakeQuestionSetStore) InsertQuestionSet(ctx context.Context, set *tutor.QuestionSet) (string, error) {
	f.inserted = set
	return "set-1", nil
}

func (f *fakeQuestionSetStore) GetQuestionSet(ctx context.Context, id string) (*tutor.QuestionSet, error) {
	if f.stored == nil {
		return nil, nil
	}
	return f.stored[id], nil
}

func TestParseQuestions(t *testing.T) {
	valid := `[{"prompt": "2+2?", "choices": ["3", "4"], "answer": 1, "explanation": "basic addition"}]`

	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{
			name:    "plain JSON array",
			raw:     valid,
			wantLen: 1,
		},
		{
			name:    "json code fence",
			raw:     "```json\n" + valid + "\n```",
			wantLen: 1,
		},
		{
			name:    "bare code fence",
			raw:     "```\n" + valid + "\n```",
			wantLen: 1,
		},
		{
			name:    "not JSON",
			raw:     "Sure! Here are your questions.",
			wantErr: true,
		},
		{
			name:    "empty array",
			raw:     "[]",
			wantErr: true,
		},
		{
			name:    "empty prompt",
			raw:     `[{"prompt": " ", "choices": ["a", "b"], "answer": 0}]`,
			wantErr: true,
		},
		{
			name:    "too few choices",
			raw:     `[{"prompt": "q", "choices": ["only"], "answer": 0}]`,
			wantErr: true,
		},
		{
			name:    "answer index out of range",
			raw:     `[{"prompt": "q", "choices": ["a", "b"], "answer": 2}]`,
			wantErr: true,
		},
		{
			name:    "negative answer index",
			raw:     `[{"prompt": "q", "choices": ["a", "b"], "answer": -1}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tutor.ParseQuestions(tt.raw)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseQuestions() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.wantLen {
				t.Errorf("ParseQuestions() returned %d questions, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestMCQGenerate(t *testing.T) {
	chunks := &fakeChunkSource{chunks: map[int][]tutor.TextChunk{
		8: {{Text: "Photosynthesis converts light into chemical energy.", Subject: "science", ClassLevel: 8, Chapter: 4, Score: 0.9}},
	}}
	generator := &fakeGenerator{answer: `[{"prompt": "What does photosynthesis produce?", "choices": ["Heat", "Chemical energy", "Sound"], "answer": 1}]`}
	store := &fakeQuestionSetStore{}

	svc := tutor.NewMCQService(&fakeEmbedder{}, generator, chunks, store, tutor.Catalog{"science": {Min: 6, Max: 12}}, tutor.Config{})

	set, err := svc.Generate(context.Background(), "science", 8, 4, 1)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if set.ID != "set-1" {
		t.Errorf("Generate() set ID = %q, want %q", set.ID, "set-1")
	}
	if len(set.Questions) != 1 {
		t.Fatalf("Generate() returned %d questions, want 1", len(set.Questions))
	}
	if set.Questions[0].Answer != 1 {
		t.Errorf("Generate() answer index = %d, want 1", set.Questions[0].Answer)
	}
	if store.inserted == nil {
		t.Error("Generate() did not persist the question set")
	}
	if generator.calls != 1 {
		t.Errorf("Generate() generator called %d times, want 1", generator.calls)
	}
}

func TestMCQGenerateErrors(t *testing.T) {
	catalog := tutor.Catalog{"science": {Min: 6, Max: 12}}

	tests := []struct {
		name    string
		subject string
		class   int
		chunks  map[int][]tutor.TextChunk
		wantErr error
	}{
		{
			name:    "unknown subject",
			subject: "alchemy",
			class:   8,
			wantErr: tutor.ErrUnknownSubject,
		},
		{
			name:    "class out of range",
			subject: "science",
			class:   4,
			wantErr: tutor.ErrClassOutOfRange,
		},
		{
			name:    "no material",
			subject: "science",
			class:   8,
			chunks:  map[int][]tutor.TextChunk{},
			wantErr: tutor.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := tutor.NewMCQService(&fakeEmbedder{}, &fakeGenerator{answer: "[]"}, &fakeChunkSource{chunks: tt.chunks}, &fakeQuestionSetStore{}, catalog, tutor.Config{})

			_, err := svc.Generate(context.Background(), tt.subject, tt.class, 1, 3)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
