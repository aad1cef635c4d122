package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const mcqPromptFormat = `You are preparing a multiple-choice quiz from the textbook material below. Write exactly %d questions covering the material. Respond with a JSON array only, no other text. Each element must have the shape {"prompt": string, "choices": [string, ...], "answer": int, "explanation": string} where "answer" is the zero-based index of the correct choice.

Textbook material:
%s`

// MCQService generates multiple-choice question sets from textbook chunks.
type MCQService struct {
	embedder  Embedder
	generator Generator
	chunks    ChunkSource
	store     QuestionSetStore
	catalog   Catalog
	cfg       Config
}

func NewMCQService(embedder Embedder, generator Generator, chunks ChunkSource, store QuestionSetStore, catalog Catalog, cfg Config) *MCQService {
	def := DefaultConfig()
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = def.ScoreThreshold
	}
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = def.MaxChunks
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = def.MaxContextChars
	}

	return &MCQService{
		embedder:  embedder,
		generator: generator,
		chunks:    chunks,
		store:     store,
		catalog:   catalog,
		cfg:       cfg,
	}
}

// Generate retrieves chapter material and asks the model for a question set,
// then persists it.
func (s *MCQService) Generate(ctx context.Context, subject string, classLevel, chapter, count int) (*QuestionSet, error) {
	if count <= 0 {
		count = 5
	}
	span, ok := s.catalog[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	if classLevel < span.Min || classLevel > span.Max {
		return nil, fmt.Errorf("%w: class %d not in [%d, %d]", ErrClassOutOfRange, classLevel, span.Min, span.Max)
	}

	seed := fmt.Sprintf("%s class %d chapter %d key concepts", subject, classLevel, chapter)
	vector, err := s.embedder.Embed(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to embed topic seed: %w", err)
	}

	chunks, err := s.chunks.SearchChunks(ctx, vector, subject, classLevel, chapter, s.cfg.MaxChunks, s.cfg.ScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chapter material: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no material for %s class %d chapter %d", ErrNotFound, subject, classLevel, chapter)
	}

	var material strings.Builder
	budget := s.cfg.MaxContextChars
	for _, c := range chunks {
		passage := "- " + c.Text + "\n"
		if len(passage) > budget {
			break
		}
		material.WriteString(passage)
		budget -= len(passage)
	}

	raw, err := s.generator.Generate(ctx, fmt.Sprintf(mcqPromptFormat, count, material.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}

	set := &QuestionSet{
		Subject:    subject,
		ClassLevel: classLevel,
		Chapter:    chapter,
		Questions:  questions,
		CreatedAt:  time.Now().UTC(),
	}
	id, err := s.store.InsertQuestionSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("failed to store question set: %w", err)
	}
	set.ID = id
	return set, nil
}

// Get returns a stored question set by ID.
func (s *MCQService) Get(ctx context.Context, id string) (*QuestionSet, error) {
	return s.store.GetQuestionSet(ctx, id)
}

// ParseQuestions decodes the model's JSON output. Models frequently wrap the
// array in a markdown code fence, so fences are stripped first.
func ParseQuestions(raw string) ([]Question, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if i := strings.LastIndex(trimmed, "```"); i >= 0 {
			trimmed = trimmed[:i]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	var questions []Question
	if err := json.Unmarshal([]byte(trimmed), &questions); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %d has an empty prompt", i)
		}
		if len(q.Choices) < 2 {
			return nil, fmt.Errorf("question %d has %d choices, need at least 2", i, len(q.Choices))
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return nil, fmt.Errorf("question %d answer index %d out of range", i, q.Answer)
		}
	}
	return questions, nil
}
