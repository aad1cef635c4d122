package tutor_test

import (
	"context"
	"errors"
	"testing"

	"vidya/src/core/tutor"
)

var testCatalog = tutor.Catalog{
	"mathematics": {Min: 6, Max: 12},
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeGenerator struct {
	calls  int
	answer string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeChunkSource struct {
	queried []int
	chunks  map[int][]tutor.TextChunk
	err     error
}

func (f *fakeChunkSource) SearchChunks(ctx context.Context, vector []float32, subject string, classLevel, chapter, limit int, minScore float64) ([]tutor.TextChunk, error) {
	f.queried = append(f.queried, classLevel)
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks[classLevel], nil
}

type fakeCache struct {
	hit     *tutor.CachedAnswer
	err     error
	touched int
}

func (f *fakeCache) Lookup(ctx context.Context, vector []float32, subject string) (*tutor.CachedAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hit, nil
}

func (f *fakeCache) Touch(ctx context.Context, id string, usageCount int) error {
	f.touched++
	return nil
}

type fakeWeb struct {
	passages []tutor.WebPassage
	err      error
}

func (f *fakeWeb) SearchWeb(ctx context.Context, query, subject string, limit int) ([]tutor.WebPassage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

type fakeRecorder struct {
	recorded int
	question string
	answer   string
	topic    string
}

func (f *fakeRecorder) RecordAnswer(ctx context.Context, question, answer, subject, topic string) error {
	f.recorded++
	f.question = question
	f.answer = answer
	f.topic = topic
	return nil
}

func TestAskCacheHitSkipsGeneration(t *testing.T) {
	generator := &fakeGenerator{answer: "generated"}
	cache := &fakeCache{hit: &tutor.CachedAnswer{ID: "c1", Answer: "cached answer", UsageCount: 3, Score: 0.97}}
	chunks := &fakeChunkSource{}

	svc := tutor.NewService(&fakeEmbedder{}, generator, chunks, cache, nil, nil, testCatalog, tutor.Config{})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "What is a prime number?",
		Subject:    "mathematics",
		ClassLevel: 8,
		Mode:       tutor.ModeQuick,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}

	if !answer.Cached {
		t.Error("Ask() answer.Cached = false, want true")
	}
	if answer.Text != "cached answer" {
		t.Errorf("Ask() answer = %q, want %q", answer.Text, "cached answer")
	}
	if generator.calls != 0 {
		t.Errorf("Ask() generator called %d times on a cache hit, want 0", generator.calls)
	}
	if len(chunks.queried) != 0 {
		t.Errorf("Ask() queried chunks %v on a cache hit, want none", chunks.queried)
	}
	if cache.touched != 1 {
		t.Errorf("Ask() touched cache %d times, want 1", cache.touched)
	}

	stats := svc.Stats()
	if stats.CacheHits != 1 {
		t.Errorf("Stats() cache hits = %d, want 1", stats.CacheHits)
	}
	if stats.Generations != 0 {
		t.Errorf("Stats() generations = %d, want 0", stats.Generations)
	}
}

func TestAskLowSimilarityCacheMissGenerates(t *testing.T) {
	generator := &fakeGenerator{answer: "generated"}
	cache := &fakeCache{hit: &tutor.CachedAnswer{ID: "c1", Answer: "stale", Score: 0.80}}

	svc := tutor.NewService(&fakeEmbedder{}, generator, &fakeChunkSource{}, cache, nil, nil, testCatalog, tutor.Config{})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "What is a prime number?",
		Subject:    "mathematics",
		ClassLevel: 8,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}

	if answer.Cached {
		t.Error("Ask() answer.Cached = true below the cache threshold")
	}
	if generator.calls != 1 {
		t.Errorf("Ask() generator called %d times, want 1", generator.calls)
	}
	if cache.touched != 0 {
		t.Errorf("Ask() touched cache %d times on a miss, want 0", cache.touched)
	}
}

func TestAskQueriesPrerequisiteClasses(t *testing.T) {
	chunks := &fakeChunkSource{chunks: map[int][]tutor.TextChunk{
		9: {{Text: "current class", Subject: "mathematics", ClassLevel: 9, Chapter: 2, Score: 0.9}},
		8: {{Text: "one back", Subject: "mathematics", ClassLevel: 8, Chapter: 5, Score: 0.95}},
		7: {{Text: "two back", Subject: "mathematics", ClassLevel: 7, Chapter: 1, Score: 0.8}},
	}}
	generator := &fakeGenerator{answer: "generated"}
	recorder := &fakeRecorder{}

	svc := tutor.NewService(&fakeEmbedder{}, generator, chunks, nil, nil, recorder, testCatalog, tutor.Config{})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "Why does this work?",
		Subject:    "mathematics",
		ClassLevel: 9,
		Mode:       tutor.ModeQuick,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}

	wantQueried := []int{7, 8, 9}
	if len(chunks.queried) != len(wantQueried) {
		t.Fatalf("Ask() queried classes %v, want %v", chunks.queried, wantQueried)
	}
	for i, c := range wantQueried {
		if chunks.queried[i] != c {
			t.Errorf("Ask() queried classes %v, want %v", chunks.queried, wantQueried)
			break
		}
	}

	// Merged sources come back highest score first.
	if len(answer.Sources) != 3 {
		t.Fatalf("Ask() returned %d sources, want 3", len(answer.Sources))
	}
	if answer.Sources[0].Text != "one back" {
		t.Errorf("Ask() best source = %q, want the highest scored chunk", answer.Sources[0].Text)
	}

	// The recorder sees the best chunk's topic.
	if recorder.recorded != 1 {
		t.Fatalf("Ask() recorded %d answers, want 1", recorder.recorded)
	}
	if recorder.topic != "mathematics/class-8/chapter-5" {
		t.Errorf("Ask() recorded topic = %q, want %q", recorder.topic, "mathematics/class-8/chapter-5")
	}
}

func TestAskCacheFailureDegradesGracefully(t *testing.T) {
	generator := &fakeGenerator{answer: "generated"}
	cache := &fakeCache{err: errors.New("cache unavailable")}

	svc := tutor.NewService(&fakeEmbedder{}, generator, &fakeChunkSource{}, cache, nil, nil, testCatalog, tutor.Config{})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "What is a prime number?",
		Subject:    "mathematics",
		ClassLevel: 8,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if answer.Text != "generated" {
		t.Errorf("Ask() answer = %q, want the generated answer", answer.Text)
	}
	if svc.Stats().DegradedLookups != 1 {
		t.Errorf("Stats() degraded lookups = %d, want 1", svc.Stats().DegradedLookups)
	}
}

func TestAskWebFailureDegradesGracefully(t *testing.T) {
	generator := &fakeGenerator{answer: "generated"}
	web := &fakeWeb{err: errors.New("index down")}

	svc := tutor.NewService(&fakeEmbedder{}, generator, &fakeChunkSource{}, nil, web, nil, testCatalog, tutor.Config{})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "What is a prime number?",
		Subject:    "mathematics",
		ClassLevel: 8,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if len(answer.Web) != 0 {
		t.Errorf("Ask() returned %d web passages after a web failure, want 0", len(answer.Web))
	}
	if generator.calls != 1 {
		t.Errorf("Ask() generator called %d times, want 1", generator.calls)
	}
}

func TestAskValidation(t *testing.T) {
	svc := tutor.NewService(&fakeEmbedder{}, &fakeGenerator{answer: "x"}, &fakeChunkSource{}, nil, nil, nil, testCatalog, tutor.Config{})

	tests := []struct {
		name    string
		req     tutor.AskRequest
		wantErr error
	}{
		{
			name:    "empty question",
			req:     tutor.AskRequest{Question: "   ", Subject: "mathematics", ClassLevel: 8},
			wantErr: tutor.ErrEmptyQuestion,
		},
		{
			name:    "unknown subject",
			req:     tutor.AskRequest{Question: "q", Subject: "astrology", ClassLevel: 8},
			wantErr: tutor.ErrUnknownSubject,
		},
		{
			name:    "class outside span",
			req:     tutor.AskRequest{Question: "q", Subject: "mathematics", ClassLevel: 3},
			wantErr: tutor.ErrClassOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ask(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAskMaxChunksTruncation(t *testing.T) {
	perClass := make(map[int][]tutor.TextChunk)
	for class := 7; class <= 9; class++ {
		for i := 0; i < 5; i++ {
			perClass[class] = append(perClass[class], tutor.TextChunk{
				Text:       "chunk",
				Subject:    "mathematics",
				ClassLevel: class,
				Score:      0.8,
			})
		}
	}
	chunks := &fakeChunkSource{chunks: perClass}

	svc := tutor.NewService(&fakeEmbedder{}, &fakeGenerator{answer: "x"}, chunks, nil, nil, nil, testCatalog, tutor.Config{MaxChunks: 8})

	answer, err := svc.Ask(context.Background(), tutor.AskRequest{
		Question:   "q",
		Subject:    "mathematics",
		ClassLevel: 9,
	})
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if len(answer.Sources) != 8 {
		t.Errorf("Ask() returned %d sources, want 8 after truncation", len(answer.Sources))
	}
}
