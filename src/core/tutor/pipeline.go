package tutor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"vidya/src/infrastructure/log"
)

// Config bundles the pipeline's thresholds and limits.
type Config struct {
	CacheThreshold  float64 // similarity above which a cached answer short-circuits generation
	ScoreThreshold  float64 // minimum similarity for textbook chunks
	TopK            int     // per-class result limit
	MaxChunks       int     // merged chunk limit across all classes
	WebLimit        int     // web-content result limit
	MaxContextChars int     // prompt context budget
}

// DefaultConfig returns the thresholds used when config leaves them unset.
func DefaultConfig() Config {
	return Config{
		CacheThreshold:  0.95,
		ScoreThreshold:  0.75,
		TopK:            5,
		MaxChunks:       8,
		WebLimit:        3,
		MaxContextChars: 6000,
	}
}

// Service is the retrieval-orchestration pipeline: it decides which
// namespaces and class levels to query, merges textbook, cache and web
// sources, and invokes generation exactly once (or not at all, on a
// cache hit).
type Service struct {
	embedder  Embedder
	generator Generator
	chunks    ChunkSource
	cache     AnswerCache    // optional
	web       WebSource      // optional
	recorder  AnswerRecorder // optional
	catalog   Catalog
	cfg       Config
	stats     *Stats
}

func NewService(embedder Embedder, generator Generator, chunks ChunkSource, cache AnswerCache, web WebSource, recorder AnswerRecorder, catalog Catalog, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.CacheThreshold <= 0 {
		cfg.CacheThreshold = def.CacheThreshold
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = def.ScoreThreshold
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = def.MaxChunks
	}
	if cfg.WebLimit <= 0 {
		cfg.WebLimit = def.WebLimit
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = def.MaxContextChars
	}

	return &Service{
		embedder:  embedder,
		generator: generator,
		chunks:    chunks,
		cache:     cache,
		web:       web,
		recorder:  recorder,
		catalog:   catalog,
		cfg:       cfg,
		stats:     &Stats{},
	}
}

// Stats exposes the pipeline's diagnostic counters.
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// Ask runs the full pipeline for one student question.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*Answer, error) {
	s.stats.asks.Add(1)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	span, ok := s.catalog[req.Subject]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, req.Subject)
	}

	classes, err := PrerequisiteClasses(req.ClassLevel, req.Mode, span)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	// Cache lookup short-circuits generation on a high-similarity match.
	// Cache failures are not fatal: the pipeline continues without it.
	if s.cache != nil {
		hit, err := s.cache.Lookup(ctx, vector, req.Subject)
		if err != nil {
			s.stats.degraded.Add(1)
			log.Error(err, "answer cache lookup failed, continuing without cache", "subject", req.Subject)
		} else if hit != nil && hit.Score >= s.cfg.CacheThreshold {
			s.stats.cacheHits.Add(1)
			if err := s.cache.Touch(ctx, hit.ID, hit.UsageCount+1); err != nil {
				log.Error(err, "failed to bump cached answer usage count", "id", hit.ID)
			}
			return &Answer{Text: hit.Answer, Cached: true}, nil
		}
	}

	chunks, err := s.retrieveChunks(ctx, vector, req.Subject, req.Chapter, classes)
	if err != nil {
		return nil, err
	}

	var web []WebPassage
	if s.web != nil {
		web, err = s.web.SearchWeb(ctx, question, req.Subject, s.cfg.WebLimit)
		if err != nil {
			s.stats.degraded.Add(1)
			log.Error(err, "web content lookup failed, continuing without it", "subject", req.Subject)
			web = nil
		}
	}

	prompt := BuildPrompt(question, chunks, web, s.cfg.MaxContextChars)

	s.stats.generations.Add(1)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordAnswer(ctx, question, text, req.Subject, topicOf(chunks)); err != nil {
			log.Error(err, "failed to schedule answer persistence", "subject", req.Subject)
		}
	}

	return &Answer{Text: text, Sources: chunks, Web: web}, nil
}

// retrieveChunks issues one vector query per prerequisite class, then merges
// the results by score and truncates to the configured limit.
func (s *Service) retrieveChunks(ctx context.Context, vector []float32, subject string, chapter int, classes []int) ([]TextChunk, error) {
	var merged []TextChunk
	for _, class := range classes {
		chunks, err := s.chunks.SearchChunks(ctx, vector, subject, class, chapter, s.cfg.TopK, s.cfg.ScoreThreshold)
		if err != nil {
			return nil, fmt.Errorf("failed to search class %d chunks: %w", class, err)
		}
		merged = append(merged, chunks...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > s.cfg.MaxChunks {
		merged = merged[:s.cfg.MaxChunks]
	}
	return merged, nil
}

// topicOf derives a coarse topic label for the answer cache from the best
// retrieved chunk.
func topicOf(chunks []TextChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	best := chunks[0]
	return fmt.Sprintf("%s/class-%d/chapter-%d", best.Subject, best.ClassLevel, best.Chapter)
}
