package jobctrl

import (
	"context"
	"encoding/json"
	"fmt"

	"vidya/src/core/tutor"
	"vidya/src/infrastructure/log"
	"vidya/src/storage/weaviate"
)

const TaskTypeAnswerPersist = "answer_persist"

// AnswerPersistPayload carries a freshly generated answer to the worker.
type AnswerPersistPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic,omitempty"`
}

// AnswerPersistTask writes generated answers back into the cache namespace
// so future near-identical questions skip generation.
type AnswerPersistTask struct {
	embedder tutor.Embedder
	cache    *weaviate.AnswerCacheIndex
}

func NewAnswerPersistTask(embedder tutor.Embedder, cache *weaviate.AnswerCacheIndex) *AnswerPersistTask {
	return &AnswerPersistTask{
		embedder: embedder,
		cache:    cache,
	}
}

func (t *AnswerPersistTask) Handle(ctx context.Context, payload json.RawMessage) error {
	var p AnswerPersistPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to unmarshal answer persist payload: %w", err)
	}
	if p.Question == "" || p.Answer == "" {
		return fmt.Errorf("answer persist payload missing question or answer")
	}

	vector, err := t.embedder.Embed(ctx, p.Question)
	if err != nil {
		return fmt.Errorf("failed to embed cached question: %w", err)
	}

	id, err := t.cache.Insert(ctx, vector, tutor.CachedAnswer{
		Question: p.Question,
		Answer:   p.Answer,
		Subject:  p.Subject,
		Topic:    p.Topic,
	})
	if err != nil {
		return fmt.Errorf("failed to store cached answer: %w", err)
	}

	log.Info("cached generated answer", "id", id, "subject", p.Subject, "topic", p.Topic)
	return nil
}
