package weaviate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate/entities/models"

	"vidya/src/core/tutor"
)

// AnswerCacheClass is the namespace holding previously generated answers.
const AnswerCacheClass = "AnswerCache"

// AnswerCacheIndex adapts the SDK to the answer-cache namespace.
type AnswerCacheIndex struct {
	sdk *SDK
}

func NewAnswerCacheIndex(sdk *SDK) *AnswerCacheIndex {
	return &AnswerCacheIndex{sdk: sdk}
}

// EnsureSchema creates the answer-cache class when missing.
func (a *AnswerCacheIndex) EnsureSchema(ctx context.Context) error {
	properties := []*models.Property{
		{Name: "question", DataType: []string{"text"}},
		{Name: "answer", DataType: []string{"text"}},
		{Name: "subject", DataType: []string{"text"}},
		{Name: "topic", DataType: []string{"text"}},
		{Name: "qualityScore", DataType: []string{"number"}},
		{Name: "usageCount", DataType: []string{"int"}},
	}
	return a.sdk.EnsureSchema(ctx, AnswerCacheClass, properties)
}

// Insert stores a generated answer keyed by its question embedding.
func (a *AnswerCacheIndex) Insert(ctx context.Context, vector []float32, cached tutor.CachedAnswer) (string, error) {
	id := uuid.New().String()
	err := a.sdk.AddVector(ctx, AnswerCacheClass, VectorObject{
		ID:     id,
		Vector: vector,
		Properties: map[string]interface{}{
			"question":     cached.Question,
			"answer":       cached.Answer,
			"subject":      cached.Subject,
			"topic":        cached.Topic,
			"qualityScore": cached.QualityScore,
			"usageCount":   cached.UsageCount,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert cached answer: %w", err)
	}
	return id, nil
}

// Lookup returns the best cached answer for the vector, or nil when the
// namespace has no match at all.
func (a *AnswerCacheIndex) Lookup(ctx context.Context, vector []float32, subject string) (*tutor.CachedAnswer, error) {
	where := filters.Where().
		WithPath([]string{"subject"}).
		WithOperator(filters.Equal).
		WithValueString(subject)

	results, err := a.sdk.QueryVectors(ctx, AnswerCacheClass, vector, QueryConfig{
		Fields: []string{"question", "answer", "subject", "topic", "qualityScore", "usageCount"},
		Limit:  1,
		Where:  where,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query answer cache: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]
	cached := &tutor.CachedAnswer{ID: r.ID, Score: r.Score}
	if q, ok := r.Properties["question"].(string); ok {
		cached.Question = q
	}
	if ans, ok := r.Properties["answer"].(string); ok {
		cached.Answer = ans
	}
	if subj, ok := r.Properties["subject"].(string); ok {
		cached.Subject = subj
	}
	if topic, ok := r.Properties["topic"].(string); ok {
		cached.Topic = topic
	}
	if quality, ok := r.Properties["qualityScore"].(float64); ok {
		cached.QualityScore = quality
	}
	if usage, ok := r.Properties["usageCount"].(float64); ok {
		cached.UsageCount = int(usage)
	}

	return cached, nil
}

// Touch increments the stored usage count. usageCount is the only property
// mutated after creation.
func (a *AnswerCacheIndex) Touch(ctx context.Context, id string, usageCount int) error {
	return a.sdk.MergeProperties(ctx, AnswerCacheClass, id, map[string]interface{}{
		"usageCount": usageCount,
	})
}
