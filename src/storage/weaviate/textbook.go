package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate/entities/models"

	"vidya/src/core/tutor"
)

// TextbookClass is the namespace holding ingested textbook chunks.
const TextbookClass = "TextbookChunk"

// TextbookIndex adapts the SDK to the textbook namespace.
type TextbookIndex struct {
	sdk *SDK
}

func NewTextbookIndex(sdk *SDK) *TextbookIndex {
	return &TextbookIndex{sdk: sdk}
}

// EnsureSchema creates the textbook class when missing.
func (t *TextbookIndex) EnsureSchema(ctx context.Context) error {
	properties := []*models.Property{
		{Name: "text", DataType: []string{"text"}},
		{Name: "subject", DataType: []string{"text"}},
		{Name: "classLevel", DataType: []string{"int"}},
		{Name: "chapter", DataType: []string{"int"}},
		{Name: "page", DataType: []string{"int"}},
		{Name: "chunkId", DataType: []string{"text"}},
	}
	return t.sdk.EnsureSchema(ctx, TextbookClass, properties)
}

// AddChunk upserts one textbook chunk with its vector.
func (t *TextbookIndex) AddChunk(ctx context.Context, chunkID string, vector []float32, chunk tutor.TextChunk) error {
	return t.sdk.AddVector(ctx, TextbookClass, VectorObject{
		Vector: vector,
		Properties: map[string]interface{}{
			"text":       chunk.Text,
			"subject":    chunk.Subject,
			"classLevel": chunk.ClassLevel,
			"chapter":    chunk.Chapter,
			"page":       chunk.Page,
			"chunkId":    chunkID,
		},
	})
}

// SearchChunks queries one class level with metadata filters and a score
// threshold, satisfying tutor.ChunkSource.
func (t *TextbookIndex) SearchChunks(ctx context.Context, vector []float32, subject string, classLevel, chapter, limit int, minScore float64) ([]tutor.TextChunk, error) {
	operands := []*filters.WhereBuilder{
		filters.Where().WithPath([]string{"subject"}).WithOperator(filters.Equal).WithValueString(subject),
		filters.Where().WithPath([]string{"classLevel"}).WithOperator(filters.Equal).WithValueInt(int64(classLevel)),
	}
	if chapter > 0 {
		operands = append(operands,
			filters.Where().WithPath([]string{"chapter"}).WithOperator(filters.Equal).WithValueInt(int64(chapter)))
	}
	where := filters.Where().WithOperator(filters.And).WithOperands(operands)

	results, err := t.sdk.QueryVectors(ctx, TextbookClass, vector, QueryConfig{
		Fields:    []string{"text", "subject", "classLevel", "chapter", "page"},
		Limit:     limit,
		Certainty: minScore,
		Where:     where,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search textbook chunks: %w", err)
	}

	chunks := make([]tutor.TextChunk, 0, len(results))
	for _, r := range results {
		chunk := tutor.TextChunk{Score: r.Score}
		if text, ok := r.Properties["text"].(string); ok {
			chunk.Text = text
		}
		if subj, ok := r.Properties["subject"].(string); ok {
			chunk.Subject = subj
		}
		if class, ok := r.Properties["classLevel"].(float64); ok {
			chunk.ClassLevel = int(class)
		}
		if ch, ok := r.Properties["chapter"].(float64); ok {
			chunk.Chapter = int(ch)
		}
		if page, ok := r.Properties["page"].(float64); ok {
			chunk.Page = int(page)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
