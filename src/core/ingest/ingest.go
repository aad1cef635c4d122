package ingest

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/tmc/langchaingo/textsplitter"

	"vidya/src/core/tutor"
	"vidya/src/storage/minioctrl"
	"vidya/src/storage/weaviate"
)

const (
	defaultChunkSize    = 1200
	defaultChunkOverlap = 150

	// charsPerPage approximates how much chapter text fits on one printed
	// page, used to tag chunks with a page number.
	charsPerPage = 1800
)

// Request describes one textbook chapter to ingest.
type Request struct {
	FileName   string
	Content    []byte
	Subject    string
	ClassLevel int
	Chapter    int
}

// Result reports what the ingestion produced.
type Result struct {
	ObjectName string
	Chunks     int
}

// Service splits textbook chapters into chunks, embeds them and upserts
// them into the textbook namespace. The raw source is kept in MinIO.
type Service struct {
	embedder  tutor.Embedder
	index     *weaviate.TextbookIndex
	store     *minioctrl.MinioService
	snowflake *snowflake.Node
	chunkSize int
	overlap   int
}

func NewService(embedder tutor.Embedder, index *weaviate.TextbookIndex, store *minioctrl.MinioService, chunkSize, overlap int) (*Service, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = defaultChunkOverlap
	}

	return &Service{
		embedder:  embedder,
		index:     index,
		store:     store,
		snowflake: node,
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// Ingest processes one chapter. onChunk, when non-nil, is called after each
// chunk is stored so callers can report progress.
func (s *Service) Ingest(ctx context.Context, req Request, onChunk func(done, total int)) (*Result, error) {
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("chapter content is empty")
	}
	if req.Subject == "" || req.ClassLevel <= 0 {
		return nil, fmt.Errorf("subject and class level are required")
	}

	if err := s.store.EnsureBucketExists(ctx, minioctrl.TextbookBucket); err != nil {
		return nil, fmt.Errorf("failed to ensure textbook bucket: %w", err)
	}

	objectName := fmt.Sprintf("%s/class-%d/chapter-%d/%s", req.Subject, req.ClassLevel, req.Chapter, req.FileName)
	if err := s.store.PutObject(ctx, minioctrl.TextbookBucket, objectName, req.Content, "text/plain"); err != nil {
		return nil, fmt.Errorf("failed to store raw chapter: %w", err)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.overlap),
	)
	chunks, err := splitter.SplitText(string(req.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to split chapter text: %w", err)
	}

	offset := 0
	for i, text := range chunks {
		vector, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		chunkID := s.snowflake.Generate().String()
		err = s.index.AddChunk(ctx, chunkID, vector, tutor.TextChunk{
			Text:       text,
			Subject:    req.Subject,
			ClassLevel: req.ClassLevel,
			Chapter:    req.Chapter,
			Page:       PageOf(offset),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}

		offset += len(text) - s.overlap
		if onChunk != nil {
			onChunk(i+1, len(chunks))
		}
	}

	return &Result{ObjectName: objectName, Chunks: len(chunks)}, nil
}

// PageOf estimates the 1-based page a character offset falls on.
func PageOf(offset int) int {
	if offset < 0 {
		offset = 0
	}
	return offset/charsPerPage + 1
}
