package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"vidya/src/core/tutor"
)

const DefaultIndex = "web-content"

// WebPage is a scraped page stored in the web-content index.
type WebPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Subject string `json:"subject"`
	Topic   string `json:"topic,omitempty"`
}

// WebContentStore indexes and searches scraped supplementary content.
// It satisfies tutor.WebSource.
type WebContentStore struct {
	es    *elasticsearch.Client
	index string
}

func NewWebContentStore(es *elasticsearch.Client, index string) *WebContentStore {
	if index == "" {
		index = DefaultIndex
	}
	return &WebContentStore{es: es, index: index}
}

// Index stores one scraped page.
func (s *WebContentStore) Index(ctx context.Context, page WebPage) error {
	body, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal web page: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithDocumentID(uuid.New().String()),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index web page: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index web page: %s", res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source WebPage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchWeb runs a keyword query over the scraped pages, filtered by subject.
func (s *WebContentStore) SearchWeb(ctx context.Context, query, subject string, limit int) ([]tutor.WebPassage, error) {
	if limit <= 0 {
		limit = 3
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"match": map[string]interface{}{"text": query},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"subject": subject},
				},
			},
		},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(buf)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search web content: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to search web content: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	passages := make([]tutor.WebPassage, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		passages = append(passages, tutor.WebPassage{
			Title: hit.Source.Title,
			URL:   hit.Source.URL,
			Text:  hit.Source.Text,
			Score: hit.Score,
		})
	}
	return passages, nil
}
