package jobctrl

import (
	"context"
	"encoding/json"
	"fmt"

	"vidya/src/infrastructure/integrations/webscraper"
	"vidya/src/infrastructure/log"
	"vidya/src/storage/elastic"
)

const TaskTypeWebScrape = "web_scrape"

// WebScrapePayload names the seed URL to crawl and the subject the scraped
// pages belong to.
type WebScrapePayload struct {
	SeedURL        string   `json:"seed_url"`
	Subject        string   `json:"subject"`
	Topic          string   `json:"topic,omitempty"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	MaxDepth       int      `json:"max_depth,omitempty"`
	MaxPages       int      `json:"max_pages,omitempty"`
}

// WebScrapeTask crawls supplementary content and indexes it for keyword
// retrieval.
type WebScrapeTask struct {
	store *elastic.WebContentStore
}

func NewWebScrapeTask(store *elastic.WebContentStore) *WebScrapeTask {
	return &WebScrapeTask{store: store}
}

func (t *WebScrapeTask) Handle(ctx context.Context, payload json.RawMessage) error {
	var p WebScrapePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to unmarshal web scrape payload: %w", err)
	}
	if p.SeedURL == "" || p.Subject == "" {
		return fmt.Errorf("web scrape payload missing seed_url or subject")
	}

	scraper := webscraper.NewScraper(p.AllowedDomains, p.MaxDepth, p.MaxPages)
	pages, err := scraper.Crawl(p.SeedURL)
	if err != nil {
		return fmt.Errorf("failed to crawl seed url: %w", err)
	}

	indexed := 0
	for _, page := range pages {
		err := t.store.Index(ctx, elastic.WebPage{
			URL:     page.URL,
			Title:   page.Title,
			Text:    page.Text,
			Subject: p.Subject,
			Topic:   p.Topic,
		})
		if err != nil {
			log.Error(err, "failed to index scraped page", "url", page.URL)
			continue
		}
		indexed++
	}

	log.Info("scraped supplementary content", "seed", p.SeedURL, "pages", len(pages), "indexed", indexed)
	return nil
}
