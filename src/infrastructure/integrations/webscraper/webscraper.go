package webscraper

import (
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"

	"vidya/src/infrastructure/log"
)

// Page is the readable content extracted from one URL.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Scraper crawls seed URLs and extracts readable article text.
type Scraper struct {
	allowedDomains []string
	maxDepth       int
	maxPages       int
	fetchTimeout   time.Duration
}

func NewScraper(allowedDomains []string, maxDepth, maxPages int) *Scraper {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	return &Scraper{
		allowedDomains: allowedDomains,
		maxDepth:       maxDepth,
		maxPages:       maxPages,
		fetchTimeout:   30 * time.Second,
	}
}

// Crawl visits the seed URL, following same-domain links up to the
// configured depth, and returns the readable pages found.
func (s *Scraper) Crawl(seedURL string) ([]Page, error) {
	opts := []colly.CollectorOption{
		colly.MaxDepth(s.maxDepth),
	}
	if len(s.allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(s.allowedDomains...))
	}
	collector := colly.NewCollector(opts...)

	var urls []string
	collector.OnRequest(func(r *colly.Request) {
		if len(urls) < s.maxPages {
			urls = append(urls, r.URL.String())
		}
	})
	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(urls) >= s.maxPages {
			return
		}
		if err := e.Request.Visit(e.Attr("href")); err != nil {
			// Already-visited and off-domain links are expected here.
			log.Debug("skipping link", "url", e.Attr("href"), "reason", err.Error())
		}
	})

	if err := collector.Visit(seedURL); err != nil {
		return nil, fmt.Errorf("failed to crawl %s: %w", seedURL, err)
	}
	collector.Wait()

	pages := make([]Page, 0, len(urls))
	for _, u := range urls {
		article, err := readability.FromURL(u, s.fetchTimeout)
		if err != nil {
			log.Error(err, "failed to extract readable content", "url", u)
			continue
		}
		text := strings.TrimSpace(article.TextContent)
		if text == "" {
			continue
		}
		pages = append(pages, Page{
			URL:   u,
			Title: article.Title,
			Text:  text,
		})
	}

	return pages, nil
}
