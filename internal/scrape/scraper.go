// Package scrape fetches institutional web pages and pulls out text blocks
// relevant to a query, used as the InfoBot's last resort before the fixed
// fallback message.
package scrape

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

type Scraper struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewScraper(timeout time.Duration, logger *zap.Logger) *Scraper {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Scrape fetches each URL in order and collects heading and paragraph text
// containing any whitespace-split token of the query. Failing URLs are
// skipped; results keep document then DOM order.
func (s *Scraper) Scrape(ctx context.Context, query string, urls []string) []string {
	keywords := strings.Fields(strings.ToLower(query))
	var sections []string

	for _, url := range urls {
		blocks, err := s.scrapeOne(ctx, url, keywords)
		if err != nil {
			s.logger.Error("fetch url failed", zap.String("url", url), zap.Error(err))
			continue
		}
		sections = append(sections, blocks...)
	}
	return sections
}

func (s *Scraper) scrapeOne(ctx context.Context, url string, keywords []string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("skip url with non-200 status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var blocks []string
	doc.Find("h1, h2, h3, h4, p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				blocks = append(blocks, text)
				return
			}
		}
	})
	return blocks, nil
}
