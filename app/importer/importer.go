package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/lysyi3m/impacto-diario/app/news"
)

const maxPageSize = 10 * 1024 * 1024

type Importer struct {
	client    *http.Client
	userAgent string
}

func NewImporter(userAgent string, timeout time.Duration) *Importer {
	return &Importer{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Run downloads rawURL and returns an unsaved draft article whose content is
// written in the site's markup dialect.
func (i *Importer) Run(ctx context.Context, rawURL string) (*news.Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	data, err := i.fetch(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}

	return Extract(data, pageURL)
}

func (i *Importer) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", i.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	return data, nil
}

// Extract isolates the main content of an HTML page and converts it into a
// draft article.
func Extract(data []byte, pageURL *url.URL) (*news.Article, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	content, err := ToMarkup(article.Content)
	if err != nil {
		return nil, err
	}

	draft := &news.Article{
		Title:    strings.TrimSpace(article.Title),
		Summary:  strings.TrimSpace(article.Excerpt),
		Content:  content,
		ImageURL: article.Image,
		Author:   strings.TrimSpace(article.Byline),
		Category: news.CategoryPrincipal,
	}
	draft.Slug = news.Slugify(draft.Title)

	slog.Debug("Article extracted",
		"url", pageURL.String(),
		"title", draft.Title,
		"content_length", len(draft.Content))

	return draft, nil
}
