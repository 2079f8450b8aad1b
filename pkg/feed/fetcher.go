// Package feed fetches and parses RSS/Atom feeds into domain entries
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/feed2reddit/pkg/domain"
)

// Fetcher retrieves feeds over http and parses them with gofeed
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher. The timeout applies to the whole request, body included.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch gets the feed and returns its entries in feed order
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]domain.FeedEntry, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]domain.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := domain.FeedEntry{
			ID:          item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
		}

		// identifier falls back to link, then to feed and item titles
		if entry.ID == "" {
			entry.ID = item.Link
		}
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("%s-%s", feed.Title, item.Title)
		}

		if item.Author != nil {
			entry.Author = item.Author.Name
			if entry.Author == "" {
				entry.Author = item.Author.Email
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// get retrieves the raw feed body
func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
