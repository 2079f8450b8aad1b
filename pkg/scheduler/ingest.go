package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2reddit/pkg/domain"
)

// Ingester picks at most one new entry per feed and turns it into a postable unit
type Ingester struct {
	fetcher   Fetcher
	formatter Formatter
	subreddit string // used for feeds without their own target
	now       func() time.Time
}

// NewIngester makes an ingester with the default target subreddit
func NewIngester(fetcher Fetcher, formatter Formatter, subreddit string) *Ingester {
	return &Ingester{fetcher: fetcher, formatter: formatter, subreddit: subreddit, now: time.Now}
}

// IngestFeed fetches the feed and returns the first entry not in its story list, formatted for posting.
// Every fetched identifier is added to observed. The accepted entry is recorded in the story list right away,
// whether or not it gets submitted later. Returns nil unit if the feed is unavailable or has nothing new.
func (i *Ingester) IngestFeed(ctx context.Context, feed *domain.FeedDefinition, observed map[string]struct{}) (*domain.PostableUnit, error) {
	entries, err := i.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		lgr.Printf("[WARN] can't fetch feed %s from %s: %v", feed.Name, feed.URL, err)
		return nil, nil
	}
	if len(entries) == 0 {
		lgr.Printf("[DEBUG] feed %s returned no entries", feed.Name)
		return nil, nil
	}

	var fresh *domain.FeedEntry
	for idx := range entries {
		observed[entries[idx].ID] = struct{}{}
		if fresh == nil && !feed.HasStory(entries[idx].ID) {
			fresh = &entries[idx]
		}
	}
	if fresh == nil {
		lgr.Printf("[DEBUG] nothing new in feed %s, %d entries checked", feed.Name, len(entries))
		return nil, nil
	}

	subreddit := feed.Subreddit
	if subreddit == "" {
		subreddit = i.subreddit
	}
	unit, err := i.formatter.Format(*fresh, feed.Type, subreddit, feed.Raw)
	if err != nil {
		return nil, fmt.Errorf("format entry %s of feed %s: %w", fresh.ID, feed.Name, err)
	}
	feed.AddStory(fresh.ID, i.now())
	lgr.Printf("[INFO] new entry in feed %s: %s", feed.Name, fresh.ID)
	return &unit, nil
}

// Prune removes stories missing from the observed identifiers and first seen before the threshold.
// Returns true if anything was removed.
func Prune(feed *domain.FeedDefinition, observed map[string]struct{}, threshold time.Time) bool {
	kept := feed.Stories[:0]
	removed := 0
	for _, s := range feed.Stories {
		if _, ok := observed[s.PostURL]; !ok && s.Date.Before(threshold) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	if removed == 0 {
		return false
	}
	feed.Stories = kept
	lgr.Printf("[DEBUG] pruned %d stories from feed %s", removed, feed.Name)
	return true
}
