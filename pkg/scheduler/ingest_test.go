package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2reddit/pkg/domain"
	"github.com/umputun/feed2reddit/pkg/formatter"
	"github.com/umputun/feed2reddit/pkg/scheduler/mocks"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func entries(ids ...string) []domain.FeedEntry {
	res := make([]domain.FeedEntry, 0, len(ids))
	for _, id := range ids {
		res = append(res, domain.FeedEntry{ID: id, Title: "title " + id, Link: "http://example.com/" + id})
	}
	return res
}

func echoFormatter() *mocks.FormatterMock {
	return &mocks.FormatterMock{
		FormatFunc: func(entry domain.FeedEntry, postType, subreddit string, raw bool) (domain.PostableUnit, error) {
			return domain.PostableUnit{Title: "[" + postType + "] " + entry.Title, Link: entry.Link,
				Subreddit: subreddit, Segments: []string{entry.Link}}, nil
		},
	}
}

func TestIngester_IngestFeed(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string) ([]domain.FeedEntry, error) {
			return entries("A", "B", "C"), nil
		},
	}
	fmtr := echoFormatter()
	ing := NewIngester(fetcher, fmtr, "default")
	ing.now = func() time.Time { return testNow }

	feed := &domain.FeedDefinition{Name: "f1", URL: "http://feed", Type: "News",
		Stories: []domain.SeenStory{{PostURL: "A", Date: testNow.Add(-time.Hour)}, {PostURL: "B", Date: testNow.Add(-time.Hour)}}}
	observed := map[string]struct{}{}

	unit, err := ing.IngestFeed(context.Background(), feed, observed)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "[News] title C", unit.Title)
	assert.Equal(t, "default", unit.Subreddit, "feed without own target uses default")

	assert.Equal(t, map[string]struct{}{"A": {}, "B": {}, "C": {}}, observed)
	require.Len(t, feed.Stories, 3)
	assert.Equal(t, domain.SeenStory{PostURL: "C", Date: testNow}, feed.Stories[2])

	require.Len(t, fmtr.FormatCalls(), 1)
	assert.Equal(t, "C", fmtr.FormatCalls()[0].Entry.ID)
	assert.Equal(t, "http://feed", fetcher.FetchCalls()[0].URL)
}

func TestIngester_OnePerCycle(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string) ([]domain.FeedEntry, error) {
			return entries("A", "B", "C"), nil
		},
	}
	ing := NewIngester(fetcher, echoFormatter(), "default")
	feed := &domain.FeedDefinition{Name: "f1", URL: "http://feed", Type: "News", Subreddit: "own"}

	var got []string
	for i := 0; i < 5; i++ {
		unit, err := ing.IngestFeed(context.Background(), feed, map[string]struct{}{})
		require.NoError(t, err)
		if unit != nil {
			got = append(got, unit.Link)
			assert.Equal(t, "own", unit.Subreddit)
		}
	}
	assert.Equal(t, []string{"http://example.com/A", "http://example.com/B", "http://example.com/C"}, got, "oldest first, one per cycle")

	ids := map[string]int{}
	for _, s := range feed.Stories {
		ids[s.PostURL]++
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, ids, "each identifier at most once")
}

func TestIngester_FetchFailure(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string) ([]domain.FeedEntry, error) {
			return nil, errors.New("fetch feed: connection refused")
		},
	}
	fmtr := echoFormatter()
	ing := NewIngester(fetcher, fmtr, "default")
	feed := &domain.FeedDefinition{Name: "f1", URL: "http://feed"}

	unit, err := ing.IngestFeed(context.Background(), feed, map[string]struct{}{})
	require.NoError(t, err, "unavailable feed is not an error")
	assert.Nil(t, unit)
	assert.Empty(t, feed.Stories)
	assert.Empty(t, fmtr.FormatCalls())
}

func TestIngester_NothingNew(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string) ([]domain.FeedEntry, error) {
			return entries("A"), nil
		},
	}
	ing := NewIngester(fetcher, echoFormatter(), "default")
	feed := &domain.FeedDefinition{Name: "f1", Stories: []domain.SeenStory{{PostURL: "A", Date: testNow}}}

	unit, err := ing.IngestFeed(context.Background(), feed, map[string]struct{}{})
	require.NoError(t, err)
	assert.Nil(t, unit)
	assert.Len(t, feed.Stories, 1)
}

func TestIngester_MalformedEntry(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(ctx context.Context, url string) ([]domain.FeedEntry, error) {
			return []domain.FeedEntry{{ID: "X", Title: "no link"}}, nil
		},
	}
	ing := NewIngester(fetcher, formatter.New(8000, ""), "default")
	feed := &domain.FeedDefinition{Name: "f1"}

	_, err := ing.IngestFeed(context.Background(), feed, map[string]struct{}{})
	require.ErrorIs(t, err, formatter.ErrMalformedEntry)
	assert.False(t, IsTransient(err))
	assert.Empty(t, feed.Stories, "story not recorded for a rejected entry")
}

func TestPrune(t *testing.T) {
	threshold := testNow.AddDate(0, -18, 0)
	old := threshold.Add(-time.Hour)
	recent := threshold.Add(time.Hour)

	feed := &domain.FeedDefinition{Name: "f1", Stories: []domain.SeenStory{
		{PostURL: "old-gone", Date: old},
		{PostURL: "old-present", Date: old},
		{PostURL: "recent-gone", Date: recent},
		{PostURL: "recent-present", Date: recent},
	}}
	observed := map[string]struct{}{"old-present": {}, "recent-present": {}}

	assert.True(t, Prune(feed, observed, threshold))
	ids := make([]string, 0, len(feed.Stories))
	for _, s := range feed.Stories {
		ids = append(ids, s.PostURL)
	}
	assert.Equal(t, []string{"old-present", "recent-gone", "recent-present"}, ids)

	assert.False(t, Prune(feed, observed, threshold), "nothing left to prune")
	assert.Len(t, feed.Stories, 3)
}

func TestPrune_NeverRemovesObserved(t *testing.T) {
	feed := &domain.FeedDefinition{Name: "f1", Stories: []domain.SeenStory{
		{PostURL: "ancient", Date: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	assert.False(t, Prune(feed, map[string]struct{}{"ancient": {}}, testNow))
	assert.Len(t, feed.Stories, 1)
}
