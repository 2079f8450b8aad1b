package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2reddit/pkg/domain"
)

// Publisher posts a unit as a root submission followed by a chain of replies
type Publisher struct {
	poster Poster
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPublisher makes a publisher waiting delay between replies
func NewPublisher(poster Poster, delay time.Duration) *Publisher {
	return &Publisher{poster: poster, delay: delay, sleep: sleepCtx}
}

// Publish submits the first segment and replies with the rest, each reply to the previous one.
// Returns the fullname of the root submission.
func (p *Publisher) Publish(ctx context.Context, unit domain.PostableUnit) (string, error) {
	if len(unit.Segments) == 0 {
		return "", fmt.Errorf("publish %q: no segments", unit.Title)
	}

	root, err := p.poster.Submit(ctx, unit.Subreddit, unit.Title, unit.Segments[0])
	if err != nil {
		return "", fmt.Errorf("submit %q to %s: %w", unit.Title, unit.Subreddit, err)
	}
	lgr.Printf("[INFO] submitted %s to /r/%s: %s", root, unit.Subreddit, unit.Title)

	parent := root
	for i, seg := range unit.Segments[1:] {
		if err := p.sleep(ctx, p.delay); err != nil {
			return root, fmt.Errorf("wait before reply %d: %w", i+1, err)
		}
		id, err := p.poster.Reply(ctx, parent, seg)
		if err != nil {
			return root, fmt.Errorf("reply %d to %s: %w", i+1, parent, err)
		}
		lgr.Printf("[DEBUG] reply %d posted as %s under %s", i+1, id, parent)
		parent = id
	}
	return root, nil
}

// sleepCtx waits for d or until the context is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
