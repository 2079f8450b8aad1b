package scheduler

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"
)

// Sweeper removes the bot's own poorly received submissions
type Sweeper struct {
	moderator Moderator
	user      string
	limit     int
	threshold int
	delete    bool
}

// NewSweeper makes a sweeper checking the last limit submissions of user.
// Submissions scoring at or below threshold are deleted if del is set, otherwise only reported.
func NewSweeper(moderator Moderator, user string, limit, threshold int, del bool) *Sweeper {
	return &Sweeper{moderator: moderator, user: user, limit: limit, threshold: threshold, delete: del}
}

// Sweep checks recent submissions and returns the number of deleted ones
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	subs, err := s.moderator.Submitted(ctx, s.user, s.limit)
	if err != nil {
		return 0, fmt.Errorf("get submissions of %s: %w", s.user, err)
	}

	deleted := 0
	for _, sub := range subs {
		if sub.Score() > s.threshold {
			continue
		}
		if !s.delete {
			lgr.Printf("[INFO] low score %d for %s %q, not deleting in dry mode", sub.Score(), sub.ID, sub.Title)
			continue
		}
		if err := s.moderator.Delete(ctx, sub.ID); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", sub.ID, err)
		}
		deleted++
		lgr.Printf("[INFO] deleted %s %q, score %d", sub.ID, sub.Title, sub.Score())
	}
	return deleted, nil
}
