// Package scheduler runs the bot cycle: ingest new entries from all feeds, publish them, sweep badly scored
// submissions, prune old stories and persist the feed document. The poller adapts its sleep interval
// to transient failures and stops on anything it can't classify.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2reddit/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/formatter.go -pkg mocks -skip-ensure -fmt goimports . Formatter
//go:generate moq -out mocks/poster.go -pkg mocks -skip-ensure -fmt goimports . Poster
//go:generate moq -out mocks/moderator.go -pkg mocks -skip-ensure -fmt goimports . Moderator
//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/alerter.go -pkg mocks -skip-ensure -fmt goimports . Alerter

// Fetcher loads entries of a feed
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.FeedEntry, error)
}

// Formatter makes a postable unit from an entry
type Formatter interface {
	Format(entry domain.FeedEntry, postType, subreddit string, raw bool) (domain.PostableUnit, error)
}

// Poster submits posts and replies
type Poster interface {
	Submit(ctx context.Context, subreddit, title, text string) (string, error)
	Reply(ctx context.Context, parent, text string) (string, error)
}

// Moderator lists and removes the bot's own submissions
type Moderator interface {
	Submitted(ctx context.Context, user string, limit int) ([]domain.Submission, error)
	Delete(ctx context.Context, fullname string) error
}

// FeedStore owns feed definitions and persists them
type FeedStore interface {
	Feeds() []*domain.FeedDefinition
	Save(ctx context.Context) error
}

// Alerter notifies the operator
type Alerter interface {
	Alert(ctx context.Context, to, subject, body string) error
}

// maxBackoff caps the interval at this multiple of the base interval
const maxBackoff = 64

// Params defines everything the poller needs
type Params struct {
	Store     FeedStore
	Fetcher   Fetcher
	Formatter Formatter
	Poster    Poster
	Moderator Moderator // optional, no sweep if nil
	Alerter   Alerter   // optional

	Username        string
	Subreddit       string // default target for feeds without one
	AlertTo         string
	Submit          bool
	Once            bool
	BaseInterval    time.Duration
	ReplyDelay      time.Duration
	RetentionMonths int

	ModerationLimit     int
	ModerationThreshold int
}

// Status is a snapshot of the poller state
type Status struct {
	Submit       bool          `json:"submit"`
	Interval     time.Duration `json:"interval"`
	BaseInterval time.Duration `json:"base_interval"`
	Cycles       int           `json:"cycles"`
	Posted       int           `json:"posted"`
	Deleted      int           `json:"deleted"`
	LastCycle    time.Time     `json:"last_cycle"`
	LastError    string        `json:"last_error,omitempty"`
}

// Poller runs cycles one after another with an adaptive interval
type Poller struct {
	store     FeedStore
	ingester  *Ingester
	publisher *Publisher
	sweeper   *Sweeper
	alerter   Alerter

	alertTo   string
	submit    bool
	once      bool
	retention int
	base      time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	status Status
}

// NewPoller makes a poller from params, zero values get defaults
func NewPoller(p Params) *Poller {
	if p.BaseInterval <= 0 {
		p.BaseInterval = 10 * time.Minute
	}
	if p.RetentionMonths <= 0 {
		p.RetentionMonths = 18
	}
	if p.ModerationLimit <= 0 {
		p.ModerationLimit = 25
	}

	res := &Poller{
		store:     p.Store,
		ingester:  NewIngester(p.Fetcher, p.Formatter, p.Subreddit),
		publisher: NewPublisher(p.Poster, p.ReplyDelay),
		alerter:   p.Alerter,
		alertTo:   p.AlertTo,
		submit:    p.Submit,
		once:      p.Once,
		retention: p.RetentionMonths,
		base:      p.BaseInterval,
		now:       time.Now,
		sleep:     sleepCtx,
		status:    Status{Submit: p.Submit, Interval: p.BaseInterval, BaseInterval: p.BaseInterval},
	}
	if p.Moderator != nil {
		res.sweeper = NewSweeper(p.Moderator, p.Username, p.ModerationLimit, p.ModerationThreshold, p.Submit)
	}
	return res
}

// Run executes cycles until the context is canceled, a fatal error happens or, in once mode, after the first cycle.
// Transient failures double the interval, successful cycles halve it back toward the base.
func (p *Poller) Run(ctx context.Context) error {
	lgr.Printf("[INFO] poller started, interval %v, submit %v, once %v", p.base, p.submit, p.once)
	for {
		err := p.Cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case err == nil:
			p.recovered()
		case IsTransient(err):
			p.backoff(err)
		default:
			lgr.Printf("[ERROR] cycle failed, can't recover: %v", err)
			return fmt.Errorf("cycle failed: %w", err)
		}

		if p.once {
			lgr.Printf("[INFO] single run completed")
			return nil
		}

		// dry runs sleep too, only once mode skips the wait
		interval := p.Status().Interval
		if interval > 2*p.base {
			p.alert(ctx, interval)
		}
		lgr.Printf("[DEBUG] sleeping for %v", interval)
		if err := p.sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// Cycle ingests all feeds in order, publishes what was accepted, sweeps own submissions,
// prunes stale stories and saves the feed document if anything changed.
// The first error aborts the cycle.
func (p *Poller) Cycle(ctx context.Context) error {
	observed := map[string]struct{}{}
	changed := false
	feeds := p.store.Feeds()

	for _, feed := range feeds {
		unit, err := p.ingester.IngestFeed(ctx, feed, observed)
		if err != nil {
			return fmt.Errorf("ingest feed %s: %w", feed.Name, err)
		}
		if unit == nil {
			continue
		}

		if !p.submit {
			changed = true
			lgr.Printf("[INFO] dry run, not submitting %q to /r/%s (%d segments)", unit.Title, unit.Subreddit, len(unit.Segments))
			for i, seg := range unit.Segments {
				lgr.Printf("[DEBUG] segment %d:\n%s", i, seg)
			}
			continue
		}

		if root, err := p.publisher.Publish(ctx, *unit); err != nil {
			if root != "" { // root post is live, keep the story even if replies failed
				p.update(func(s *Status) { s.Posted++ })
				if serr := p.store.Save(ctx); serr != nil {
					lgr.Printf("[WARN] can't save feeds after partial post %s: %v", root, serr)
				}
			}
			return fmt.Errorf("publish entry of feed %s: %w", feed.Name, err)
		}
		p.update(func(s *Status) { s.Posted++ })
		// save right away, a failure later in this cycle must not cause a repost after restart
		if err := p.store.Save(ctx); err != nil {
			return fmt.Errorf("save feeds after post: %w", err)
		}
	}

	if p.sweeper != nil {
		deleted, err := p.sweeper.Sweep(ctx)
		p.update(func(s *Status) { s.Deleted += deleted })
		if err != nil {
			return fmt.Errorf("sweep submissions: %w", err)
		}
	}

	threshold := p.now().AddDate(0, -p.retention, 0)
	for _, feed := range feeds {
		if Prune(feed, observed, threshold) {
			changed = true
		}
	}

	if changed {
		if err := p.store.Save(ctx); err != nil {
			return fmt.Errorf("save feeds: %w", err)
		}
	}
	return nil
}

// Status returns a copy of the current state
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) update(fn func(s *Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.status)
}

// recovered halves the interval after a successful cycle, never below the base
func (p *Poller) recovered() {
	p.update(func(s *Status) {
		s.Cycles++
		s.LastCycle = p.now()
		s.LastError = ""
		if s.Interval > p.base {
			s.Interval = max(s.Interval/2, p.base)
			lgr.Printf("[INFO] cycle succeeded, interval reduced to %v", s.Interval)
		}
	})
}

// backoff doubles the interval after a transient failure, up to maxBackoff times the base
func (p *Poller) backoff(err error) {
	p.update(func(s *Status) {
		s.Cycles++
		s.LastCycle = p.now()
		s.LastError = err.Error()
		s.Interval = min(s.Interval*2, maxBackoff*p.base)
		lgr.Printf("[INFO] transient failure, interval increased to %v: %v", s.Interval, err)
	})
}

// alert notifies the operator about a long sleep, failures only logged
func (p *Poller) alert(ctx context.Context, interval time.Duration) {
	if p.alerter == nil || p.alertTo == "" {
		return
	}
	st := p.Status()
	subj := fmt.Sprintf("feed2reddit sleeping for %v", interval)
	body := strings.Join([]string{
		fmt.Sprintf("sleep interval grew to %v, base interval is %v", interval, p.base),
		fmt.Sprintf("cycles: %d, posted: %d", st.Cycles, st.Posted),
		"last error: " + st.LastError,
	}, "\n")
	if err := p.alerter.Alert(ctx, p.alertTo, subj, body); err != nil {
		lgr.Printf("[WARN] can't send alert to %s: %v", p.alertTo, err)
		return
	}
	lgr.Printf("[INFO] alert sent to %s, interval %v", p.alertTo, interval)
}
