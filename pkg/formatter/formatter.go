// Package formatter turns a feed entry into a postable unit: title, target subreddit and markdown segments
// with the entry link on top of the first segment and the bot signature at the end of the last one.
package formatter

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/feed2reddit/pkg/domain"
	"github.com/umputun/feed2reddit/pkg/markdown"
)

// ErrMalformedEntry returned for entries missing required fields
var ErrMalformedEntry = errors.New("malformed entry")

var (
	urlRe    = regexp.MustCompile(`(https?://[\da-zA-Z.\-]+\.[a-zA-Z.]{2,6}[/\w&;=#.\-?]*)`)
	spacesRe = regexp.MustCompile(`  +`)

	// entities that show up literally in raw feeds (twitter-like aggregators)
	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&#xa0;", " ",
		"&#x2026;", " ...",
		"&#x27;", "'",
		"&bull;", "*",
		"&middot;", "*",
		"&ldquo;", "'",
		"&rdquo;", "'",
		" pic.twitter.com", " http://pic.twitter.com",
	)
)

// Formatter builds postable units from feed entries
type Formatter struct {
	maxLen    int
	signature string
	titles    *bluemonday.Policy
}

// New makes a formatter with the given segment cap and signature appended to the last segment
func New(maxLen int, signature string) *Formatter {
	if maxLen <= 0 {
		maxLen = markdown.DefaultMaxLength
	}
	return &Formatter{maxLen: maxLen, signature: signature, titles: bluemonday.StrictPolicy()}
}

// Format converts the entry into a postable unit for the given post type and subreddit.
// In raw mode the entry title is the only usable text, so the body is derived from it.
func (f *Formatter) Format(entry domain.FeedEntry, postType, subreddit string, raw bool) (domain.PostableUnit, error) {
	if entry.Link == "" {
		return domain.PostableUnit{}, fmt.Errorf("%w: missing link for %q", ErrMalformedEntry, entry.ID)
	}
	if entry.Title == "" {
		return domain.PostableUnit{}, fmt.Errorf("%w: missing title for %q", ErrMalformedEntry, entry.ID)
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}
	lgr.Printf("[DEBUG] entry %s body: %s", entry.ID, body)

	title := entry.Title
	if raw {
		title = entityReplacer.Replace(urlRe.ReplaceAllString(entry.Title, ""))
		body = rawBody(entry.Title)
	}

	if strings.Contains(body, "tumblr.com") {
		body = strings.ReplaceAll(body, "_500.", "_1280.") // larger images, hopefully they exist
	}
	body = spacesRe.ReplaceAllString(body, " ")

	segments := markdown.Transcode(body, f.maxLen)
	segments[0] = entry.Link + "\n\n" + segments[0]
	segments[len(segments)-1] += f.signature

	return domain.PostableUnit{
		Title:     f.postTitle(postType, title, entry.Author),
		Link:      entry.Link,
		Subreddit: subreddit,
		Segments:  segments,
	}, nil
}

// postTitle makes "[type] title ~author", markup in the title is dropped
func (f *Formatter) postTitle(postType, title, author string) string {
	title = html.UnescapeString(f.titles.Sanitize(title))
	res := fmt.Sprintf("[%s] %s", postType, strings.TrimSpace(title))
	if author != "" {
		res += " ~" + strings.ReplaceAll(author, "@", " at ")
	}
	return res
}

// rawBody makes an html body from a raw title, urls become "link" anchors
func rawBody(title string) string {
	res := entityReplacer.Replace(title)
	res = urlRe.ReplaceAllString(res, `<a href="$1">link</a>`)
	res = coerceText(res)
	return strings.ReplaceAll(res, "…", " ...")
}
