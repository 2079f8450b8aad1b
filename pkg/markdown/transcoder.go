// Package markdown converts feed HTML into reddit-flavored markdown split into length-bounded segments.
// Each segment maps to one post or reply, so the cap is checked before every append and a new segment
// is opened instead of slicing text in the middle.
package markdown

import (
	"io"
	"strings"
	"unicode"

	"github.com/go-pkgz/lgr"
	"golang.org/x/net/html"
)

// DefaultMaxLength is the default segment cap, comfortably below reddit's 10000 characters limit
const DefaultMaxLength = 8000

const listPrefix = "* "

// Transcode converts an HTML fragment into an ordered, non-empty list of markdown segments.
// Every sealed segment is shorter than maxLen unless a single text node is longer than the cap by itself.
func Transcode(fragment string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	st := &state{segments: []string{""}, maxLen: maxLen}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				lgr.Printf("[DEBUG] html tokenizer stopped: %v", err)
			}
			return st.segments
		case html.TextToken:
			st.text(string(z.Text()))
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "script" && tok.Data != "style" {
				z.NextIsNotRawText() // parse markup inside noscript, textarea, iframe and the like
			}
			st.open(tok.Data, tok.Attr)
		case html.SelfClosingTagToken:
			tok := z.Token()
			st.open(tok.Data, tok.Attr)
			st.close(tok.Data)
		case html.EndTagToken:
			name, _ := z.TagName()
			st.close(string(name))
		}
	}
}

// state is the mutable transcoding context shared by all tag rules
type state struct {
	segments []string
	maxLen   int

	asterisk    bool // inside em/strong/strike, leading whitespace of text is dropped
	inAnchor    bool
	inList      bool
	inTable     bool
	firstRow    bool
	href        string
	tableHeader string
}

func (s *state) cur() string { return s.segments[len(s.segments)-1] }

func (s *state) set(v string) { s.segments[len(s.segments)-1] = v }

func (s *state) write(v string) { s.segments[len(s.segments)-1] += v }

// rollover opens a new segment. An empty current segment is kept as is, there is nothing to seal.
// A list item prefix left without content is moved to the new segment.
func (s *state) rollover() {
	prev := s.cur()
	if prev == "" {
		return
	}
	s.segments = append(s.segments, "")
	if s.inList && strings.HasSuffix(prev, listPrefix) {
		s.segments[len(s.segments)-2] = strings.TrimSuffix(prev, listPrefix)
		s.openListItem()
	}
}

func (s *state) openListItem() {
	s.inList = true
	s.write(listPrefix)
}

// closeMarker closes an emphasis-like marker. Trailing whitespace is moved after the marker,
// so "*word *" never appears in the output.
func (s *state) closeMarker(marker string) {
	cur := s.cur()
	trimmed := strings.TrimRightFunc(cur, unicode.IsSpace)
	if trimmed == cur {
		s.write(marker)
		return
	}
	s.set(trimmed + marker + " ")
}

func (s *state) text(data string) {
	data = strings.Trim(data, "\n\t")
	if s.asterisk {
		data = strings.TrimLeftFunc(data, unicode.IsSpace)
	}
	if len(s.cur())+len(data) >= s.maxLen {
		s.rollover()
	}
	s.write(data)
}

func (s *state) open(tag string, attrs []html.Attribute) {
	r, ok := tagRules[tag]
	if !ok {
		lgr.Printf("[DEBUG] unhandled start tag: %s", tag)
		return
	}
	if r.open != nil {
		r.open(s, attrs)
	}
}

func (s *state) close(tag string) {
	s.asterisk = false // any end tag leaves emphasis context
	if r, ok := tagRules[tag]; ok && r.close != nil {
		r.close(s)
	}
}

func attr(attrs []html.Attribute, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
