package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// tagRule defines what a tag does when it opens and when it closes. nil actions are no-ops.
type tagRule struct {
	open  func(s *state, attrs []html.Attribute)
	close func(s *state)
}

// tagRules maps lowercase tag names to their rules. Tags missing here are reported as unhandled.
var tagRules = buildTagRules()

func buildTagRules() map[string]tagRule {
	emit := func(v string) func(s *state, _ []html.Attribute) {
		return func(s *state, _ []html.Attribute) { s.write(v) }
	}
	marker := func(m string) tagRule {
		return tagRule{
			open: func(s *state, _ []html.Attribute) {
				s.asterisk = true
				s.write(m)
			},
			close: func(s *state) { s.closeMarker(m) },
		}
	}
	blockEnd := func(s *state) {
		if !s.inTable {
			s.write("\n\n")
		}
	}
	doubleNewline := func(s *state) { s.write("\n\n") }
	noop := tagRule{}

	rules := map[string]tagRule{
		"p": {
			open: func(s *state, _ []html.Attribute) {
				if len(s.cur()) >= s.maxLen {
					s.rollover()
				}
			},
			close: blockEnd,
		},
		"br":         {open: emit("\n\n"), close: blockEnd},
		"blockquote": {open: emit("\n\n> "), close: doubleNewline},
		"hr":         {open: emit("\n\n-----\n\n")},
		"em":         marker("*"),
		"i":          marker("*"),
		"strong":     marker("**"),
		"b":          marker("**"),
		"strike":     marker("~~"),
		"s":          marker("~~"),
		"sup":        {open: emit("^")},
		"ul":         {close: doubleNewline},
		"ol":         {close: doubleNewline},
		"li": {
			open: func(s *state, _ []html.Attribute) { s.openListItem() },
			close: func(s *state) {
				s.inList = false
				s.write("\n")
			},
		},
		"a": {
			open: func(s *state, attrs []html.Attribute) {
				s.inAnchor = true
				s.href = attr(attrs, "href")
				s.write("[")
			},
			close: func(s *state) {
				s.inAnchor = false
				s.write("](" + s.href + ")")
			},
		},
		"img": {
			open: func(s *state, attrs []html.Attribute) {
				if s.inAnchor {
					s.write("image")
					return
				}
				s.write("[image](" + attr(attrs, "src") + ")")
			},
		},
		"table": {
			open: func(s *state, _ []html.Attribute) {
				s.inTable = true
				s.firstRow = true
			},
			close: func(s *state) { s.inTable = false },
		},
		"tr": {
			close: func(s *state) {
				if s.firstRow {
					s.write("|\n" + s.tableHeader)
					s.firstRow = false
					s.tableHeader = ""
				}
				s.write("|\n")
			},
		},
		"tbody": noop,
		"span":  noop,
		"font":  noop,
		"u":     noop,
		"div":   noop,
	}

	cell := tagRule{
		open: func(s *state, _ []html.Attribute) {
			s.write("| ")
			if s.firstRow {
				s.tableHeader += "|:-"
			}
		},
	}
	rules["td"] = cell
	rules["th"] = cell

	for level := 1; level <= 6; level++ {
		hashes := strings.Repeat("#", level)
		rules["h"+string(rune('0'+level))] = tagRule{
			open:  emit("\n" + hashes),
			close: func(s *state) { s.write(hashes + "\n\n") },
		}
	}

	return rules
}
