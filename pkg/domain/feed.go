package domain

import (
	"sort"
	"time"
)

// FeedDefinition is a configured feed together with its dedup state
type FeedDefinition struct {
	Name      string      `yaml:"-"`
	URL       string      `yaml:"url"`
	Type      string      `yaml:"type"`      // post type label, e.g. "News"
	Subreddit string      `yaml:"subreddit"` // target location
	Raw       bool        `yaml:"raw"`
	Stories   []SeenStory `yaml:"stories"`
}

// SeenStory records an accepted entry identifier and when it was first seen
type SeenStory struct {
	PostURL string    `yaml:"posturl"`
	Date    time.Time `yaml:"date"`
}

// HasStory reports whether the identifier is already in the story list
func (f *FeedDefinition) HasStory(id string) bool {
	for _, s := range f.Stories {
		if s.PostURL == id {
			return true
		}
	}
	return false
}

// AddStory appends a story unless its identifier is already known. Returns true if added.
func (f *FeedDefinition) AddStory(id string, ts time.Time) bool {
	if f.HasStory(id) {
		return false
	}
	f.Stories = append(f.Stories, SeenStory{PostURL: id, Date: ts})
	return true
}

// SortStories orders stories by first-seen date, most recent first
func (f *FeedDefinition) SortStories() {
	sort.SliceStable(f.Stories, func(i, j int) bool {
		return f.Stories[i].Date.After(f.Stories[j].Date)
	})
}
