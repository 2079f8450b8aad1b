package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/feed2reddit/pkg/domain"
)

// Mirror keeps a copy of the feed document outside of the local file
type Mirror interface {
	Load(ctx context.Context) ([]byte, error) // nil if nothing stored yet
	Store(ctx context.Context, data []byte) error
}

// FeedStore owns feed definitions loaded from the feed document and writes them back
type FeedStore struct {
	path   string
	mirror Mirror
	feeds  []*domain.FeedDefinition
}

type feedDocument struct {
	RSSFeeds map[string]*domain.FeedDefinition `yaml:"rss_feeds"`
}

// NewFeedStore makes a store for the document at path, mirror is optional
func NewFeedStore(path string, mirror Mirror) *FeedStore {
	return &FeedStore{path: path, mirror: mirror}
}

// Load reads the feed document. If the mirror holds a copy, it replaces the local file first.
// Mirror failures are logged and the local file is used as is.
func (s *FeedStore) Load(ctx context.Context) error {
	if s.mirror != nil {
		data, err := s.mirror.Load(ctx)
		switch {
		case err != nil:
			lgr.Printf("[WARN] can't load feeds from mirror, using %s: %v", s.path, err)
		case len(data) > 0:
			if err := writeFileAtomic(s.path, data); err != nil {
				return fmt.Errorf("restore feeds from mirror: %w", err)
			}
			lgr.Printf("[INFO] feeds restored from mirror to %s", s.path)
		}
	}

	data, err := os.ReadFile(s.path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return fmt.Errorf("read feeds file: %w", err)
	}

	var doc feedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse feeds: %w", err)
	}

	feeds := make([]*domain.FeedDefinition, 0, len(doc.RSSFeeds))
	for name, f := range doc.RSSFeeds {
		if f == nil {
			return fmt.Errorf("feed %s is empty", name)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %s has no url", name)
		}
		f.Name = name
		feeds = append(feeds, f)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].Name < feeds[j].Name })
	s.feeds = feeds
	lgr.Printf("[DEBUG] loaded %d feeds from %s", len(feeds), s.path)
	return nil
}

// Feeds returns feed definitions ordered by name. Changes made to them are persisted by Save.
func (s *FeedStore) Feeds() []*domain.FeedDefinition {
	return s.feeds
}

// Save writes the feed document with stories sorted most recent first, then updates the mirror.
// Mirror failures are logged only.
func (s *FeedStore) Save(ctx context.Context) error {
	doc := feedDocument{RSSFeeds: make(map[string]*domain.FeedDefinition, len(s.feeds))}
	for _, f := range s.feeds {
		f.SortStories()
		doc.RSSFeeds[f.Name] = f
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal feeds: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write feeds file: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Store(ctx, data); err != nil {
			lgr.Printf("[WARN] can't mirror feeds, local copy only: %v", err)
		}
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
