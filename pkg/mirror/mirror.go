// Package mirror keeps a copy of the feed document in an external store, so dedup state
// survives a lost local file. Backend is picked by the DSN: redis:// urls go to redis, anything else is a sqlite file.
package mirror

import (
	"context"
	"fmt"
	"strings"
)

// Store is a document mirror with a lifecycle
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
	Close() error
}

// New opens the mirror for dsn and keeps the document under key
func New(ctx context.Context, dsn, key string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty mirror dsn")
	}
	if strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://") {
		return NewRedis(ctx, dsn, key)
	}
	return NewSQL(ctx, dsn, key)
}
