// Package metadata persists small key/value blobs of the console client
// (the signed-in session, the last used category) in the local SQLite
// database.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeySession  = "session"
	KeyCategory = "category"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
	Clear(ctx context.Context) error
}
