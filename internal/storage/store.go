package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoSQL is returned when a relational operation reaches a key-value-only
// backend. The message is surfaced verbatim to admin callers.
var ErrNoSQL = errors.New("SQL is not available for this instance")

// Store is the narrow persistence surface the admin layer needs: plain
// key-value access plus the single optional alarm timestamp. A Store value
// owns exactly one actor instance's data.
type Store interface {
	// Get returns the stored value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	// Keys enumerates every stored key.
	Keys(ctx context.Context) ([]string, error)
	// PutAll writes every entry of the mapping in one call.
	PutAll(ctx context.Context, entries map[string]json.RawMessage) error

	// Alarm returns the scheduled wake-up in epoch milliseconds, or nil when
	// no alarm is set.
	Alarm(ctx context.Context) (*int64, error)
	SetAlarm(ctx context.Context, ts int64) error
	DeleteAlarm(ctx context.Context) error
}

// QueryResult carries the rows of one relational query along with the column
// names in result order.
type QueryResult struct {
	Rows    []map[string]any
	Columns []string
}

// Cataloger is the optional relational capability of a Store. Presence is
// checked with a type assertion; key-value-only backends simply do not
// implement it.
type Cataloger interface {
	// Tables lists user tables, hiding internal bookkeeping names.
	Tables(ctx context.Context) ([]string, error)
	// Query executes one SQL statement and materializes the result.
	Query(ctx context.Context, stmt string) (*QueryResult, error)
}
