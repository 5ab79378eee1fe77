// Package cache provides a small TTL cache for backend responses, backed
// by SQLite. It lets read-heavy commands (journals, saved content, inbox)
// render recent data without a round trip and degrade gracefully when the
// backend is unreachable.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/astroworld-labs/murph/internal/db"
)

// DefaultTTL governs how long a cached payload is considered fresh.
const DefaultTTL = 5 * time.Minute

// ErrMiss is returned when a key is absent or its entry has expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON payloads keyed by backend endpoint.
type Cache struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// New creates a cache over the given database with the default TTL.
func New(database *db.DB) *Cache {
	return &Cache{db: database, ttl: DefaultTTL, now: time.Now}
}

// WithTTL returns a copy of the cache using the given TTL for new entries.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	clone := *c
	clone.ttl = ttl
	return &clone
}

// Get unmarshals the fresh payload for key into out. Expired or missing
// entries return ErrMiss.
func (c *Cache) Get(ctx context.Context, key string, out any) error {
	var payload string
	var expiresAt int64
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("key %s: %w", key, ErrMiss)
	}
	if err != nil {
		return fmt.Errorf("reading cache entry: %w", err)
	}

	if c.now().Unix() >= expiresAt {
		return fmt.Errorf("key %s expired: %w", key, ErrMiss)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decoding cached payload: %w", err)
	}
	return nil
}

// GetStale unmarshals the payload for key into out even when the entry
// has expired. Only missing keys return ErrMiss. Callers use this to serve
// the last known data when the backend is unreachable.
func (c *Cache) GetStale(ctx context.Context, key string, out any) error {
	var payload string
	err := c.db.QueryRowContext(ctx,
		"SELECT payload FROM cache_entries WHERE key = ?", key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("key %s: %w", key, ErrMiss)
	}
	if err != nil {
		return fmt.Errorf("reading cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decoding cached payload: %w", err)
	}
	return nil
}

// Put stores value under key, replacing any prior entry.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}

	now := c.now()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, payload, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = excluded.fetched_at,
		   expires_at = excluded.expires_at`,
		key, string(payload), now.Unix(), now.Add(c.ttl).Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entries for the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	return c.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM cache_entries WHERE key = ?", key); err != nil {
				return fmt.Errorf("invalidating %s: %w", key, err)
			}
		}
		return nil
	})
}

// Prune deletes every expired entry and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE expires_at <= ?", c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
