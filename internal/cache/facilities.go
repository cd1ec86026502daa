// Package cache keeps the facility lookup in Redis so list and filter
// requests do not hit Postgres for it every time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/facilitydesk/internal/core"
)

// FacilitiesKey is the Redis key holding the JSON-encoded facility list.
const FacilitiesKey = "facilitydesk:facilities"

// kv is the part of the Redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Facilities implements core.FacilityCache.
type Facilities struct {
	rdb kv
	ttl time.Duration
}

var _ core.FacilityCache = (*Facilities)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Connect dials Redis and verifies the connection with a ping.
// The returned close func releases the client.
func Connect(ctx context.Context, opts Options) (*Facilities, func() error, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return New(rdb, opts.TTL), rdb.Close, nil
}

// New wraps an existing client.
func New(rdb kv, ttl time.Duration) *Facilities {
	return &Facilities{rdb: rdb, ttl: ttl}
}

// GetFacilities returns the cached list. Any Redis or decode failure is a
// miss so the caller falls back to the store.
func (c *Facilities) GetFacilities(ctx context.Context) ([]core.Facility, bool) {
	raw, err := c.rdb.Get(ctx, FacilitiesKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("facility cache read failed", "error", err)
		}
		return nil, false
	}

	var facilities []core.Facility
	if err := json.Unmarshal(raw, &facilities); err != nil {
		slog.Warn("facility cache entry unreadable", "error", err)
		return nil, false
	}
	return facilities, true
}

// SetFacilities stores the list for the configured TTL.
func (c *Facilities) SetFacilities(ctx context.Context, facilities []core.Facility) error {
	raw, err := json.Marshal(facilities)
	if err != nil {
		return fmt.Errorf("encode facilities: %w", err)
	}
	if err := c.rdb.Set(ctx, FacilitiesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache facilities: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *Facilities) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, FacilitiesKey).Err()
}
