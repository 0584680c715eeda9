// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for the content listing response.
// The catalog listing is the hottest unauthenticated endpoint; the encoded
// JSON body is stored in Valkey and invalidated on every content mutation.
// Detail views are never cached because each read increments the view
// counter.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKey is the Valkey key for the cached catalog listing.
	listKey = "content:list"

	// DefaultListTTL is how long the listing stays cached without invalidation.
	DefaultListTTL = 1 * time.Minute
)

// ListCache manages the cached content listing in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a new listing cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves the cached listing body. Returns false on miss.
func (lc *ListCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "error", err)
		return nil, false
	}
	slog.Debug("list cache hit")
	return val, true
}

// Set stores an encoded listing body with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, body []byte) {
	if err := lc.client.Set(ctx, listKey, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "error", err)
	}
}

// Invalidate removes the cached listing. Called after every create, edit,
// or delete so stale catalogs are never served past the mutation.
func (lc *ListCache) Invalidate(ctx context.Context) {
	if err := lc.client.Del(ctx, listKey).Err(); err != nil {
		slog.Warn("list cache invalidate error", "error", err)
	}
	slog.Debug("list cache invalidated")
}
