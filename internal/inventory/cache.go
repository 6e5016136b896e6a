package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ListCache caches the full per-owner item list in Redis. The list is
// treated as stale after every successful mutation: Invalidate drops the
// key and the next List call repopulates it from the store. There is no
// fine-grained patching.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewListCache instantiates the cache helper. A nil client disables
// caching; loads fall through to the loader.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

// Fetch returns the cached item list for the owner, populating it with the
// loader on a miss. Concurrent misses for the same owner are collapsed
// into a single loader call.
func (c *ListCache) Fetch(ctx context.Context, ownerID int64, loader func(context.Context) ([]Item, error)) ([]Item, error) {
	if loader == nil {
		return nil, errors.New("inventory: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := c.key(ownerID)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var items []Item
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		// Corrupt payload: drop it and reload.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take listing down with it.
		return loader(ctx)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(items); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// Invalidate marks the owner's cached list stale.
func (c *ListCache) Invalidate(ctx context.Context, ownerID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key(ownerID)).Err()
}

func (c *ListCache) key(ownerID int64) string {
	return fmt.Sprintf("inventory:items:%d", ownerID)
}
