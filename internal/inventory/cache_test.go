package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestCacheFetchPopulatesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(ctx context.Context) ([]Item, error) {
		loads++
		return namedItems("From Store"), nil
	}

	items, err := cache.Fetch(ctx, 1, loader)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, loads)
	require.True(t, mr.Exists("inventory:items:1"))

	items, err = cache.Fetch(ctx, 1, loader)
	require.NoError(t, err)
	require.Equal(t, "From Store", items[0].Name)
	require.Equal(t, 1, loads)
}

func TestCacheInvalidateDropsKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)
	ctx := context.Background()

	_, err := cache.Fetch(ctx, 1, func(ctx context.Context) ([]Item, error) {
		return namedItems("One"), nil
	})
	require.NoError(t, err)
	require.True(t, mr.Exists("inventory:items:1"))

	cache.Invalidate(ctx, 1)
	require.False(t, mr.Exists("inventory:items:1"))
}

func TestCacheKeysAreOwnerScoped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)
	ctx := context.Background()

	_, err := cache.Fetch(ctx, 1, func(ctx context.Context) ([]Item, error) {
		return namedItems("Owner One"), nil
	})
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, 2, func(ctx context.Context) ([]Item, error) {
		return namedItems("Owner Two"), nil
	})
	require.NoError(t, err)

	cache.Invalidate(ctx, 1)
	require.False(t, mr.Exists("inventory:items:1"))
	require.True(t, mr.Exists("inventory:items:2"))
}

func TestCacheCorruptPayloadReloads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set("inventory:items:1", "{not json"))

	items, err := cache.Fetch(ctx, 1, func(ctx context.Context) ([]Item, error) {
		return namedItems("Fresh"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "Fresh", items[0].Name)

	raw, err := mr.Get("inventory:items:1")
	require.NoError(t, err)
	require.Contains(t, raw, "Fresh")
}

func TestCacheNilClientFallsThrough(t *testing.T) {
	cache := NewListCache(nil, time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(ctx context.Context) ([]Item, error) {
		loads++
		return nil, nil
	}

	for range 3 {
		_, err := cache.Fetch(ctx, 1, loader)
		require.NoError(t, err)
	}
	require.Equal(t, 3, loads)
}

func TestCacheRedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)
	ctx := context.Background()

	mr.Close()

	items, err := cache.Fetch(ctx, 1, func(ctx context.Context) ([]Item, error) {
		return namedItems("Direct"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "Direct", items[0].Name)
}

func TestCacheLoaderErrorPropagates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewListCache(client, time.Minute)

	boom := errors.New("store unavailable")
	_, err := cache.Fetch(context.Background(), 1, func(ctx context.Context) ([]Item, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, mr.Exists("inventory:items:1"))
}
