package utils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetAndGetCache(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "k", cachedValue{Name: "a", Count: 2}, time.Minute))

	var got cachedValue
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "a", Count: 2}, got)
}

func TestGetCacheMiss(t *testing.T) {
	_, rdb := newTestRedis(t)

	var got cachedValue
	found, err := GetCache(context.Background(), rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheEntryExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "k", cachedValue{Name: "a"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedValue
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCacheByPrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set("txlist:user:a:"+strconv.Itoa(i), "x"))
	}
	require.NoError(t, mr.Set("txlist:user:b:category=", "x"))

	require.NoError(t, DeleteCacheByPrefix(ctx, rdb, "txlist:user:a:"))

	keys := mr.Keys()
	assert.Equal(t, []string{"txlist:user:b:category="}, keys)
}

func TestDeleteCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set("k", "v"))

	require.NoError(t, DeleteCache(context.Background(), rdb, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestGeneration(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	gen, err := GetGeneration(ctx, rdb, "txlist:gen:a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	bumped, err := BumpGeneration(ctx, rdb, "txlist:gen:a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), bumped)

	gen, err = GetGeneration(ctx, rdb, "txlist:gen:a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	other, err := GetGeneration(ctx, rdb, "txlist:gen:b")
	require.NoError(t, err)
	assert.Equal(t, int64(0), other)
}
