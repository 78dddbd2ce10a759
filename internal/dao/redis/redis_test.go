package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"gatormmunity/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, s
}

func TestCacheSetGetDelete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisCache(client, 2, 10)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "group_info_G1", `{"name":"chess"}`, time.Minute))
	got, err := cache.Get(ctx, "group_info_G1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"chess"}`, got)

	require.NoError(t, cache.Delete(ctx, "group_info_G1"))
	got, err = cache.Get(ctx, "group_info_G1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCacheDeleteByPattern(t *testing.T) {
	client, s := setupTestRedis(t)
	cache := NewRedisCache(client, 1, 10)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "my_groups_U1", "[]", 0))
	require.NoError(t, cache.Set(ctx, "my_groups_U2", "[]", 0))
	require.NoError(t, cache.Set(ctx, "group_info_G1", "{}", 0))
	require.NoError(t, cache.DeleteByPattern(ctx, "my_groups_*"))

	assert.False(t, s.Exists("my_groups_U1"))
	assert.False(t, s.Exists("my_groups_U2"))
	assert.True(t, s.Exists("group_info_G1"))
}

func TestSubmitTaskRunsAndCloseDrains(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisCache(client, 2, 100)

	var n atomic.Int32
	for i := 0; i < 50; i++ {
		cache.SubmitTask(func() { n.Add(1) })
	}
	cache.SubmitTask(func() { panic("boom") })
	cache.Close()
	assert.Equal(t, int32(50), n.Load())

	// 关闭后同步执行
	cache.SubmitTask(func() { n.Add(1) })
	assert.Equal(t, int32(51), n.Load())
}

func TestSessionStoreLifecycle(t *testing.T) {
	client, s := setupTestRedis(t)
	store := NewRedisSessionStore(client, time.Hour)
	ctx := context.Background()

	snap := &model.SessionSnapshot{UserUuid: "U1", FirstName: "Ada", Email: "ada@ufl.edu", Role: 1}
	require.NoError(t, store.Set(ctx, "sid-1", snap))
	require.NoError(t, store.Set(ctx, "sid-2", snap))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "U1", got.UserUuid)
	assert.Equal(t, "Ada", got.FirstName)

	require.NoError(t, store.Destroy(ctx, "sid-1"))
	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.DestroyByUser(ctx, "U1"))
	got, err = store.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, s.Exists("session_user:U1"))
}

func TestSessionExpires(t *testing.T) {
	client, s := setupTestRedis(t)
	store := NewRedisSessionStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid", &model.SessionSnapshot{UserUuid: "U1"}))
	s.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}
