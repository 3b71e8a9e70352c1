package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_Token(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	t.Run("保存并查询Token", func(t *testing.T) {
		require.NoError(t, store.SaveToken(ctx, "tok-a", 42, time.Hour))

		id, ok, err := store.TokenOwner(ctx, "tok-a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint(42), id)
		assert.Equal(t, time.Hour, mr.TTL("token:tok-a"))
	})

	t.Run("不存在的Token", func(t *testing.T) {
		_, ok, err := store.TokenOwner(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("同一用户可以持有多个Token", func(t *testing.T) {
		require.NoError(t, store.SaveToken(ctx, "tok-b", 42, time.Hour))
		_, okA, _ := store.TokenOwner(ctx, "tok-a")
		_, okB, _ := store.TokenOwner(ctx, "tok-b")
		assert.True(t, okA)
		assert.True(t, okB)
	})

	t.Run("删除Token后失效且重复删除不报错", func(t *testing.T) {
		require.NoError(t, store.DeleteToken(ctx, "tok-a"))
		require.NoError(t, store.DeleteToken(ctx, "tok-a"))

		_, ok, err := store.TokenOwner(ctx, "tok-a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("过期后失效", func(t *testing.T) {
		require.NoError(t, store.SaveToken(ctx, "tok-c", 7, time.Minute))
		mr.FastForward(2 * time.Minute)

		_, ok, err := store.TokenOwner(ctx, "tok-c")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("值不是数字时报错", func(t *testing.T) {
		require.NoError(t, mr.Set("token:bad", "abc"))
		_, _, err := store.TokenOwner(ctx, "bad")
		assert.Error(t, err)
	})
}

func TestSessionStore_OTP(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveOTP(ctx, 1, "111111", 10*time.Minute))
	require.NoError(t, store.SaveOTP(ctx, 1, "222222", 10*time.Minute))

	code, ok, err := store.GetOTP(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "222222", code, "新验证码覆盖旧验证码")
	assert.Equal(t, 10*time.Minute, mr.TTL("otp:1"))

	t.Run("验证码不匹配时不删除", func(t *testing.T) {
		ok, err := store.ConsumeOTP(ctx, 1, "111111")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, mr.Exists("otp:1"))
	})

	t.Run("匹配时删除且只能消费一次", func(t *testing.T) {
		ok, err := store.ConsumeOTP(ctx, 1, "222222")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists("otp:1"))

		ok, err = store.ConsumeOTP(ctx, 1, "222222")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Redis故障返回错误", func(t *testing.T) {
		require.NoError(t, store.SaveOTP(ctx, 2, "333333", 10*time.Minute))
		mr.SetError("server down")
		defer mr.SetError("")
		_, err := store.ConsumeOTP(ctx, 2, "333333")
		assert.Error(t, err)
	})
}

func TestSessionStore_RedisDown(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewSessionStore(client)
	mr.Close()

	_, _, err := store.TokenOwner(context.Background(), "any")
	assert.Error(t, err)
}

func TestBookCache(t *testing.T) {
	mr, client := setupRedis(t)
	cache := NewBookCache(client)
	ctx := context.Background()

	b := &book.Book{
		ID:        9,
		Title:     "三体",
		Price:     2350,
		Author:    "刘慈欣",
		Category:  "科幻",
		Tags:      []string{"经典"},
		CreatorID: 1,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("未命中", func(t *testing.T) {
		got, ok, err := cache.Get(ctx, 9)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("写入后命中", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, b, 5*time.Minute))
		assert.True(t, mr.Exists("book:detail:9"))

		got, ok, err := cache.Get(ctx, 9)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "三体", got.Title)
		assert.Equal(t, int64(2350), got.Price)
		assert.Equal(t, []string{"经典"}, got.Tags)
		assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("删除后未命中", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, 9))
		_, ok, err := cache.Get(ctx, 9)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("缓存内容损坏时返回错误", func(t *testing.T) {
		require.NoError(t, mr.Set("book:detail:10", "{not json"))
		_, _, err := cache.Get(ctx, 10)
		assert.Error(t, err)
	})
}
