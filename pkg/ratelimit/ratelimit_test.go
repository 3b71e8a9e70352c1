package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_Allow(t *testing.T) {
	l := New(1, 2)
	defer l.Stop()

	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "桶容量用尽")
	assert.True(t, l.Allow("2.2.2.2"), "不同key互不影响")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "1秒后补充一个令牌")
	assert.False(t, l.Allow("1.1.1.1"))
}

func TestKeyedLimiter_Cleanup(t *testing.T) {
	l := New(1, 1)
	defer l.Stop()

	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(2 * time.Minute)
	l.Allow("new")
	assert.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	l.cleanup()
	assert.Equal(t, 1, l.Len(), "只清理超过3分钟未访问的key")
}
