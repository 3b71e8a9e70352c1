// Package ratelimit 按key（客户端IP）独立限流的令牌桶
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL 超过该时间未访问的key会被清理
const idleTTL = 3 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter 每个key拥有独立的令牌桶
// 后台协程定期清理空闲key，防止map无限增长
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New 创建限流器
// rps: 每秒补充的令牌数；burst: 桶容量（允许的瞬时突发数）
func New(rps float64, burst int) *KeyedLimiter {
	l := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(time.Minute)
	return l
}

// Allow 非阻塞判断key的请求是否放行
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len 当前跟踪的key数量
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Stop 停止后台清理协程
func (l *KeyedLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *KeyedLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.done:
			return
		}
	}
}

func (l *KeyedLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idleTTL)
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}
