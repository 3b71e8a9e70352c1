// Package circuitbreaker 熔断器
//
// 用于保护不稳定的外部依赖（SMTP服务器、消息队列）：
// 连续失败达到阈值后熔断（OPEN），直接拒绝请求；超时后进入半开（HALF_OPEN），
// 放行少量探测请求，成功则恢复（CLOSED），失败则重新熔断。
//
//	CLOSED --失败达到阈值--> OPEN --Timeout到期--> HALF_OPEN --成功--> CLOSED
//	                                                   |
//	                                                   +--失败--> OPEN
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/bookshop/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭：正常放行
	StateOpen                  // 打开：拒绝所有请求
	StateHalfOpen              // 半开：放行探测请求
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开（或半开状态探测名额已满）时返回
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许的探测请求数
	MaxRequests uint32
	// Interval 关闭状态下统计窗口长度，到期清零计数（0表示不清零）
	Interval time.Duration
	// Timeout 打开状态持续时间，到期进入半开
	Timeout time.Duration
	// ReadyToTrip 根据计数判断是否熔断，默认连续失败5次
	ReadyToTrip func(counts Counts) bool
	// IsFailure 判断错误是否计入失败，默认context取消不计入
	IsFailure func(err error) bool
}

// DefaultConfig 默认配置：连续失败5次熔断，30秒后半开
func DefaultConfig() Config {
	return Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	}
}

// Counts 统计窗口内的请求计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器（并发安全）
type CircuitBreaker struct {
	name   string
	config Config

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃跨代的请求结果
	counts     Counts
	expiry     time.Time

	onStateChange func(name string, from, to State)
	now           func() time.Time
}

// New 创建熔断器，未设置的配置项使用默认值
func New(name string, config Config) *CircuitBreaker {
	def := DefaultConfig()
	if config.MaxRequests == 0 {
		config.MaxRequests = def.MaxRequests
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		}
	}

	cb := &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
	cb.resetExpiry(cb.now())
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(StateClosed))
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// OnStateChange 设置状态变化回调（用于日志）
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute 在熔断器保护下执行fn
// 熔断时不调用fn，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	generation, err := cb.before()
	if err != nil {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": "rejected"})
		return err
	}

	err = fn(ctx)
	failed := cb.config.IsFailure(err)
	cb.after(generation, !failed)

	result := "success"
	if failed {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": result})
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.current(cb.now())
	return state
}

// Counts 当前窗口计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.current(cb.now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.config.MaxRequests:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) after(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.current(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.success()
		if state == StateHalfOpen {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.config.ReadyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// current 推进基于时间的状态变化并返回当前状态（调用方持有锁）
func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts = Counts{}
			cb.resetExpiry(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.generation++
	cb.counts = Counts{}

	switch state {
	case StateClosed:
		cb.resetExpiry(now)
	case StateOpen:
		cb.expiry = now.Add(cb.config.Timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{}
	}

	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": cb.name}, float64(state))
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) resetExpiry(now time.Time) {
	if cb.config.Interval > 0 {
		cb.expiry = now.Add(cb.config.Interval)
	} else {
		cb.expiry = time.Time{}
	}
}
