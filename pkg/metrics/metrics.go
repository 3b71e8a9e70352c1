// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP指标：请求总数、耗时、并发数（由middleware.Metrics记录）
//   - 业务指标：认证事件、图书写操作、图书详情缓存命中率
//   - 基础设施指标：熔断器状态、邮件投递、消息队列
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.AuthEventsTotal, map[string]string{
//	    "event":  "login",
//	    "result": "success",
//	})
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只使用有限取值（不要用user_id、book_id作为标签）。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板，如/api/v1/books/:id）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// AuthEventsTotal 认证事件总数
	// 标签：event（register/login/logout/forgot_password/reset_password）、result（success/failure）
	AuthEventsTotal *prometheus.CounterVec

	// BookMutationsTotal 图书写操作总数
	// 标签：operation（create/update/delete）、result（success/failure）
	BookMutationsTotal *prometheus.CounterVec

	// BookCacheRequestsTotal 图书详情缓存访问
	// 标签：result（hit/miss/error）
	BookCacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 邮件与消息队列指标

	// MailDeliveriesTotal 邮件投递总数
	// 标签：driver（smtp/mq/log）、result（success/failure）
	MailDeliveriesTotal *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时（Histogram）
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，多次调用只生效一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// bcrypt哈希约几十毫秒，登录注册落在0.05-0.1桶
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		AuthEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "认证事件总数",
			},
			[]string{"event", "result"},
		)

		BookMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_mutations_total",
				Help: "图书写操作总数",
			},
			[]string{"operation", "result"},
		)

		BookCacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_cache_requests_total",
				Help: "图书详情缓存访问总数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MailDeliveriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mail_deliveries_total",
				Help: "邮件投递总数",
			},
			[]string{"driver", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)

		MessageProcessingDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_processing_duration_seconds",
				Help:    "消息处理耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		)
	})
}

// Result 根据error返回success/failure标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
