package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SessionCreatedTotal 创建学习记录的总数。
	SessionCreatedTotal prometheus.Counter
	// ReviewGeneratedTotal 生成复习检查点的总数。
	ReviewGeneratedTotal prometheus.Counter
	// ReviewCompletedTotal 标记完成复习的总数。
	ReviewCompletedTotal prometheus.Counter
	// RateLimitDeniedTotal 被限流拒绝的请求总数。
	RateLimitDeniedTotal prometheus.Counter
	// HTTPRequestDuration HTTP 请求耗时分布。
	HTTPRequestDuration *prometheus.HistogramVec
	// ReviewsDueGauge 当前已到期未完成的复习数量（后台定时刷新）。
	ReviewsDueGauge prometheus.Gauge

	initOnce sync.Once
)

// InitMetrics 注册所有 Prometheus 指标（幂等，可在测试中重复调用）。
func InitMetrics() {
	initOnce.Do(func() {
		SessionCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studycycle_session_created_total",
			Help: "Total number of study sessions created.",
		})
		ReviewGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studycycle_review_generated_total",
			Help: "Total number of spaced-repetition reviews generated.",
		})
		ReviewCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studycycle_review_completed_total",
			Help: "Total number of reviews marked done.",
		})
		RateLimitDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studycycle_ratelimit_denied_total",
			Help: "Total number of requests denied by the rate limiter.",
		})
		HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studycycle_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"})
		ReviewsDueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studycycle_reviews_due",
			Help: "Number of pending reviews whose due date has passed.",
		})

		prometheus.MustRegister(
			SessionCreatedTotal,
			ReviewGeneratedTotal,
			ReviewCompletedTotal,
			RateLimitDeniedTotal,
			HTTPRequestDuration,
			ReviewsDueGauge,
		)
	})
}
