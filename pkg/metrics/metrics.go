package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quizzer", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quizzer", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quizzer", Name: "auth_attempts_total", Help: "Authentication attempts by strategy and result."},
		[]string{"strategy", "result"},
	)
	QuestionWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quizzer", Name: "question_writes_total", Help: "Successful question writes by operation."},
		[]string{"op"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "quizzer", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(QuestionWrites)
	reg.MustRegister(RequestDuration)
}
