// Package observability holds Prometheus metrics and OpenTelemetry tracing
// setup for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warble_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LoginAttempts counts login attempts by outcome ("success" or "failure").
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warble_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// SessionsActive is the gauge of sessions created minus sessions destroyed.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warble_sessions_active",
		Help: "Number of currently active sessions",
	})
)
