package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialnet_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// PostCounterUpdates counts like/unlike counter bumps by kind.
var PostCounterUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialnet_post_counter_updates_total",
	Help: "Total number of post like/unlike counter updates",
}, []string{"kind"})

// InitMetrics creates the fiberprometheus instance for HTTP metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP metrics collection middleware.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
