package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// AggregateFallbacks counts reads served from raw-row counting because the
	// post_stats view was unavailable.
	AggregateFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_aggregate_fallbacks_total",
		Help: "Total number of enrichment reads that fell back to raw-row counting",
	}, []string{"operation"})

	// DegradedToggles counts reaction toggles rejected because the reactions
	// table is missing in the current deployment.
	DegradedToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawhaven_degraded_toggles_total",
		Help: "Total number of reaction toggles rejected as feature-unavailable",
	})

	// AlertDrops counts alert messages dropped on slow websocket clients.
	AlertDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_alert_drops_total",
		Help: "Total number of alert messages dropped due to backpressure",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus middleware for the Fiber app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
