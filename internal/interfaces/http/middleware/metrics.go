package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records a request counter and a duration histogram per
// route, method and status code. When the instruments cannot be created
// the middleware degrades to a no-op.
func HTTPMetrics(meter metric.Meter, logger *zap.Logger) gin.HandlerFunc {
	requests, err := telemetry.NewCounter(meter,
		"http_requests_total",
		"Total number of HTTP requests",
		"{request}")
	if err != nil {
		logger.Warn("http metrics disabled", zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}

	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		logger.Warn("http metrics disabled", zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		}

		ctx := c.Request.Context()
		requests.Inc(ctx, attrs...)
		duration.RecordDuration(ctx, time.Since(start), attrs...)
	}
}
