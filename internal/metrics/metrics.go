// Package metrics exposes prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecipesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_written_total",
			Help: "Recipes created, updated or deleted",
		},
		[]string{"op"}, // "create", "update", "delete"
	)

	EngagementToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_engagement_toggles_total",
			Help: "Successful favorite, shopping cart and subscription toggles",
		},
		[]string{"kind", "action"}, // kind: favorite|shopping_cart|subscription, action: add|remove
	)

	ShortLinksIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_short_links_issued_total",
			Help: "Short links generated for recipes",
		},
	)

	ShortLinksResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_short_links_resolved_total",
			Help: "Short link redirects served",
		},
	)
)

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
