package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the backend.
var Metrics = struct {
	ViewsTotal         *prometheus.CounterVec
	SubscriptionsTotal prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
	RequestsInFlight   prometheus.Gauge
	DBPoolActive       prometheus.GaugeFunc
	DBPoolIdle         prometheus.GaugeFunc
	RealtimeDelivered  prometheus.Counter
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.ViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitube_views_total",
			Help: "Total view events recorded, by subject kind.",
		},
		[]string{"kind"},
	)

	Metrics.SubscriptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mitube_subscriptions_total",
			Help: "Total subscription events recorded.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mitube_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mitube_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.RealtimeDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mitube_realtime_notifications_total",
			Help: "Total notifications published to the realtime hub.",
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "mitube_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "mitube_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.ViewsTotal,
		Metrics.SubscriptionsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.RealtimeDelivered,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	prefixes := []struct{ prefix, label string }{
		{"/api/videos/view/", "/api/videos/view/:id"},
		{"/api/videos/like/", "/api/videos/like/:id"},
		{"/api/videos/dislike/", "/api/videos/dislike/:id"},
		{"/api/videos/", "/api/videos/:id"},
		{"/api/users/sub/", "/api/users/sub/:channelId"},
		{"/api/users/unsub/", "/api/users/unsub/:channelId"},
		{"/api/users/", "/api/users/:id"},
		{"/api/comments/", "/api/comments/:id"},
		{"/api/playlists/", "/api/playlists/:id"},
		{"/api/notifications/", "/api/notifications/:id"},
		{"/api/stats/channel/", "/api/stats/channel/:userId"},
		{"/api/stats/video/", "/api/stats/video/:videoId"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			return p.label
		}
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
