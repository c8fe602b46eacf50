package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	EnrollmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sport_activity_enrollments_total",
		Help: "Activity enrollment attempts by outcome",
	}, []string{"outcome"})
	GroupJoinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sport_group_joins_total",
		Help: "Group join attempts by outcome",
	}, []string{"outcome"})
	ChatMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sport_chat_messages_total",
		Help: "Total number of activity chat messages sent",
	})
	MessageReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sport_chat_reports_total",
		Help: "Total number of chat messages reported",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		EnrollmentsTotal,
		GroupJoinsTotal,
		ChatMessagesTotal,
		MessageReportsTotal,
	)
}

// Middleware records request count and latency per route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		path := c.Route().Path
		if path == "" || path == "/" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Method(), "path": path, "status": strconv.Itoa(status)}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		return err
	}
}

// statusOf mirrors what the error handler will render, which runs after
// this middleware returns.
func statusOf(err error) int {
	var hs interface{ HTTPStatus() int }
	if errors.As(err, &hs) {
		return hs.HTTPStatus()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
