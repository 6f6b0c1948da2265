package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	teamOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_operations_total",
			Help: "Team registry operations by operation and result.",
		},
		[]string{"op", "result"},
	)

	teamOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "team_operation_duration_seconds",
			Help:    "Duration of team registry operations by operation and result.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "result"},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Notifications written to inboxes by type and result.",
		},
		[]string{"type", "result"},
	)
)

func GinMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	if path == "/metrics" {
		return
	}

	code := strconv.Itoa(c.Writer.Status())
	httpRequests.WithLabelValues(path, c.Request.Method, code).Inc()
	httpDuration.WithLabelValues(path, c.Request.Method, code).Observe(time.Since(start).Seconds())
}

func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func ObserveTeamOp(op string, start time.Time, err error) {
	result := resultLabel(err)
	teamOps.WithLabelValues(op, result).Inc()
	teamOpDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func ObserveNotification(notificationType string, err error) {
	notificationsSent.WithLabelValues(notificationType, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		teamOps,
		teamOpDuration,
		notificationsSent,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}
