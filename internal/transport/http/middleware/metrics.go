package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	authHTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auth_api",
			Name:      "http_requests_total",
			Help:      "Requests handled by the auth API, by route/method/status",
		},
		[]string{"path", "method", "status"},
	)
	authHTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "auth_api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of auth API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() { prometheus.MustRegister(authHTTPRequests, authHTTPLatency) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// 按注册的路由模板打点，未匹配的 404 落到原始 path
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		authHTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		authHTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
