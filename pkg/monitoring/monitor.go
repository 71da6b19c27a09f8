package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ResponsesSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_responses_saved_total",
			Help: "Questionnaire responses persisted, by stage",
		},
		[]string{"stage"},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_exports_total",
			Help: "Result exports and rendered reports, by format",
		},
		[]string{"format"},
	)

	// AutoSaveDispatches 客户端自动保存派发结果
	AutoSaveDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_autosave_dispatch_total",
			Help: "Auto-save dispatches by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ResponsesSaved)
	prometheus.MustRegister(ExportsTotal)
}

// InitClient 终端客户端只注册自动保存指标
func InitClient(reg prometheus.Registerer) {
	reg.MustRegister(AutoSaveDispatches)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
