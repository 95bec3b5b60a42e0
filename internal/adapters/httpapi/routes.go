package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/metrics"
)

const requestIDKey = "request_id"

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(handler *Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(ObserveRequests(m))

	SetupRoutes(router, handler, gatherer)

	return router
}

// SetupRoutes registers the API endpoints on the given router.
func SetupRoutes(router *gin.Engine, handler *Handler, gatherer prometheus.Gatherer) {
	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.POST("/analyze", handler.Analyze)
	router.POST("/extract_entities", handler.ExtractEntities)
	router.POST("/generate_reply", handler.GenerateReply)
}

// RequestID tags each request with a unique identifier, honoring one supplied
// by an upstream proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Handled request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// ObserveRequests records request counts and latencies per endpoint.
func ObserveRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		m.ObserveRequest(endpoint, c.Writer.Status(), time.Since(start))
	}
}
