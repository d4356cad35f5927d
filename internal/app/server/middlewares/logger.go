package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mall/ordercore/internal/app/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Logger 访问日志，注入 trace_id 到请求 Context
func Logger(log logger.Logger) gin.HandlerFunc {
	access := log.Zap().WithOptions(zap.AddCallerSkip(-1))
	return func(c *gin.Context) {
		traceID := c.GetHeader(requestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(requestIDHeader, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		start := time.Now()
		c.Next()

		access.Info("http access",
			zap.String("trace_id", traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
