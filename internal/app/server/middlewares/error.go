package middlewares

import (
	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/pkg/ginx"
	"mall/ordercore/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// 捕获 panic，以及 handler 通过 c.Error 记录但未写响应的错误
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "panic recovered: %v", r)
				ginx.InternalError(c, "internal server error")
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			log.Errorf(c.Request.Context(), "unhandled error: %v", err)
			ginx.FromError(c, err)
		}
	}
}
