package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/pkg/logger"
	"mall/ordercore/internal/app/server/handlers/order"
	"mall/ordercore/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(orderHandler *order.OrderHandler, log logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "ordercore",
		})
	})

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.POST("/from-cart", orderHandler.CreateFromCart)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/cancel", orderHandler.Cancel)
			orders.POST("/:id/confirm-receipt", orderHandler.ConfirmReceipt)
			orders.POST("/:id/pay", orderHandler.Pay)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
			orders.GET("/:id/status/wait", orderHandler.WaitStatus)
			orders.POST("/:id/payment", orderHandler.EnsurePayment)
		}
	}

	return r
}
