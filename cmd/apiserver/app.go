package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/bootstrap"
	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/consumer"
	"mall/ordercore/internal/app/pkg/logger"
	"mall/ordercore/internal/app/server/handlers/order"
	"mall/ordercore/internal/app/server/routers"
)

// App HTTP 服务及后台超时消费者，lmstfy 未配置时 ExpireConsumer 为 nil
type App struct {
	Engine         *gin.Engine
	ExpireConsumer *consumer.QueueConsumer
	Logger         logger.Logger
}

// InitializeApp 组装 repository -> service -> handler -> router
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	infra, err := bootstrap.NewInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	orderService, err := infra.NewOrderService(ctx)
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	var waiter order.StatusWaiter
	if infra.Redis != nil {
		waiter = infra.Redis
	}
	orderHandler := order.NewOrderHandler(orderService, waiter, infra.Logger)

	app := &App{
		Engine: routers.SetupRoutes(orderHandler, infra.Logger),
		Logger: infra.Logger,
	}
	if infra.Lmstfy != nil {
		app.ExpireConsumer = consumer.NewQueueConsumer(
			infra.Lmstfy,
			consumer.NewExpireHandler(orderService, infra.Logger),
			consumer.DefaultConfig(cfg.Order.ExpireQueue),
			infra.Logger,
		)
	}
	return app, infra.Close, nil
}
