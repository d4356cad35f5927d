package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mall/ordercore/internal/app/bootstrap"
	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/consumer"
	"mall/ordercore/internal/app/domains/services/svcallback"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}
	if !cfg.Lmstfy.Enabled() {
		log.Fatalf("lmstfy host and token are required for the payment callback consumer")
	}

	// 2. 初始化基础设施组件
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra, err := bootstrap.NewInfra(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to init infra: %v", err)
	}
	defer infra.Close()
	appLogger := infra.Logger

	// 3. 初始化 Service 层
	orderService, err := infra.NewOrderService(ctx)
	if err != nil {
		appLogger.Errorf(ctx, "init order service failed: %v", err)
		return
	}
	callbackService := svcallback.NewCallbackService(orderService, appLogger)

	// 4. 初始化 Consumer
	callbackConsumer := consumer.NewQueueConsumer(
		infra.Lmstfy,
		consumer.NewPaymentNotifyHandler(callbackService),
		consumer.DefaultConfig(cfg.Order.PaymentQueue),
		appLogger,
	)

	// 5. 启动消费循环（优雅退出）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- callbackConsumer.Start(ctx)
	}()

	select {
	case <-sigChan:
		appLogger.Infof(ctx, "received shutdown signal, stopping consumer")
		callbackConsumer.Stop()
		if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Errorf(ctx, "consumer stopped with error: %v", err)
		}
		appLogger.Infof(ctx, "consumer stopped gracefully")
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Errorf(ctx, "consumer stopped with error: %v", err)
		}
	}
}
