package main

// @title           Order Core API
// @version         1.0
// @description     订单生命周期与库存一致性服务，提供下单、取消、支付、状态流转接口
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api/v1

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mall/ordercore/internal/app/config"
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

	// 2. 初始化应用
	app, cleanup, err := InitializeApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()
	appLogger := app.Logger

	// 3. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.GetServerPort())
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. 启动超时任务消费者（后台 goroutine）
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	consumerDone := make(chan struct{})
	if app.ExpireConsumer != nil {
		go func() {
			defer close(consumerDone)
			if err := app.ExpireConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Errorf(consumerCtx, "expire consumer stopped: %v", err)
			}
		}()
	} else {
		close(consumerDone)
		appLogger.Warnf(context.Background(), "lmstfy not configured, expire consumer disabled")
	}

	// 5. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		appLogger.Infof(context.Background(), "starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 6. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		appLogger.Infof(context.Background(), "received shutdown signal, gracefully shutting down")
	case err := <-serverErrChan:
		appLogger.Errorf(context.Background(), "HTTP server error: %v", err)
	}

	gracefulShutdown(server, app, cancelConsumer, consumerDone, cfg.Server.ShutdownTimeout)
}

// gracefulShutdown 先停消费者（处理完当前消息），再停 HTTP Server
func gracefulShutdown(server *http.Server, app *App, cancelConsumer context.CancelFunc, consumerDone <-chan struct{}, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if app.ExpireConsumer != nil {
		app.Logger.Infof(ctx, "stopping expire consumer")
		app.ExpireConsumer.Stop()
	}
	select {
	case <-consumerDone:
	case <-ctx.Done():
		app.Logger.Warnf(ctx, "expire consumer did not stop in time")
	}
	cancelConsumer()

	if err := server.Shutdown(ctx); err != nil {
		app.Logger.Errorf(ctx, "HTTP server shutdown error: %v", err)
	} else {
		app.Logger.Infof(ctx, "HTTP server stopped gracefully")
	}
	app.Logger.Infof(ctx, "application stopped")
}
