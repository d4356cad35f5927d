package order

import (
	"context"
	"time"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/pkg/logger"
)

// StatusWaiter 订单状态变更订阅（Redis PubSub），未配置时等待接口直接返回当前状态
type StatusWaiter interface {
	WaitStatusChange(
		ctx context.Context,
		orderID string,
		since etorder.Status,
		current func(context.Context) (etorder.Status, error),
		timeout time.Duration,
	) (etorder.Status, bool, error)
}

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	orderService *svorder.OrderService
	waiter       StatusWaiter
	logger       logger.Logger
}

// NewOrderHandler 创建订单处理器实例，waiter 可为 nil
func NewOrderHandler(orderService *svorder.OrderService, waiter StatusWaiter, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		waiter:       waiter,
		logger:       logger,
	}
}
