package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mall/ordercore/common/model"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/infra/mq/lmstfy"
	"mall/ordercore/internal/app/pkg/errorx"
	"mall/ordercore/internal/app/pkg/logger"
)

// OrderExpirer 取消超时订单
type OrderExpirer interface {
	ExpireOrder(ctx context.Context, orderID string, now time.Time) (*svorder.TransitionResult, error)
}

// ExpireHandler 待支付超时任务处理
type ExpireHandler struct {
	orders OrderExpirer
	now    func() time.Time
	logger logger.Logger
}

// NewExpireHandler 创建超时任务处理器
func NewExpireHandler(orders OrderExpirer, logger logger.Logger) *ExpireHandler {
	return &ExpireHandler{
		orders: orders,
		now:    time.Now,
		logger: logger,
	}
}

func (h *ExpireHandler) Name() string { return "expire" }

// Handle 任务可能重复或提前到达，是否超时以订单上的超时时间为准
func (h *ExpireHandler) Handle(ctx context.Context, job *lmstfy.Job) error {
	var msg model.OrderExpireJob
	if err := json.Unmarshal(job.Data, &msg); err != nil || msg.OrderID == "" {
		return fmt.Errorf("%w: expire job %s", ErrMalformed, job.ID)
	}
	ctx = logger.WithOrderID(ctx, msg.OrderID)

	result, err := h.orders.ExpireOrder(ctx, msg.OrderID, h.now())
	if err != nil {
		if errorx.KindOf(err) == errorx.KindNotFound {
			h.logger.Warnf(ctx, "expire job for unknown order")
			return nil
		}
		return err
	}
	if result.Applied {
		h.logger.Infof(ctx, "order expired and canceled")
	} else {
		h.logger.Debugf(ctx, "expire job skipped, status=%s", result.Order.Status)
	}
	return nil
}
