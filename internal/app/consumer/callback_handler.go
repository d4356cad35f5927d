package consumer

import (
	"context"
	"fmt"

	"mall/ordercore/common/model"
	"mall/ordercore/internal/app/domains/services/svcallback"
	"mall/ordercore/internal/app/infra/mq/lmstfy"
)

// PaymentNotifyHandler 支付回调处理
type PaymentNotifyHandler struct {
	callbacks PaymentCallbacks
}

// PaymentCallbacks 支付回调业务处理
type PaymentCallbacks interface {
	HandlePaymentNotify(ctx context.Context, n *model.PaymentNotification) error
}

// NewPaymentNotifyHandler 创建支付回调处理器
func NewPaymentNotifyHandler(callbacks PaymentCallbacks) *PaymentNotifyHandler {
	return &PaymentNotifyHandler{callbacks: callbacks}
}

func (h *PaymentNotifyHandler) Name() string { return "payment_notify" }

func (h *PaymentNotifyHandler) Handle(ctx context.Context, job *lmstfy.Job) error {
	n, err := svcallback.ParseNotification(job.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return h.callbacks.HandlePaymentNotify(ctx, n)
}
