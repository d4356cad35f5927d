package svcallback

import (
	"context"
	"encoding/json"
	"fmt"

	"mall/ordercore/common/model"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/pkg/errorx"
	"mall/ordercore/internal/app/pkg/logger"
)

// OrderPayer 支付成功后推进订单
type OrderPayer interface {
	MarkPaid(ctx context.Context, orderID, platformTxno string, payload []byte) (*svorder.TransitionResult, error)
}

// CallbackService 支付回调处理服务
// 职责：
// 1. 校验支付平台回调与订单支付记录是否匹配
// 2. 支付成功时推进订单 TO_PAY -> TO_SEND 并记录平台流水
// 返回 error 表示需要重试；业务冲突（订单已取消等）记录日志后视为处理完成
type CallbackService struct {
	orders OrderPayer
	logger logger.Logger
}

// NewCallbackService 创建回调服务实例
func NewCallbackService(orders OrderPayer, logger logger.Logger) *CallbackService {
	return &CallbackService{
		orders: orders,
		logger: logger,
	}
}

// HandlePaymentNotify 处理支付回调
func (s *CallbackService) HandlePaymentNotify(ctx context.Context, n *model.PaymentNotification) error {
	ctx = logger.WithOrderID(ctx, n.OrderID)
	s.logger.Infof(ctx, "processing payment notification, status=%s, platform_txno=%s", n.Status, n.PlatformTxno)

	if n.Status != model.PaymentStatusSuccess {
		// 失败通知不改变订单，由超时任务取消
		s.logger.Warnf(ctx, "payment not successful, status=%s", n.Status)
		return nil
	}
	if n.TxnSeqno != "" && n.TxnSeqno != etpayment.TxnSeqnoFor(n.OrderID) {
		s.logger.Errorf(ctx, "txn_seqno mismatch, got=%s", n.TxnSeqno)
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}

	result, err := s.orders.MarkPaid(ctx, n.OrderID, n.PlatformTxno, payload)
	if err != nil {
		if errorx.KindOf(err) == errorx.KindStorage {
			return fmt.Errorf("mark order paid failed: %w", err)
		}
		s.logger.Errorf(ctx, "payment notification rejected: %v", err)
		return nil
	}

	if result.Payment != nil && n.AmountFen != 0 && result.Payment.AmountFen != n.AmountFen {
		s.logger.Errorf(ctx, "paid amount mismatch, expected=%d, notified=%d", result.Payment.AmountFen, n.AmountFen)
	}
	if !result.Applied {
		s.logger.Infof(ctx, "duplicate payment notification, status=%s", result.Order.Status)
		return nil
	}
	s.logger.Infof(ctx, "payment notification processed")
	return nil
}

// ParseNotification 解析并校验回调消息
func ParseNotification(data []byte) (*model.PaymentNotification, error) {
	var n model.PaymentNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("unmarshal payment notification failed: %w", err)
	}
	if n.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if n.Status == "" {
		return nil, fmt.Errorf("status is required")
	}
	return &n, nil
}
