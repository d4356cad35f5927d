package mdorder

import (
	"context"
	"fmt"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/infra/persistence/mysql"
	"mall/ordercore/internal/app/pkg/errorx"
)

// BindPayment 返回订单唯一的支付记录，不存在时创建。
// 流水号由订单ID确定性派生，并发创建时唯一键冲突的一方读取胜出方的记录。
func (m *OrderModule) BindPayment(ctx context.Context, order *etorder.Order) (*etpayment.PaymentRecord, error) {
	payments := m.repos.Payments
	seq := etpayment.TxnSeqnoFor(order.ID)

	existing, err := payments.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("load payment record failed: %w", err))
	}
	if existing != nil {
		if existing.TxnSeqno != "" {
			return existing, nil
		}
		return m.patchTxnSeqno(ctx, existing, seq)
	}

	record := &etpayment.PaymentRecord{
		ID:         m.ids.PaymentID(),
		OrderID:    order.ID,
		TxnSeqno:   seq,
		Status:     etpayment.StatusInit,
		AmountFen:  etprimitive.ToFen(order.TotalPrice),
		ExpireTime: order.OrderExpireTime,
	}
	if err := payments.Create(ctx, record); err != nil {
		if mysql.IsDuplicateKey(err) {
			return m.reloadBySeqno(ctx, seq)
		}
		return nil, errorx.Storage(fmt.Errorf("create payment record failed: %w", err))
	}
	return record, nil
}

func (m *OrderModule) patchTxnSeqno(ctx context.Context, record *etpayment.PaymentRecord, seq string) (*etpayment.PaymentRecord, error) {
	ok, err := m.repos.Payments.PatchTxnSeqno(ctx, record.ID, seq)
	if err != nil {
		if mysql.IsDuplicateKey(err) {
			return m.reloadBySeqno(ctx, seq)
		}
		return nil, errorx.Storage(fmt.Errorf("patch txn seqno failed: %w", err))
	}
	if ok {
		record.TxnSeqno = seq
		return record, nil
	}

	// 已被并发补写
	patched, err := m.repos.Payments.GetByIDForShare(ctx, record.ID)
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("reload payment record failed: %w", err))
	}
	if patched == nil {
		return nil, errorx.Storage(fmt.Errorf("payment record %d vanished while patching", record.ID))
	}
	return patched, nil
}

func (m *OrderModule) reloadBySeqno(ctx context.Context, seq string) (*etpayment.PaymentRecord, error) {
	winner, err := m.repos.Payments.GetByTxnSeqnoForShare(ctx, seq)
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("reload payment record failed: %w", err))
	}
	if winner == nil {
		return nil, errorx.Storage(fmt.Errorf("payment record %s not loadable after duplicate key", seq))
	}
	return winner, nil
}

// FailPayment 取消时将未支付的支付记录置为 FAILED
func (m *OrderModule) FailPayment(ctx context.Context, orderID string) error {
	if _, err := m.repos.Payments.UpdateStatusByOrderID(ctx, orderID, etpayment.StatusFailed); err != nil {
		return errorx.Storage(fmt.Errorf("mark payment failed: %w", err))
	}
	return nil
}

// MarkPaymentPaid 标记支付记录已支付
func (m *OrderModule) MarkPaymentPaid(ctx context.Context, record *etpayment.PaymentRecord, platformTxno string, payload []byte) error {
	if err := m.repos.Payments.MarkPaid(ctx, record.ID, platformTxno, payload); err != nil {
		return errorx.Storage(fmt.Errorf("mark payment paid: %w", err))
	}
	return nil
}
