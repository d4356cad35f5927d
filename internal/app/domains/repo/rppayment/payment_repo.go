package rppayment

import (
	"context"

	"gorm.io/gorm"

	"mall/ordercore/internal/app/domains/entity/etpayment"
)

// PaymentRepository 支付记录仓储接口
type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository

	// GetByOrderID 按订单查询支付记录，不存在返回 nil
	GetByOrderID(ctx context.Context, orderID string) (*etpayment.PaymentRecord, error)

	// GetByTxnSeqnoForShare 当前读，用于唯一键冲突后读取胜出方写入的记录
	GetByTxnSeqnoForShare(ctx context.Context, txnSeqno string) (*etpayment.PaymentRecord, error)

	// GetByIDForShare 当前读
	GetByIDForShare(ctx context.Context, id int64) (*etpayment.PaymentRecord, error)

	// Create 写入支付记录，txn_seqno 冲突时返回唯一键错误
	Create(ctx context.Context, record *etpayment.PaymentRecord) error

	// PatchTxnSeqno 为缺失流水号的记录补写，返回是否命中
	PatchTxnSeqno(ctx context.Context, id int64, txnSeqno string) (bool, error)

	// UpdateStatusByOrderID 更新订单下未支付记录的状态
	UpdateStatusByOrderID(ctx context.Context, orderID string, status etpayment.Status) (int64, error)

	// MarkPaid 标记已支付并保存平台流水号和通知内容
	MarkPaid(ctx context.Context, id int64, platformTxno string, payload []byte) error
}
