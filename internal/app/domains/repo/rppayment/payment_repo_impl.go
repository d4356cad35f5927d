package rppayment

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/infra/schema"
)

// PaymentRepositoryImpl 支付记录仓储实现（MySQL，表 llpay）
type PaymentRepositoryImpl struct {
	db     *gorm.DB
	schema schema.Descriptor
}

// NewPaymentRepository 创建支付记录仓储实例
func NewPaymentRepository(db *gorm.DB, desc schema.Descriptor) PaymentRepository {
	return &PaymentRepositoryImpl{db: db, schema: desc}
}

func (r *PaymentRepositoryImpl) WithTx(tx *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: tx, schema: r.schema}
}

func (r *PaymentRepositoryImpl) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if omits := r.schema.PaymentOmits(); len(omits) > 0 {
		q = q.Omit(omits...)
	}
	return q
}

func (r *PaymentRepositoryImpl) GetByOrderID(ctx context.Context, orderID string) (*etpayment.PaymentRecord, error) {
	return r.first(r.query(ctx).Where("order_id = ?", orderID))
}

func (r *PaymentRepositoryImpl) GetByTxnSeqnoForShare(ctx context.Context, txnSeqno string) (*etpayment.PaymentRecord, error) {
	return r.first(r.query(ctx).Clauses(clause.Locking{Strength: "SHARE"}).Where("txn_seqno = ?", txnSeqno))
}

func (r *PaymentRepositoryImpl) GetByIDForShare(ctx context.Context, id int64) (*etpayment.PaymentRecord, error) {
	return r.first(r.query(ctx).Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", id))
}

func (r *PaymentRepositoryImpl) first(q *gorm.DB) (*etpayment.PaymentRecord, error) {
	var po entity.PaymentRecord
	if err := q.Order("id").First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&po), nil
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, record *etpayment.PaymentRecord) error {
	po := toPO(record)
	if err := r.query(ctx).Create(po).Error; err != nil {
		return err
	}
	record.CreatedAt, record.UpdatedAt = po.CreatedAt, po.UpdatedAt
	return nil
}

func (r *PaymentRepositoryImpl) PatchTxnSeqno(ctx context.Context, id int64, txnSeqno string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.PaymentRecord{}).
		Where("id = ? AND (txn_seqno IS NULL OR txn_seqno = '')", id).
		Updates(map[string]interface{}{
			"txn_seqno":  txnSeqno,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentRepositoryImpl) UpdateStatusByOrderID(ctx context.Context, orderID string, status etpayment.Status) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.PaymentRecord{}).
		Where("order_id = ? AND status <> ?", orderID, string(etpayment.StatusPaid)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *PaymentRepositoryImpl) MarkPaid(ctx context.Context, id int64, platformTxno string, payload []byte) error {
	updates := map[string]interface{}{
		"status":        string(etpayment.StatusPaid),
		"platform_txno": platformTxno,
		"updated_at":    time.Now(),
	}
	if len(payload) > 0 {
		updates["notify_payload"] = datatypes.JSON(payload)
	}
	return r.db.WithContext(ctx).
		Model(&entity.PaymentRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func toPO(record *etpayment.PaymentRecord) *entity.PaymentRecord {
	po := &entity.PaymentRecord{
		ID:           record.ID,
		OrderID:      record.OrderID,
		PlatformTxno: record.PlatformTxno,
		Status:       string(record.Status),
		AmountFen:    record.AmountFen,
		ExpireTime:   record.ExpireTime,
	}
	if record.TxnSeqno != "" {
		seq := record.TxnSeqno
		po.TxnSeqno = &seq
	}
	if len(record.NotifyPayload) > 0 {
		po.NotifyPayload = datatypes.JSON(record.NotifyPayload)
	}
	return po
}

func toDomain(po *entity.PaymentRecord) *etpayment.PaymentRecord {
	record := &etpayment.PaymentRecord{
		ID:            po.ID,
		OrderID:       po.OrderID,
		PlatformTxno:  po.PlatformTxno,
		Status:        etpayment.Status(po.Status),
		AmountFen:     po.AmountFen,
		ExpireTime:    po.ExpireTime,
		NotifyPayload: []byte(po.NotifyPayload),
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
	if po.TxnSeqno != nil {
		record.TxnSeqno = *po.TxnSeqno
	}
	return record
}
