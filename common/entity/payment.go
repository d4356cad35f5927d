package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentRecord 支付记录实体（llpay），每个订单唯一一条
type PaymentRecord struct {
	ID            int64          `gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderID       string         `gorm:"column:order_id;type:varchar(64);not null;index:idx_llpay_order_id"`
	TxnSeqno      *string        `gorm:"column:txn_seqno;type:varchar(64);uniqueIndex:uk_txn_seqno"`
	PlatformTxno  string         `gorm:"column:platform_txno;type:varchar(128);not null;default:''"`
	Status        string         `gorm:"column:status;type:varchar(16);not null;default:'INIT'"`
	AmountFen     int64          `gorm:"column:amount_fen;not null"`
	ExpireTime    int64          `gorm:"column:expire_time;not null;default:0"`
	NotifyPayload datatypes.JSON `gorm:"column:notify_payload;type:json"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (PaymentRecord) TableName() string {
	return "llpay"
}

// Models 全部持久化模型，供迁移使用
func Models() []interface{} {
	return []interface{}{
		&Order{},
		&OrderItem{},
		&Sku{},
		&DistributionRecord{},
		&CartItem{},
		&PaymentRecord{},
	}
}

// 可选列，旧库可能不存在
const ColumnPaymentExpireTime = "expire_time"
