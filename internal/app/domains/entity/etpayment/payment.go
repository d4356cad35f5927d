package etpayment

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Status 支付记录状态
type Status string

const (
	StatusInit    Status = "INIT"
	StatusCreated Status = "CREATED"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

// PaymentRecord 支付记录（领域对象），与订单一一对应
type PaymentRecord struct {
	ID            int64
	OrderID       string
	TxnSeqno      string
	PlatformTxno  string
	Status        Status
	AmountFen     int64
	ExpireTime    int64 // 毫秒时间戳
	NotifyPayload []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const txnSeqnoLen = 32

// TxnSeqnoFor 由订单ID确定性派生交易流水号，并发绑定方得到相同的值
func TxnSeqnoFor(orderID string) string {
	sum := sha256.Sum256([]byte(orderID))
	return hex.EncodeToString(sum[:])[:txnSeqnoLen]
}

// Paid 是否已支付
func (p *PaymentRecord) Paid() bool {
	return p != nil && p.Status == StatusPaid
}
