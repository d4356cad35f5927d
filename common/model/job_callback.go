package model

import "encoding/json"

// PaymentNotification 支付平台回调消息（标准化）
// 由支付网关写入 lmstfy 队列，callback consumer 消费
type PaymentNotification struct {
	OrderID      string          `json:"order_id"`      // 订单 ID
	TxnSeqno     string          `json:"txn_seqno"`     // 交易流水号
	PlatformTxno string          `json:"platform_txno"` // 支付平台流水号
	Status       string          `json:"status"`        // 支付结果: SUCCESS / FAILED
	AmountFen    int64           `json:"amount_fen"`    // 实付金额（分）
	Raw          json.RawMessage `json:"raw,omitempty"` // 平台原始通知
	NotifiedAt   int64           `json:"notified_at"`   // 通知时间（Unix timestamp）
}

// 支付结果常量
const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)
