package response

import "time"

// OrderResponse 订单响应（DTO）
type OrderResponse struct {
	ID              string               `json:"id"`
	ClientOrderNo   string               `json:"client_order_no"`
	UserID          string               `json:"user_id"`
	DeliveryInfoID  string               `json:"delivery_info_id,omitempty"`
	Status          string               `json:"status"`
	TotalPrice      string               `json:"total_price" example:"6.00"`
	OrderExpireTime int64                `json:"order_expire_time"`
	Items           []*OrderItemResponse `json:"items"`
	Payment         *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderItemResponse 订单明细（DTO），价格为下单时快照
type OrderItemResponse struct {
	ID                   int64   `json:"id"`
	SkuID                string  `json:"sku_id"`
	Quantity             int64   `json:"quantity"`
	Price                string  `json:"price"`
	WholesalePrice       string  `json:"wholesale_price"`
	DistributionRecordID string  `json:"distribution_record_id,omitempty"`
	DistributionPrice    *string `json:"distribution_price,omitempty"`
	AfterServiceStatus   string  `json:"after_service_status"`
}

// PaymentResponse 支付记录（DTO），ID 以字符串输出避免前端精度丢失
type PaymentResponse struct {
	ID           string `json:"id"`
	TxnSeqno     string `json:"txn_seqno"`
	PlatformTxno string `json:"platform_txno,omitempty"`
	Status       string `json:"status"`
	AmountFen    int64  `json:"amount_fen"`
	ExpireTime   int64  `json:"expire_time,omitempty"`
}

// CreateOrderResponse 下单响应
type CreateOrderResponse struct {
	Order      *OrderResponse `json:"order"`
	Idempotent bool           `json:"idempotent"`
}

// TransitionResponse 状态迁移响应，applied 为 false 表示目标状态已生效
type TransitionResponse struct {
	Order   *OrderResponse `json:"order"`
	From    string         `json:"from"`
	Applied bool           `json:"applied"`
}

// ListOrdersResponse 分页响应
type ListOrdersResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
	Total  int64            `json:"total"`
}

// WaitStatusResponse 状态等待响应
type WaitStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
}
