package request

import "encoding/json"

// CreateOrderRequest 创建订单请求（显式明细）
type CreateOrderRequest struct {
	ClientOrderNo  string       `json:"client_order_no" binding:"required,max=64" example:"c-20250501-0001"`
	UserID         string       `json:"user_id" binding:"required,max=64" example:"u-1001"`
	DeliveryInfoID string       `json:"delivery_info_id" binding:"max=64" example:"addr-1"`
	Items          []*OrderItem `json:"items" binding:"required,min=1,dive,required"`
}

// OrderItem 下单明细
type OrderItem struct {
	SkuID                string `json:"sku_id" binding:"required,max=64" example:"sku-1"`
	Quantity             int64  `json:"quantity" binding:"required,gt=0" example:"2"`
	DistributionRecordID string `json:"distribution_record_id" binding:"max=64" example:"dist-1"`
}

// CreateOrderFromCartRequest 从购物车下单，cart_item_ids 为空时使用全部已选中条目
type CreateOrderFromCartRequest struct {
	ClientOrderNo  string  `json:"client_order_no" binding:"required,max=64" example:"c-20250501-0002"`
	UserID         string  `json:"user_id" binding:"required,max=64" example:"u-1001"`
	DeliveryInfoID string  `json:"delivery_info_id" binding:"max=64" example:"addr-1"`
	CartItemIDs    []int64 `json:"cart_item_ids" example:"1,2"`
}

// UpdateStatusRequest 通用状态更新
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"TO_RECEIVE"`
}

// MarkPaidRequest 支付成功
type MarkPaidRequest struct {
	PlatformTxno string          `json:"platform_txno" binding:"required,max=64" example:"pt-20250501-0001"`
	Payload      json.RawMessage `json:"payload" swaggertype:"object"`
}

// ListOrdersQuery 订单分页查询
type ListOrdersQuery struct {
	UserID string `form:"user_id" binding:"required"`
	Page   int    `form:"page" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
}

// WaitStatusQuery 等待状态变更
type WaitStatusQuery struct {
	Since   string `form:"since" binding:"required"`
	Timeout int    `form:"timeout" binding:"min=0,max=30"`
}
