package etorder

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单聚合根（领域对象）
type Order struct {
	ID              string
	ClientOrderNo   string
	UserID          string
	DeliveryInfoID  string
	Status          Status
	TotalPrice      decimal.Decimal
	OrderExpireTime int64 // 毫秒时间戳
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单明细，价格为下单时快照
type OrderItem struct {
	ID                   int64
	OrderID              string
	SkuID                string
	Quantity             int64
	Price                decimal.Decimal
	WholesalePrice       decimal.Decimal
	DistributionRecordID string
	DistributionPrice    *decimal.Decimal
	AfterServiceStatus   string
}

// 售后状态由外部售后流程驱动，下单时为 NONE
const AfterServiceNone = "NONE"

// Expired 待支付订单是否已超时
func (o *Order) Expired(now time.Time) bool {
	return o.Status == StatusToPay && o.OrderExpireTime > 0 && now.UnixMilli() >= o.OrderExpireTime
}

// StockLines 按 SKU 汇总的数量，用于回补库存
func (o *Order) StockLines() map[string]int64 {
	lines := make(map[string]int64, len(o.Items))
	for _, item := range o.Items {
		lines[item.SkuID] += item.Quantity
	}
	return lines
}
