package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单实体
type Order struct {
	ID              string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	ClientOrderNo   string          `gorm:"column:client_order_no;type:varchar(64);not null;uniqueIndex:uk_client_order_no"`
	UserID          string          `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_created"`
	DeliveryInfoID  string          `gorm:"column:delivery_info_id;type:varchar(64)"`
	Status          string          `gorm:"column:status;type:varchar(32);not null;default:'TO_PAY';index:idx_status"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:decimal(12,2);not null"`
	OrderExpireTime int64           `gorm:"column:order_expire_time;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;index:idx_user_created"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细实体，价格为下单时快照
type OrderItem struct {
	ID                   int64               `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID              string              `gorm:"column:order_id;type:varchar(64);not null;index:idx_order_items_order_id"`
	SkuID                string              `gorm:"column:sku_id;type:varchar(64);not null"`
	Quantity             int64               `gorm:"column:quantity;not null"`
	Price                decimal.Decimal     `gorm:"column:price;type:decimal(12,2);not null"`
	WholesalePrice       decimal.Decimal     `gorm:"column:wholesale_price;type:decimal(12,2);not null"`
	DistributionRecordID *string             `gorm:"column:distribution_record_id;type:varchar(64)"`
	DistributionPrice    decimal.NullDecimal `gorm:"column:distribution_price;type:decimal(12,2)"`
	AfterServiceStatus   string              `gorm:"column:after_service_status;type:varchar(32);not null;default:'NONE'"`
	CreatedAt            time.Time           `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// 可选列，旧库可能不存在
const ColumnOrderItemDistributionPrice = "distribution_price"
