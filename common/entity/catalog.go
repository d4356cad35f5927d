package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sku 商品库存单元，stock 只能通过库存分配器修改
type Sku struct {
	ID             string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	Name           string          `gorm:"column:name;type:varchar(255);not null;default:''"`
	Stock          int64           `gorm:"column:stock;not null;default:0"`
	Price          decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:decimal(12,2);not null"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Sku) TableName() string {
	return "skus"
}

// DistributionRecord 分销记录：分销员 user 对 sku 的分享价，下单用户可以是任意买家
type DistributionRecord struct {
	ID         string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	SkuID      string          `gorm:"column:sku_id;type:varchar(64);not null;index:idx_sku_user"`
	UserID     string          `gorm:"column:user_id;type:varchar(64);not null;index:idx_sku_user"`
	SharePrice decimal.Decimal `gorm:"column:share_price;type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (DistributionRecord) TableName() string {
	return "distribution_records"
}

// CartItem 购物车条目
type CartItem struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID               string    `gorm:"column:user_id;type:varchar(64);not null;index:idx_cart_items_user_id"`
	SkuID                string    `gorm:"column:sku_id;type:varchar(64);not null"`
	Quantity             int64     `gorm:"column:quantity;not null"`
	DistributionRecordID *string   `gorm:"column:distribution_record_id;type:varchar(64)"`
	Selected             bool      `gorm:"column:selected;not null;default:true"`
	CreatedAt            time.Time `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
