package etcatalog

import "github.com/shopspring/decimal"

// Sku 商品库存单元（只读视图，库存变更走分配器）
type Sku struct {
	ID             string
	Name           string
	Stock          int64
	Price          decimal.Decimal
	WholesalePrice decimal.Decimal
}

// DistributionRecord 分销记录
type DistributionRecord struct {
	ID         string
	SkuID      string
	// UserID 分享该 SKU 的分销员，不是下单用户
	UserID     string
	SharePrice decimal.Decimal
}

// CartItem 购物车条目
type CartItem struct {
	ID                   int64
	UserID               string
	SkuID                string
	Quantity             int64
	DistributionRecordID string
}
