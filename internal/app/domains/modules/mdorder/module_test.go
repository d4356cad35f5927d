package mdorder

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/repo/rpcart"
	"mall/ordercore/internal/app/domains/repo/rpdistribution"
	"mall/ordercore/internal/app/domains/repo/rporder"
	"mall/ordercore/internal/app/domains/repo/rppayment"
	"mall/ordercore/internal/app/domains/repo/rpsku"
	"mall/ordercore/internal/app/infra/schema"
	"mall/ordercore/internal/app/pkg/testdb"
)

func newRepos(db *gorm.DB) *Repos {
	desc := schema.Full()
	return &Repos{
		Orders:        rporder.NewOrderRepository(db, desc),
		Skus:          rpsku.NewSkuRepository(db),
		Carts:         rpcart.NewCartRepository(db),
		Distributions: rpdistribution.NewDistributionRepository(db),
		Payments:      rppayment.NewPaymentRepository(db, desc),
	}
}

func newTestModule(t *testing.T) (*OrderModule, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return NewOrderModule(db, newRepos(db), nil), db
}

func seedSku(t *testing.T, db *gorm.DB, id string, stock int64, price string) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Sku{
		ID:             id,
		Stock:          stock,
		Price:          decimal.RequireFromString(price),
		WholesalePrice: decimal.RequireFromString(price).Sub(decimal.NewFromInt(1)),
	}).Error)
}

func stockOf(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()
	var sku entity.Sku
	require.NoError(t, db.First(&sku, "id = ?", id).Error)
	return sku.Stock
}

func seedCart(t *testing.T, db *gorm.DB, userID, skuID string, qty int64, selected bool) int64 {
	t.Helper()
	row := &entity.CartItem{UserID: userID, SkuID: skuID, Quantity: qty, Selected: selected}
	require.NoError(t, db.Create(row).Error)
	if !selected {
		// gorm 对零值使用列默认值，显式更新
		require.NoError(t, db.Model(row).Update("selected", false).Error)
	}
	return row.ID
}

var bg = context.Background()
