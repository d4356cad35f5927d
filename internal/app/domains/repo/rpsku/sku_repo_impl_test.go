package rpsku

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/pkg/testdb"
)

func seedSku(t *testing.T, db *gorm.DB, id string, stock int64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Sku{
		ID:             id,
		Stock:          stock,
		Price:          decimal.RequireFromString("3.00"),
		WholesalePrice: decimal.RequireFromString("2.00"),
	}).Error)
}

func stockOf(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()
	var sku entity.Sku
	require.NoError(t, db.First(&sku, "id = ?", id).Error)
	return sku.Stock
}

func TestAllocateDecrementsEachRowByItsOwnQuantity(t *testing.T) {
	db := testdb.Open(t)
	seedSku(t, db, "A", 5)
	seedSku(t, db, "B", 10)
	repo := NewSkuRepository(db)

	affected, err := repo.Allocate(context.Background(), map[string]int64{"A": 2, "B": 7})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)
	assert.EqualValues(t, 3, stockOf(t, db, "A"))
	assert.EqualValues(t, 3, stockOf(t, db, "B"))
}

func TestAllocateSkipsRowsWithoutEnoughStock(t *testing.T) {
	db := testdb.Open(t)
	seedSku(t, db, "A", 5)
	seedSku(t, db, "B", 1)
	repo := NewSkuRepository(db)

	affected, err := repo.Allocate(context.Background(), map[string]int64{"A": 2, "B": 2})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.EqualValues(t, 1, stockOf(t, db, "B"), "guarded row never goes negative")
}

func TestAllocateRollsBackWithinTransaction(t *testing.T) {
	db := testdb.Open(t)
	seedSku(t, db, "A", 5)
	seedSku(t, db, "B", 1)
	repo := NewSkuRepository(db)

	lines := map[string]int64{"A": 2, "B": 2}
	err := db.Transaction(func(tx *gorm.DB) error {
		affected, err := repo.WithTx(tx).Allocate(context.Background(), lines)
		require.NoError(t, err)
		if affected < int64(len(lines)) {
			return assert.AnError
		}
		return nil
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.EqualValues(t, 5, stockOf(t, db, "A"))
	assert.EqualValues(t, 1, stockOf(t, db, "B"))
}

func TestRestockIncrements(t *testing.T) {
	db := testdb.Open(t)
	seedSku(t, db, "A", 0)
	seedSku(t, db, "B", 4)
	repo := NewSkuRepository(db)

	affected, err := repo.Restock(context.Background(), map[string]int64{"A": 3, "B": 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)
	assert.EqualValues(t, 3, stockOf(t, db, "A"))
	assert.EqualValues(t, 5, stockOf(t, db, "B"))
}

func TestQuantityCaseIsSorted(t *testing.T) {
	ids, sql, args := quantityCase(map[string]int64{"b": 1, "a": 2, "c": 0})
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, "(CASE id WHEN ? THEN ? WHEN ? THEN ? END)", sql)
	assert.Equal(t, []interface{}{"a", int64(2), "b", int64(1)}, args)
}

func TestGetByIDs(t *testing.T) {
	db := testdb.Open(t)
	seedSku(t, db, "A", 5)
	repo := NewSkuRepository(db)

	skus, err := repo.GetByIDs(context.Background(), []string{"A", "missing"})
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.True(t, skus["A"].Price.Equal(decimal.RequireFromString("3")))
}
