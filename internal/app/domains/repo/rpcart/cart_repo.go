package rpcart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etcatalog"
)

// CartRepository 购物车仓储接口
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	// LockSelected 以 FOR UPDATE 锁定用户选中的购物车行，ids 为空时取全部选中行
	LockSelected(ctx context.Context, userID string, ids []int64) ([]*etcatalog.CartItem, error)

	// DeleteByIDs 删除用户的购物车行，返回删除行数
	DeleteByIDs(ctx context.Context, userID string, ids []int64) (int64, error)
}

// CartRepositoryImpl 购物车仓储实现（MySQL）
type CartRepositoryImpl struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) CartRepository {
	return &CartRepositoryImpl{db: db}
}

func (r *CartRepositoryImpl) WithTx(tx *gorm.DB) CartRepository {
	return &CartRepositoryImpl{db: tx}
}

func (r *CartRepositoryImpl) LockSelected(ctx context.Context, userID string, ids []int64) ([]*etcatalog.CartItem, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND selected = ?", userID, true)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	var pos []entity.CartItem
	if err := query.Order("id").Find(&pos).Error; err != nil {
		return nil, err
	}

	items := make([]*etcatalog.CartItem, 0, len(pos))
	for i := range pos {
		item := &etcatalog.CartItem{
			ID:       pos[i].ID,
			UserID:   pos[i].UserID,
			SkuID:    pos[i].SkuID,
			Quantity: pos[i].Quantity,
		}
		if pos[i].DistributionRecordID != nil {
			item.DistributionRecordID = *pos[i].DistributionRecordID
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *CartRepositoryImpl) DeleteByIDs(ctx context.Context, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&entity.CartItem{})
	return result.RowsAffected, result.Error
}
