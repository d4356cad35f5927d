package rpdistribution

import (
	"context"

	"gorm.io/gorm"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etcatalog"
)

// DistributionRepository 分销记录仓储接口（只读）
type DistributionRepository interface {
	WithTx(tx *gorm.DB) DistributionRepository
	GetByIDs(ctx context.Context, ids []string) (map[string]*etcatalog.DistributionRecord, error)
}

// DistributionRepositoryImpl 分销记录仓储实现（MySQL）
type DistributionRepositoryImpl struct {
	db *gorm.DB
}

// NewDistributionRepository 创建分销记录仓储实例
func NewDistributionRepository(db *gorm.DB) DistributionRepository {
	return &DistributionRepositoryImpl{db: db}
}

func (r *DistributionRepositoryImpl) WithTx(tx *gorm.DB) DistributionRepository {
	return &DistributionRepositoryImpl{db: tx}
}

// GetByIDs 批量查询分销记录
func (r *DistributionRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]*etcatalog.DistributionRecord, error) {
	result := make(map[string]*etcatalog.DistributionRecord, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var pos []entity.DistributionRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, err
	}
	for i := range pos {
		result[pos[i].ID] = &etcatalog.DistributionRecord{
			ID:         pos[i].ID,
			SkuID:      pos[i].SkuID,
			UserID:     pos[i].UserID,
			SharePrice: pos[i].SharePrice,
		}
	}
	return result, nil
}
