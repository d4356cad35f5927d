package rpsku

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etcatalog"
)

// SkuRepositoryImpl SKU 仓储实现（MySQL）
type SkuRepositoryImpl struct {
	db *gorm.DB
}

// NewSkuRepository 创建 SKU 仓储实例
func NewSkuRepository(db *gorm.DB) SkuRepository {
	return &SkuRepositoryImpl{db: db}
}

// WithTx 绑定到事务
func (r *SkuRepositoryImpl) WithTx(tx *gorm.DB) SkuRepository {
	return &SkuRepositoryImpl{db: tx}
}

// GetByIDs 批量查询 SKU
func (r *SkuRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]*etcatalog.Sku, error) {
	result := make(map[string]*etcatalog.Sku, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var pos []entity.Sku
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, err
	}
	for i := range pos {
		result[pos[i].ID] = &etcatalog.Sku{
			ID:             pos[i].ID,
			Name:           pos[i].Name,
			Stock:          pos[i].Stock,
			Price:          pos[i].Price,
			WholesalePrice: pos[i].WholesalePrice,
		}
	}
	return result, nil
}

// Allocate 扣减库存
// UPDATE skus SET stock = stock - (CASE id WHEN ? THEN ? ... END)
// WHERE id IN (...) AND stock >= (CASE id WHEN ? THEN ? ... END)
func (r *SkuRepositoryImpl) Allocate(ctx context.Context, lines map[string]int64) (int64, error) {
	ids, caseSQL, caseArgs := quantityCase(lines)
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Sku{}).
		Where("id IN ?", ids).
		Where("stock >= "+caseSQL, caseArgs...).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - "+caseSQL, caseArgs...),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Restock 回补库存，增量总是安全的，不加库存条件
func (r *SkuRepositoryImpl) Restock(ctx context.Context, lines map[string]int64) (int64, error) {
	ids, caseSQL, caseArgs := quantityCase(lines)
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Sku{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + "+caseSQL, caseArgs...),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// quantityCase 生成 id -> 数量 的 CASE 表达式，id 排序保证加锁顺序一致
func quantityCase(lines map[string]int64) ([]string, string, []interface{}) {
	ids := make([]string, 0, len(lines))
	for id, qty := range lines {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var sb strings.Builder
	args := make([]interface{}, 0, len(ids)*2)
	sb.WriteString("(CASE id")
	for _, id := range ids {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, id, lines[id])
	}
	sb.WriteString(" END)")
	return ids, sb.String(), args
}
