package rpsku

import (
	"context"

	"gorm.io/gorm"

	"mall/ordercore/internal/app/domains/entity/etcatalog"
)

// SkuRepository SKU 仓储接口，库存只能通过 Allocate/Restock 批量修改
type SkuRepository interface {
	WithTx(tx *gorm.DB) SkuRepository

	// GetByIDs 批量查询，返回 id -> sku，缺失的 id 不出现在结果中
	GetByIDs(ctx context.Context, ids []string) (map[string]*etcatalog.Sku, error)

	// Allocate 单条语句按行扣减库存，每行只在库存充足时更新，返回受影响行数
	Allocate(ctx context.Context, lines map[string]int64) (int64, error)

	// Restock 单条语句按行回补库存，返回受影响行数
	Restock(ctx context.Context, lines map[string]int64) (int64, error)
}
