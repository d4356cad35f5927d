package mdorder

import (
	"context"
	"fmt"

	"mall/ordercore/internal/app/pkg/errorx"
)

// Allocate 扣减库存；受影响行数少于 SKU 数时返回库存不足，由调用方回滚事务
func (m *OrderModule) Allocate(ctx context.Context, lines map[string]int64) error {
	want := int64(0)
	for _, qty := range lines {
		if qty > 0 {
			want++
		}
	}
	if want == 0 {
		return nil
	}

	affected, err := m.repos.Skus.Allocate(ctx, lines)
	if err != nil {
		return errorx.Storage(fmt.Errorf("allocate stock failed: %w", err))
	}
	if affected < want {
		return errorx.ErrInsufficientStock
	}
	return nil
}

// Restock 回补库存
func (m *OrderModule) Restock(ctx context.Context, lines map[string]int64) error {
	if _, err := m.repos.Skus.Restock(ctx, lines); err != nil {
		return errorx.Storage(fmt.Errorf("restock failed: %w", err))
	}
	return nil
}
