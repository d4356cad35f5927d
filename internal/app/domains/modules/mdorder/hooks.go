package mdorder

import (
	"context"
	"fmt"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/pkg/errorx"
)

// PostCreateHook 订单落库后、事务提交前执行；幂等命中时不执行
type PostCreateHook interface {
	AfterCreate(ctx context.Context, repos *Repos, order *etorder.Order, items *ItemSet) error
}

// CartCleanupHook 删除下单消费的购物车行
type CartCleanupHook struct{}

func (CartCleanupHook) AfterCreate(ctx context.Context, repos *Repos, order *etorder.Order, items *ItemSet) error {
	if len(items.CartItemIDs) == 0 {
		return nil
	}
	if _, err := repos.Carts.DeleteByIDs(ctx, order.UserID, items.CartItemIDs); err != nil {
		return errorx.Storage(fmt.Errorf("delete cart items failed: %w", err))
	}
	return nil
}
