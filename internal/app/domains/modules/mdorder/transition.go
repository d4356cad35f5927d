package mdorder

import (
	"context"
	"fmt"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/pkg/errorx"
)

// Transition 条件更新订单状态 from -> to。
// 未命中时复查：已是目标状态视为幂等（applied=false），否则返回状态冲突。
func (m *OrderModule) Transition(ctx context.Context, orderID string, from, to etorder.Status) (bool, error) {
	ok, err := m.repos.Orders.CompareAndSetStatus(ctx, orderID, from, to)
	if err != nil {
		return false, errorx.Storage(fmt.Errorf("update order status failed: %w", err))
	}
	if ok {
		return true, nil
	}

	current, found, err := m.repos.Orders.GetCurrentStatus(ctx, orderID)
	if err != nil {
		return false, errorx.Storage(fmt.Errorf("reload order status failed: %w", err))
	}
	if !found {
		return false, errorx.ErrOrderNotFound
	}
	if current == to {
		return false, nil
	}
	return false, errorx.ErrOrderStateConflict.WithDetail("status", string(current))
}
