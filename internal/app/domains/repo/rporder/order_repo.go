package rporder

import (
	"context"

	"gorm.io/gorm"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// WithTx 绑定到事务
	WithTx(tx *gorm.DB) OrderRepository

	// Create 写入订单及明细，client_order_no 冲突时返回唯一键错误
	Create(ctx context.Context, order *etorder.Order) error

	// GetByID 查询订单（含明细），不存在返回 nil
	GetByID(ctx context.Context, orderID string) (*etorder.Order, error)

	// GetByClientOrderNo 按幂等号查询订单（含明细），不存在返回 nil
	GetByClientOrderNo(ctx context.Context, clientOrderNo string) (*etorder.Order, error)

	// GetCurrentStatus 当前读订单状态，用于条件更新未命中后的复查
	GetCurrentStatus(ctx context.Context, orderID string) (etorder.Status, bool, error)

	// CompareAndSetStatus 条件更新状态，返回是否命中
	CompareAndSetStatus(ctx context.Context, orderID string, from, to etorder.Status) (bool, error)

	// ListByUser 分页查询用户订单，按创建时间倒序
	ListByUser(ctx context.Context, userID string, page etprimitive.Pagination) ([]*etorder.Order, int64, error)
}
