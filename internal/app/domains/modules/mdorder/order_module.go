package mdorder

import (
	"context"

	"gorm.io/gorm"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/domains/repo/rpcart"
	"mall/ordercore/internal/app/domains/repo/rpdistribution"
	"mall/ordercore/internal/app/domains/repo/rporder"
	"mall/ordercore/internal/app/domains/repo/rppayment"
	"mall/ordercore/internal/app/domains/repo/rpsku"
	"mall/ordercore/internal/app/pkg/errorx"
	"mall/ordercore/internal/app/pkg/idgen"
)

// Repos 订单链路依赖的仓储集合
type Repos struct {
	Orders        rporder.OrderRepository
	Skus          rpsku.SkuRepository
	Carts         rpcart.CartRepository
	Distributions rpdistribution.DistributionRepository
	Payments      rppayment.PaymentRepository
}

// WithTx 全部仓储绑定到同一事务
func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Orders:        r.Orders.WithTx(tx),
		Skus:          r.Skus.WithTx(tx),
		Carts:         r.Carts.WithTx(tx),
		Distributions: r.Distributions.WithTx(tx),
		Payments:      r.Payments.WithTx(tx),
	}
}

// OrderSnapshot 订单及其绑定的支付记录
type OrderSnapshot struct {
	Order   *etorder.Order
	Payment *etpayment.PaymentRecord
}

// OrderModule 订单模块（数据操作与领域规则），事务边界由服务层通过 InTx 控制
type OrderModule struct {
	db    *gorm.DB
	repos *Repos
	ids   idgen.Generator
}

// NewOrderModule 创建订单模块
func NewOrderModule(db *gorm.DB, repos *Repos, ids idgen.Generator) *OrderModule {
	if ids == nil {
		ids = idgen.Default()
	}
	return &OrderModule{
		db:    db,
		repos: repos,
		ids:   ids,
	}
}

// InTx 在事务中执行，fn 返回错误时整体回滚
func (m *OrderModule) InTx(ctx context.Context, fn func(txm *OrderModule) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderModule{
			db:    tx,
			repos: m.repos.WithTx(tx),
			ids:   m.ids,
		})
	})
}

// Repos 当前（可能已绑定事务的）仓储
func (m *OrderModule) Repos() *Repos {
	return m.repos
}

// NewOrderID 生成订单ID
func (m *OrderModule) NewOrderID() string {
	return m.ids.OrderID()
}

// GetSnapshot 查询订单快照，不存在返回 ErrOrderNotFound
func (m *OrderModule) GetSnapshot(ctx context.Context, orderID string) (*OrderSnapshot, error) {
	order, err := m.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errorx.Storage(err)
	}
	if order == nil {
		return nil, errorx.ErrOrderNotFound
	}
	return m.snapshotOf(ctx, order)
}

// FindByClientOrderNo 幂等检查：按幂等号查询已存在的订单，不存在返回 nil
func (m *OrderModule) FindByClientOrderNo(ctx context.Context, clientOrderNo string) (*OrderSnapshot, error) {
	order, err := m.repos.Orders.GetByClientOrderNo(ctx, clientOrderNo)
	if err != nil {
		return nil, errorx.Storage(err)
	}
	if order == nil {
		return nil, nil
	}
	return m.snapshotOf(ctx, order)
}

func (m *OrderModule) snapshotOf(ctx context.Context, order *etorder.Order) (*OrderSnapshot, error) {
	payment, err := m.repos.Payments.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, errorx.Storage(err)
	}
	return &OrderSnapshot{Order: order, Payment: payment}, nil
}

// CreateOrder 写入订单及明细，幂等号冲突时返回唯一键错误（未包装）
func (m *OrderModule) CreateOrder(ctx context.Context, order *etorder.Order) error {
	return m.repos.Orders.Create(ctx, order)
}

// ListOrders 分页查询用户订单
func (m *OrderModule) ListOrders(ctx context.Context, userID string, page etprimitive.Pagination) ([]*etorder.Order, int64, error) {
	orders, total, err := m.repos.Orders.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, errorx.Storage(err)
	}
	return orders, total, nil
}
