package rporder

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/infra/schema"
)

// OrderRepositoryImpl 订单仓储实现（MySQL）
type OrderRepositoryImpl struct {
	db     *gorm.DB
	schema schema.Descriptor
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB, desc schema.Descriptor) OrderRepository {
	return &OrderRepositoryImpl{db: db, schema: desc}
}

// WithTx 绑定到事务
func (r *OrderRepositoryImpl) WithTx(tx *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: tx, schema: r.schema}
}

// Create 写入订单及明细
func (r *OrderRepositoryImpl) Create(ctx context.Context, order *etorder.Order) error {
	po := toOrderPO(order)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}

	if len(order.Items) == 0 {
		return nil
	}
	items := make([]*entity.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		item.OrderID = order.ID
		items = append(items, toItemPO(item, po.CreatedAt))
	}
	if err := r.itemQuery(ctx).Create(&items).Error; err != nil {
		return err
	}
	for i, item := range order.Items {
		item.ID = items[i].ID
	}
	order.CreatedAt, order.UpdatedAt = po.CreatedAt, po.UpdatedAt
	return nil
}

// GetByID 查询订单（含明细）
func (r *OrderRepositoryImpl) GetByID(ctx context.Context, orderID string) (*etorder.Order, error) {
	return r.getOne(ctx, "id = ?", orderID)
}

// GetByClientOrderNo 按幂等号查询订单（含明细）
func (r *OrderRepositoryImpl) GetByClientOrderNo(ctx context.Context, clientOrderNo string) (*etorder.Order, error) {
	return r.getOne(ctx, "client_order_no = ?", clientOrderNo)
}

func (r *OrderRepositoryImpl) getOne(ctx context.Context, cond string, arg interface{}) (*etorder.Order, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).Where(cond, arg).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	orders, err := r.withItems(ctx, []entity.Order{po})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// GetCurrentStatus 加共享锁读取最新提交的状态
func (r *OrderRepositoryImpl) GetCurrentStatus(ctx context.Context, orderID string) (etorder.Status, bool, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id", "status").
		Where("id = ?", orderID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return etorder.Status(po.Status), true, nil
}

// CompareAndSetStatus 仅当当前状态为 from 时更新为 to
func (r *OrderRepositoryImpl) CompareAndSetStatus(ctx context.Context, orderID string, from, to etorder.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByUser 分页查询用户订单
func (r *OrderRepositoryImpl) ListByUser(ctx context.Context, userID string, page etprimitive.Pagination) ([]*etorder.Order, int64, error) {
	var total int64
	var pos []entity.Order

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*etorder.Order{}, 0, nil
	}

	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	orders, err := r.withItems(ctx, pos)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepositoryImpl) itemQuery(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if omits := r.schema.OrderItemOmits(); len(omits) > 0 {
		q = q.Omit(omits...)
	}
	return q
}

// withItems 批量加载明细并转换为领域对象
func (r *OrderRepositoryImpl) withItems(ctx context.Context, pos []entity.Order) ([]*etorder.Order, error) {
	orders := make([]*etorder.Order, 0, len(pos))
	if len(pos) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(pos))
	byID := make(map[string]*etorder.Order, len(pos))
	for i := range pos {
		order := toOrderDomain(&pos[i])
		orders = append(orders, order)
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	var items []entity.OrderItem
	if err := r.itemQuery(ctx).Where("order_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		if order, ok := byID[items[i].OrderID]; ok {
			order.Items = append(order.Items, toItemDomain(&items[i]))
		}
	}
	return orders, nil
}

func toOrderPO(order *etorder.Order) *entity.Order {
	now := time.Now()
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &entity.Order{
		ID:              order.ID,
		ClientOrderNo:   order.ClientOrderNo,
		UserID:          order.UserID,
		DeliveryInfoID:  order.DeliveryInfoID,
		Status:          string(order.Status),
		TotalPrice:      order.TotalPrice,
		OrderExpireTime: order.OrderExpireTime,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func toOrderDomain(po *entity.Order) *etorder.Order {
	return &etorder.Order{
		ID:              po.ID,
		ClientOrderNo:   po.ClientOrderNo,
		UserID:          po.UserID,
		DeliveryInfoID:  po.DeliveryInfoID,
		Status:          etorder.Status(po.Status),
		TotalPrice:      po.TotalPrice,
		OrderExpireTime: po.OrderExpireTime,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	}
}

func toItemPO(item *etorder.OrderItem, createdAt time.Time) *entity.OrderItem {
	po := &entity.OrderItem{
		OrderID:            item.OrderID,
		SkuID:              item.SkuID,
		Quantity:           item.Quantity,
		Price:              item.Price,
		WholesalePrice:     item.WholesalePrice,
		AfterServiceStatus: item.AfterServiceStatus,
		CreatedAt:          createdAt,
	}
	if po.AfterServiceStatus == "" {
		po.AfterServiceStatus = etorder.AfterServiceNone
	}
	if item.DistributionRecordID != "" {
		id := item.DistributionRecordID
		po.DistributionRecordID = &id
	}
	if item.DistributionPrice != nil {
		po.DistributionPrice = decimal.NewNullDecimal(*item.DistributionPrice)
	}
	return po
}

func toItemDomain(po *entity.OrderItem) *etorder.OrderItem {
	item := &etorder.OrderItem{
		ID:                 po.ID,
		OrderID:            po.OrderID,
		SkuID:              po.SkuID,
		Quantity:           po.Quantity,
		Price:              po.Price,
		WholesalePrice:     po.WholesalePrice,
		AfterServiceStatus: po.AfterServiceStatus,
	}
	if po.DistributionRecordID != nil {
		item.DistributionRecordID = *po.DistributionRecordID
	}
	if po.DistributionPrice.Valid {
		price := po.DistributionPrice.Decimal
		item.DistributionPrice = &price
	}
	return item
}
