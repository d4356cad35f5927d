package svorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/domains/modules/mdorder"
	"mall/ordercore/internal/app/infra/persistence/mysql"
	"mall/ordercore/internal/app/pkg/errorx"
	"mall/ordercore/internal/app/pkg/logger"
)

const maxClientOrderNoLen = 64

// 并发创建时插入被唯一键拒绝，回滚后读取胜出方
var errLostCreateRace = errors.New("lost client_order_no race")

// CreateOrderCommand 下单参数
type CreateOrderCommand struct {
	ClientOrderNo  string
	UserID         string
	DeliveryInfoID string
	Source         mdorder.ItemSource
	Hook           mdorder.PostCreateHook
}

// CreateOrderResult 下单结果，Idempotent 为 true 时调用方不应重复执行副作用
type CreateOrderResult struct {
	Order      *etorder.Order
	Payment    *etpayment.PaymentRecord
	Idempotent bool
}

// TransitionResult 状态迁移结果，Applied 为 false 表示目标状态已生效（幂等）
type TransitionResult struct {
	Order   *etorder.Order
	Payment *etpayment.PaymentRecord
	From    etorder.Status
	Applied bool
}

// OrderService 订单服务，负责订单业务编排与事务边界
type OrderService struct {
	orderModule *mdorder.OrderModule
	policy      etorder.TransitionPolicy
	expireAfter time.Duration
	now         func() time.Time

	events    EventPublisher
	notifier  StatusNotifier
	scheduler ExpireScheduler
	logger    logger.Logger
}

// Option 服务可选配置
type Option func(*OrderService)

// WithPolicy 通用状态更新策略
func WithPolicy(p etorder.TransitionPolicy) Option {
	return func(s *OrderService) { s.policy = p }
}

// WithExpireAfter 待支付超时时长
func WithExpireAfter(d time.Duration) Option {
	return func(s *OrderService) { s.expireAfter = d }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *OrderService) { s.events = p }
}

func WithStatusNotifier(n StatusNotifier) Option {
	return func(s *OrderService) { s.notifier = n }
}

func WithExpireScheduler(sch ExpireScheduler) Option {
	return func(s *OrderService) { s.scheduler = sch }
}

// NewOrderService 创建订单服务实例
func NewOrderService(orderModule *mdorder.OrderModule, log logger.Logger, opts ...Option) *OrderService {
	s := &OrderService{
		orderModule: orderModule,
		policy:      etorder.PermissivePolicy{},
		expireAfter: 30 * time.Minute,
		now:         time.Now,
		events:      nopSideEffects{},
		notifier:    nopSideEffects{},
		scheduler:   nopSideEffects{},
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder 创建订单
// 1. 幂等检查，命中直接返回已存在的订单
// 2. 解析明细（购物车来源会锁定购物车行）
// 3. 定价
// 4. 单条语句扣减库存，不足则整体回滚
// 5. 写入订单与明细，幂等号冲突则回滚并返回胜出方
// 6. 执行下单后钩子
// 7. 绑定支付记录
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}
	ctx = logger.WithClientOrderNo(ctx, cmd.ClientOrderNo)

	var result *CreateOrderResult
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		existing, err := txm.FindByClientOrderNo(ctx, cmd.ClientOrderNo)
		if err != nil {
			return err
		}
		if existing != nil {
			result = &CreateOrderResult{Order: existing.Order, Payment: existing.Payment, Idempotent: true}
			return nil
		}

		items, err := cmd.Source.Resolve(ctx, txm.Repos())
		if err != nil {
			return err
		}
		priced, err := txm.PriceItems(ctx, items)
		if err != nil {
			return err
		}
		if err := txm.Allocate(ctx, items.StockLines()); err != nil {
			return err
		}

		now := s.now()
		order := &etorder.Order{
			ID:              txm.NewOrderID(),
			ClientOrderNo:   cmd.ClientOrderNo,
			UserID:          cmd.UserID,
			DeliveryInfoID:  cmd.DeliveryInfoID,
			Status:          etorder.StatusToPay,
			TotalPrice:      etprimitive.FromFen(priced.TotalFen),
			OrderExpireTime: now.Add(s.expireAfter).UnixMilli(),
			Items:           priced.Items,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := txm.CreateOrder(ctx, order); err != nil {
			if mysql.IsDuplicateKey(err) {
				return errLostCreateRace
			}
			return errorx.Storage(fmt.Errorf("save order failed: %w", err))
		}

		if cmd.Hook != nil {
			if err := cmd.Hook.AfterCreate(ctx, txm.Repos(), order, items); err != nil {
				return errorx.Storage(err)
			}
		}

		payment, err := txm.BindPayment(ctx, order)
		if err != nil {
			return err
		}
		result = &CreateOrderResult{Order: order, Payment: payment}
		return nil
	})

	if errors.Is(err, errLostCreateRace) {
		s.logger.Infof(ctx, "lost create race, loading winner")
		winner, err := s.orderModule.FindByClientOrderNo(ctx, cmd.ClientOrderNo)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, errorx.Storage(fmt.Errorf("order %s not loadable after duplicate key", cmd.ClientOrderNo))
		}
		return &CreateOrderResult{Order: winner.Order, Payment: winner.Payment, Idempotent: true}, nil
	}
	if err != nil {
		return nil, err
	}

	if result.Idempotent {
		s.logger.Infof(ctx, "idempotent hit, order_id=%s", result.Order.ID)
		return result, nil
	}

	s.logger.Infof(logger.WithOrderID(ctx, result.Order.ID), "order created, total=%s", result.Order.TotalPrice.StringFixed(2))
	s.afterCreate(ctx, result.Order)
	return result, nil
}

// CancelOrder 取消订单：仅 TO_PAY 且未支付可取消，成功后回补库存并将支付记录置为 FAILED
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*TransitionResult, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	var applied bool
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		snap, err := txm.GetSnapshot(ctx, orderID)
		if err != nil {
			return err
		}
		applied, err = s.cancelInTx(ctx, txm, snap)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, orderID, etorder.StatusToPay, etorder.StatusCanceled, applied)
}

// cancelInTx 仅在 TO_PAY 时校验支付状态；其余状态交给条件更新判定幂等或冲突
func (s *OrderService) cancelInTx(ctx context.Context, txm *mdorder.OrderModule, snap *mdorder.OrderSnapshot) (bool, error) {
	if snap.Order.Status == etorder.StatusToPay && snap.Payment.Paid() {
		return false, errorx.ErrOrderAlreadyPaid
	}

	applied, err := txm.Transition(ctx, snap.Order.ID, etorder.StatusToPay, etorder.StatusCanceled)
	if err != nil || !applied {
		return false, err
	}
	if err := txm.Restock(ctx, snap.Order.StockLines()); err != nil {
		return false, err
	}
	if err := txm.FailPayment(ctx, snap.Order.ID); err != nil {
		return false, err
	}
	return true, nil
}

// ConfirmReceipt 确认收货：TO_RECEIVE -> FINISHED
func (s *OrderService) ConfirmReceipt(ctx context.Context, orderID string) (*TransitionResult, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	var applied bool
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		var err error
		applied, err = txm.Transition(ctx, orderID, etorder.StatusToReceive, etorder.StatusFinished)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, orderID, etorder.StatusToReceive, etorder.StatusFinished, applied)
}

// MarkPaid 支付成功：TO_PAY -> TO_SEND，支付记录置为 PAID
func (s *OrderService) MarkPaid(ctx context.Context, orderID, platformTxno string, payload []byte) (*TransitionResult, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	var applied bool
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		snap, err := txm.GetSnapshot(ctx, orderID)
		if err != nil {
			return err
		}
		applied, err = txm.Transition(ctx, orderID, etorder.StatusToPay, etorder.StatusToSend)
		if err != nil || !applied {
			return err
		}
		payment, err := txm.BindPayment(ctx, snap.Order)
		if err != nil {
			return err
		}
		return txm.MarkPaymentPaid(ctx, payment, platformTxno, payload)
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, orderID, etorder.StatusToPay, etorder.StatusToSend, applied)
}

// UpdateStatus 通用状态更新。
// 迁移合法性由策略决定；进入回补集合时回补库存，离开回补集合时重新扣减，保证库存净回补恰好一次。
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status string) (*TransitionResult, error) {
	to := etorder.Status(status)
	if !to.Valid() {
		return nil, errorx.ErrStatusNotAllowed.WithDetail("status", status)
	}
	ctx = logger.WithOrderID(ctx, orderID)

	var (
		from    etorder.Status
		applied bool
	)
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		snap, err := txm.GetSnapshot(ctx, orderID)
		if err != nil {
			return err
		}
		order := snap.Order
		from = order.Status
		if from == to {
			return nil
		}
		if !s.policy.Allow(from, to) {
			return errorx.ErrOrderStateConflict.
				WithDetail("status", string(from)).
				WithDetail("policy", s.policy.Name())
		}

		applied, err = txm.Transition(ctx, orderID, from, to)
		if err != nil || !applied {
			return err
		}

		switch {
		case etorder.NeedsRestock(from, to):
			if err := txm.Restock(ctx, order.StockLines()); err != nil {
				return err
			}
		case from.InRestockSet() && !to.InRestockSet():
			if err := txm.Allocate(ctx, order.StockLines()); err != nil {
				return err
			}
		}
		if to == etorder.StatusCanceled {
			return txm.FailPayment(ctx, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, orderID, from, to, applied)
}

// ExpireOrder 取消已超时的待支付订单；未超时、已支付或已流转的订单不处理
func (s *OrderService) ExpireOrder(ctx context.Context, orderID string, now time.Time) (*TransitionResult, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	var applied bool
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		snap, err := txm.GetSnapshot(ctx, orderID)
		if err != nil {
			return err
		}
		if !snap.Order.Expired(now) || snap.Payment.Paid() {
			return nil
		}
		applied, err = s.cancelInTx(ctx, txm, snap)
		// 并发支付或发货导致的冲突视为无需处理
		if errorx.KindOf(err) == errorx.KindStateConflict {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, orderID, etorder.StatusToPay, etorder.StatusCanceled, applied)
}

// EnsurePayment 返回订单的支付记录，不存在时创建，缺失流水号时补写
func (s *OrderService) EnsurePayment(ctx context.Context, orderID string) (*etpayment.PaymentRecord, error) {
	var payment *etpayment.PaymentRecord
	err := s.orderModule.InTx(ctx, func(txm *mdorder.OrderModule) error {
		snap, err := txm.GetSnapshot(ctx, orderID)
		if err != nil {
			return err
		}
		payment, err = txm.BindPayment(ctx, snap.Order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetOrder 查询订单快照
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*mdorder.OrderSnapshot, error) {
	return s.orderModule.GetSnapshot(ctx, orderID)
}

// ListOrders 分页查询用户订单
func (s *OrderService) ListOrders(ctx context.Context, userID string, page, limit int) ([]*etorder.Order, etprimitive.Pagination, error) {
	if userID == "" {
		return nil, etprimitive.Pagination{}, errorx.Validation("user_id is required").WithDetail("user_id", "user_id is required")
	}
	p := etprimitive.Pagination{Page: page, Limit: limit}.Normalize()
	orders, total, err := s.orderModule.ListOrders(ctx, userID, p)
	if err != nil {
		return nil, p, err
	}
	p.Total = total
	return orders, p, nil
}

// finishTransition 提交后重新读取快照，仅在实际迁移时执行副作用
func (s *OrderService) finishTransition(ctx context.Context, orderID string, from, to etorder.Status, applied bool) (*TransitionResult, error) {
	snap, err := s.orderModule.GetSnapshot(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result := &TransitionResult{
		Order:   snap.Order,
		Payment: snap.Payment,
		From:    from,
		Applied: applied,
	}
	if !applied {
		s.logger.Debugf(ctx, "transition to %s already applied, status=%s", to, snap.Order.Status)
		return result, nil
	}

	s.logger.Infof(ctx, "order status %s -> %s", from, to)
	s.afterTransition(ctx, snap.Order, from, to)
	return result, nil
}

func (s *OrderService) afterCreate(ctx context.Context, order *etorder.Order) {
	if err := s.events.PublishOrderEvent(ctx, etorder.NewCreatedEvent(order, s.now())); err != nil {
		s.logger.Warnf(ctx, "publish order created event failed: %v", err)
	}
	if err := s.notifier.NotifyStatus(ctx, order.ID, order.Status); err != nil {
		s.logger.Warnf(ctx, "notify order status failed: %v", err)
	}
	if err := s.scheduler.ScheduleExpire(ctx, order.ID, s.expireAfter); err != nil {
		s.logger.Warnf(ctx, "schedule order expire failed: %v", err)
	}
}

func (s *OrderService) afterTransition(ctx context.Context, order *etorder.Order, from, to etorder.Status) {
	if err := s.events.PublishOrderEvent(ctx, etorder.NewStatusChangedEvent(order, from, to, s.now())); err != nil {
		s.logger.Warnf(ctx, "publish order status event failed: %v", err)
	}
	if err := s.notifier.NotifyStatus(ctx, order.ID, to); err != nil {
		s.logger.Warnf(ctx, "notify order status failed: %v", err)
	}
}

func validateCreate(cmd CreateOrderCommand) error {
	if cmd.ClientOrderNo == "" || len(cmd.ClientOrderNo) > maxClientOrderNoLen {
		return errorx.ErrInvalidClientOrderNo.WithDetail("client_order_no", "client_order_no is required and must be at most 64 characters")
	}
	if cmd.UserID == "" {
		return errorx.Validation("user_id is required").WithDetail("user_id", "user_id is required")
	}
	if cmd.Source == nil {
		return errorx.Validation("item source is required")
	}
	return nil
}
