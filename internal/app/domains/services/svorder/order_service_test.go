package svorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/modules/mdorder"
	"mall/ordercore/internal/app/domains/repo/rpcart"
	"mall/ordercore/internal/app/domains/repo/rpdistribution"
	"mall/ordercore/internal/app/domains/repo/rporder"
	"mall/ordercore/internal/app/domains/repo/rppayment"
	"mall/ordercore/internal/app/domains/repo/rpsku"
	"mall/ordercore/internal/app/infra/schema"
	"mall/ordercore/internal/app/pkg/errorx"
	"mall/ordercore/internal/app/pkg/logger"
	"mall/ordercore/internal/app/pkg/testdb"
)

var bg = context.Background()

type recorder struct {
	mu        sync.Mutex
	events    []*etorder.Event
	statuses  []etorder.Status
	scheduled []string
}

func (r *recorder) PublishOrderEvent(_ context.Context, e *etorder.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) NotifyStatus(_ context.Context, _ string, s etorder.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
	return nil
}

func (r *recorder) ScheduleExpire(_ context.Context, orderID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, orderID)
	return errors.New("queue down")
}

type fixture struct {
	db  *gorm.DB
	svc *OrderService
	rec *recorder
}

func newRepos(db *gorm.DB) *mdorder.Repos {
	desc := schema.Full()
	return &mdorder.Repos{
		Orders:        rporder.NewOrderRepository(db, desc),
		Skus:          rpsku.NewSkuRepository(db),
		Carts:         rpcart.NewCartRepository(db),
		Distributions: rpdistribution.NewDistributionRepository(db),
		Payments:      rppayment.NewPaymentRepository(db, desc),
	}
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testdb.Open(t)
	return newFixtureWithRepos(t, db, newRepos(db), opts...)
}

func newFixtureWithRepos(t *testing.T, db *gorm.DB, repos *mdorder.Repos, opts ...Option) *fixture {
	t.Helper()
	rec := &recorder{}
	all := append([]Option{
		WithEventPublisher(rec),
		WithStatusNotifier(rec),
		WithExpireScheduler(rec),
	}, opts...)
	svc := NewOrderService(mdorder.NewOrderModule(db, repos, nil), logger.NewNopLogger(), all...)
	return &fixture{db: db, svc: svc, rec: rec}
}

func (f *fixture) seedSku(t *testing.T, id string, stock int64, price string) {
	t.Helper()
	require.NoError(t, f.db.Create(&entity.Sku{
		ID:             id,
		Stock:          stock,
		Price:          decimal.RequireFromString(price),
		WholesalePrice: decimal.RequireFromString(price),
	}).Error)
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	var sku entity.Sku
	require.NoError(t, f.db.First(&sku, "id = ?", id).Error)
	return sku.Stock
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&entity.Order{}).Count(&n).Error)
	return n
}

func explicit(clientOrderNo string, items ...mdorder.ItemInput) CreateOrderCommand {
	return CreateOrderCommand{
		ClientOrderNo: clientOrderNo,
		UserID:        "u1",
		Source:        mdorder.ExplicitItemSource{Items: items},
	}
}

func item(sku string, qty int64) mdorder.ItemInput {
	return mdorder.ItemInput{SkuID: sku, Quantity: qty}
}

func TestCreateThenCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")

	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	assert.False(t, created.Idempotent)
	assert.Equal(t, etorder.StatusToPay, created.Order.Status)
	assert.Equal(t, "6.00", created.Order.TotalPrice.StringFixed(2))
	assert.EqualValues(t, 3, f.stock(t, "A"))
	require.NotNil(t, created.Payment)
	assert.EqualValues(t, 600, created.Payment.AmountFen)
	assert.Equal(t, etpayment.StatusInit, created.Payment.Status)
	assert.Equal(t, etpayment.TxnSeqnoFor(created.Order.ID), created.Payment.TxnSeqno)

	canceled, err := f.svc.CancelOrder(bg, created.Order.ID)
	require.NoError(t, err)
	assert.True(t, canceled.Applied)
	assert.Equal(t, etorder.StatusCanceled, canceled.Order.Status)
	assert.Equal(t, etpayment.StatusFailed, canceled.Payment.Status)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	again, err := f.svc.CancelOrder(bg, created.Order.ID)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	require.Len(t, f.rec.events, 2)
	assert.Equal(t, etorder.EventOrderCreated, f.rec.events[0].Type)
	assert.Equal(t, etorder.EventOrderStatusChanged, f.rec.events[1].Type)
	assert.Equal(t, []string{created.Order.ID}, f.rec.scheduled, "scheduler failure is not surfaced")
}

func TestCreateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")

	first, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)

	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	require.Len(t, second.Order.Items, 1)
	assert.EqualValues(t, 3, f.stock(t, "A"))
	assert.EqualValues(t, 1, f.countOrders(t))
	assert.Len(t, f.rec.events, 1)
}

// staleOrders 模拟幂等检查与插入之间被并发请求抢先
type staleOrders struct {
	rporder.OrderRepository
	misses *int32
}

func (r staleOrders) WithTx(tx *gorm.DB) rporder.OrderRepository {
	return staleOrders{OrderRepository: r.OrderRepository.WithTx(tx), misses: r.misses}
}

func (r staleOrders) GetByClientOrderNo(ctx context.Context, no string) (*etorder.Order, error) {
	if atomic.AddInt32(r.misses, -1) >= 0 {
		return nil, nil
	}
	return r.OrderRepository.GetByClientOrderNo(ctx, no)
}

func TestCreateLosingRaceReturnsWinner(t *testing.T) {
	db := testdb.Open(t)
	misses := int32(0)
	repos := newRepos(db)
	repos.Orders = staleOrders{OrderRepository: repos.Orders, misses: &misses}
	f := newFixtureWithRepos(t, db, repos)
	f.seedSku(t, "A", 5, "3.00")

	winner, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)

	atomic.StoreInt32(&misses, 1)
	loser, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)

	assert.True(t, loser.Idempotent)
	assert.Equal(t, winner.Order.ID, loser.Order.ID)
	assert.EqualValues(t, 3, f.stock(t, "A"), "loser's decrement rolled back")
	assert.EqualValues(t, 1, f.countOrders(t))
}

func TestCreateInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	f.seedSku(t, "B", 1, "1.00")

	_, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2), item("B", 2)))
	require.Error(t, err)
	assert.Equal(t, errorx.KindInsufficientStock, errorx.KindOf(err))

	assert.EqualValues(t, 5, f.stock(t, "A"))
	assert.EqualValues(t, 1, f.stock(t, "B"))
	assert.EqualValues(t, 0, f.countOrders(t))
	assert.Empty(t, f.rec.events)
}

func TestNoOversellUnderConcurrentCreates(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 10, "1.00")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		succeeded int32
		rejected  int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateOrder(bg, explicit(fmt.Sprintf("c-%d", i), item("A", 3)))
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errorx.KindOf(err) == errorx.KindInsufficientStock:
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 3, succeeded)
	assert.EqualValues(t, attempts-3, rejected)
	assert.EqualValues(t, 1, f.stock(t, "A"))
	assert.EqualValues(t, 3, f.countOrders(t))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")

	long := fmt.Sprintf("%065d", 1)
	cases := []CreateOrderCommand{
		explicit("", item("A", 1)),
		explicit(long, item("A", 1)),
		explicit("c-1", item("A", 0)),
		explicit("c-1"),
		{ClientOrderNo: "c-1", Source: mdorder.ExplicitItemSource{Items: []mdorder.ItemInput{item("A", 1)}}},
	}
	for i, cmd := range cases {
		_, err := f.svc.CreateOrder(bg, cmd)
		assert.Equal(t, errorx.KindValidation, errorx.KindOf(err), "case %d", i)
	}

	_, err := f.svc.CreateOrder(bg, explicit("c-2", item("missing", 1)))
	assert.Equal(t, errorx.KindNotFound, errorx.KindOf(err))
	assert.EqualValues(t, 5, f.stock(t, "A"))
}

func TestPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "10.00")

	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 1)))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&entity.Sku{}).Where("id = ?", "A").
		Update("price", decimal.RequireFromString("20.00")).Error)

	snap, err := f.svc.GetOrder(bg, created.Order.ID)
	require.NoError(t, err)
	require.Len(t, snap.Order.Items, 1)
	assert.Equal(t, "10.00", snap.Order.Items[0].Price.StringFixed(2))
	assert.Equal(t, "10.00", snap.Order.TotalPrice.StringFixed(2))
}

func TestCreateWithDistributionPrice(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "10.00")
	require.NoError(t, f.db.Create(&entity.DistributionRecord{
		ID: "d1", SkuID: "A", UserID: "sharer-9", SharePrice: decimal.RequireFromString("8.50"),
	}).Error)

	// 买家 u1 通过分销员 sharer-9 的分享下单
	created, err := f.svc.CreateOrder(bg, explicit("c-1", mdorder.ItemInput{SkuID: "A", Quantity: 2, DistributionRecordID: "d1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", created.Order.UserID)
	assert.Equal(t, "17.00", created.Order.TotalPrice.StringFixed(2))
	assert.EqualValues(t, 1700, created.Payment.AmountFen)

	snap, err := f.svc.GetOrder(bg, created.Order.ID)
	require.NoError(t, err)
	it := snap.Order.Items[0]
	assert.Equal(t, "d1", it.DistributionRecordID)
	require.NotNil(t, it.DistributionPrice)
	assert.Equal(t, "8.50", it.DistributionPrice.StringFixed(2))
}

func TestConfirmReceiptRequiresToReceive(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 1)))
	require.NoError(t, err)
	id := created.Order.ID

	_, err = f.svc.ConfirmReceipt(bg, id)
	assert.Equal(t, errorx.KindStateConflict, errorx.KindOf(err))

	_, err = f.svc.MarkPaid(bg, id, "pt-1", nil)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusToReceive))
	require.NoError(t, err)

	res, err := f.svc.ConfirmReceipt(bg, id)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, etorder.StatusFinished, res.Order.Status)

	res, err = f.svc.ConfirmReceipt(bg, id)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = f.svc.ConfirmReceipt(bg, "missing")
	assert.Equal(t, errorx.KindNotFound, errorx.KindOf(err))
}

func TestCancelAfterPaymentIsStateConflict(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(bg, created.Order.ID, "pt-1", []byte(`{"result":"SUCCESS"}`))
	require.NoError(t, err)
	assert.True(t, paid.Applied)
	assert.Equal(t, etorder.StatusToSend, paid.Order.Status)
	assert.Equal(t, etpayment.StatusPaid, paid.Payment.Status)
	assert.Equal(t, "pt-1", paid.Payment.PlatformTxno)
	assert.JSONEq(t, `{"result":"SUCCESS"}`, string(paid.Payment.NotifyPayload))

	again, err := f.svc.MarkPaid(bg, created.Order.ID, "pt-1", nil)
	require.NoError(t, err)
	assert.False(t, again.Applied)

	_, err = f.svc.CancelOrder(bg, created.Order.ID)
	assert.Equal(t, errorx.KindStateConflict, errorx.KindOf(err), "paid order has already left TO_PAY")
	assert.EqualValues(t, 3, f.stock(t, "A"))
}

func TestCancelToPayOrderWithPaidRecord(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)

	// 支付记录已到账但订单状态尚未推进
	require.NoError(t, f.db.Model(&entity.PaymentRecord{}).
		Where("order_id = ?", created.Order.ID).
		Update("status", string(etpayment.StatusPaid)).Error)

	_, err = f.svc.CancelOrder(bg, created.Order.ID)
	assert.Equal(t, errorx.KindPaymentConflict, errorx.KindOf(err))
	assert.EqualValues(t, 3, f.stock(t, "A"))

	got, err := f.svc.GetOrder(bg, created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, etorder.StatusToPay, got.Order.Status)
}

func TestCancelRetryAfterGenericCancelOfPaidOrder(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	id := created.Order.ID
	_, err = f.svc.MarkPaid(bg, id, "pt-1", nil)
	require.NoError(t, err)

	res, err := f.svc.UpdateStatus(bg, id, string(etorder.StatusCanceled))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.EqualValues(t, 5, f.stock(t, "A"))
	require.NotNil(t, res.Payment)
	assert.Equal(t, etpayment.StatusPaid, res.Payment.Status, "paid record is kept for refund")

	again, err := f.svc.CancelOrder(bg, id)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, etorder.StatusCanceled, again.Order.Status)
	assert.EqualValues(t, 5, f.stock(t, "A"))
}

func TestCancelRequiresToPay(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(bg, created.Order.ID, string(etorder.StatusToSend))
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(bg, created.Order.ID)
	assert.Equal(t, errorx.KindStateConflict, errorx.KindOf(err))
	assert.EqualValues(t, 3, f.stock(t, "A"))
}

func TestUpdateStatusRestocksExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	id := created.Order.ID

	res, err := f.svc.UpdateStatus(bg, id, string(etorder.StatusReturnApplied))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, etorder.StatusToPay, res.From)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	res, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusReturnApplied))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	_, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusReturnFinish))
	require.NoError(t, err)
	assert.EqualValues(t, 5, f.stock(t, "A"), "moving between restock statuses does not restock")
}

func TestUpdateStatusLeavingRestockSetReservesAgain(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	id := created.Order.ID

	_, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusCanceled))
	require.NoError(t, err)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	_, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusToSend))
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.stock(t, "A"))

	_, err = f.svc.UpdateStatus(bg, id, string(etorder.StatusCanceled))
	require.NoError(t, err)
	assert.EqualValues(t, 5, f.stock(t, "A"))
}

func TestUpdateStatusStrictPolicy(t *testing.T) {
	f := newFixture(t, WithPolicy(etorder.StrictPolicy{}))
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 1)))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(bg, created.Order.ID, string(etorder.StatusFinished))
	assert.Equal(t, errorx.KindStateConflict, errorx.KindOf(err))

	_, err = f.svc.UpdateStatus(bg, created.Order.ID, string(etorder.StatusToSend))
	assert.NoError(t, err)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateStatus(bg, "any", "SHIPPED_TO_MARS")
	assert.Equal(t, errorx.KindValidation, errorx.KindOf(err))
}

func TestCreateFromCart(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 10, "2.00")
	f.seedSku(t, "B", 10, "5.00")
	rows := []*entity.CartItem{
		{UserID: "u1", SkuID: "A", Quantity: 1, Selected: true},
		{UserID: "u1", SkuID: "A", Quantity: 2, Selected: true},
		{UserID: "u1", SkuID: "B", Quantity: 1, Selected: true},
	}
	require.NoError(t, f.db.Create(&rows).Error)

	cmd := CreateOrderCommand{
		ClientOrderNo: "cart-1",
		UserID:        "u1",
		Source:        mdorder.CartItemSource{UserID: "u1"},
		Hook:          mdorder.CartCleanupHook{},
	}
	created, err := f.svc.CreateOrder(bg, cmd)
	require.NoError(t, err)
	assert.Equal(t, "11.00", created.Order.TotalPrice.StringFixed(2))
	assert.EqualValues(t, 7, f.stock(t, "A"))
	assert.EqualValues(t, 9, f.stock(t, "B"))

	var left int64
	require.NoError(t, f.db.Model(&entity.CartItem{}).Count(&left).Error)
	assert.EqualValues(t, 0, left)

	// 幂等命中不再解析购物车，也不执行清理钩子
	require.NoError(t, f.db.Create(&entity.CartItem{UserID: "u1", SkuID: "A", Quantity: 1, Selected: true}).Error)
	again, err := f.svc.CreateOrder(bg, cmd)
	require.NoError(t, err)
	assert.True(t, again.Idempotent)
	require.NoError(t, f.db.Model(&entity.CartItem{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
	assert.EqualValues(t, 7, f.stock(t, "A"))
}

func TestCreateFromEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrder(bg, CreateOrderCommand{
		ClientOrderNo: "cart-1",
		UserID:        "u1",
		Source:        mdorder.CartItemSource{UserID: "u1"},
		Hook:          mdorder.CartCleanupHook{},
	})
	assert.True(t, errors.Is(err, errorx.ErrCartEmpty))
}

func TestExpireOrder(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return now }), WithExpireAfter(15*time.Minute))
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute).UnixMilli(), created.Order.OrderExpireTime)

	res, err := f.svc.ExpireOrder(bg, created.Order.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.EqualValues(t, 3, f.stock(t, "A"))

	res, err = f.svc.ExpireOrder(bg, created.Order.ID, now.Add(16*time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, etorder.StatusCanceled, res.Order.Status)
	assert.EqualValues(t, 5, f.stock(t, "A"))

	res, err = f.svc.ExpireOrder(bg, created.Order.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.EqualValues(t, 5, f.stock(t, "A"))
}

func TestExpireOrderSkipsPaidOrders(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return now }))
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 2)))
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(bg, created.Order.ID, "pt", nil)
	require.NoError(t, err)

	res, err := f.svc.ExpireOrder(bg, created.Order.ID, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, etorder.StatusToSend, res.Order.Status)
}

func TestEnsurePayment(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 5, "3.00")
	created, err := f.svc.CreateOrder(bg, explicit("c-1", item("A", 1)))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&entity.PaymentRecord{}).
		Where("order_id = ?", created.Order.ID).
		Update("txn_seqno", nil).Error)

	rec, err := f.svc.EnsurePayment(bg, created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Payment.ID, rec.ID)
	assert.Equal(t, etpayment.TxnSeqnoFor(created.Order.ID), rec.TxnSeqno)

	_, err = f.svc.EnsurePayment(bg, "missing")
	assert.Equal(t, errorx.KindNotFound, errorx.KindOf(err))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	f.seedSku(t, "A", 50, "1.00")
	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateOrder(bg, explicit(fmt.Sprintf("c-%d", i), item("A", 1)))
		require.NoError(t, err)
	}

	orders, page, err := f.svc.ListOrders(bg, "u1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 3, page.Total)
	for _, o := range orders {
		assert.Len(t, o.Items, 1)
	}

	orders, _, err = f.svc.ListOrders(bg, "nobody", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, _, err = f.svc.ListOrders(bg, "", 1, 10)
	assert.Equal(t, errorx.KindValidation, errorx.KindOf(err))
}
