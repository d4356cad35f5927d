package schema

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"mall/ordercore/common/entity"
)

// Descriptor 表结构描述，启动时解析一次，之后只读
type Descriptor struct {
	Version                    int
	OrderItemDistributionPrice bool
	PaymentExpireTime          bool
}

// LatestVersion 全部可选列都存在时的版本号
const LatestVersion = 3

// Full 最新表结构
func Full() Descriptor {
	return Descriptor{
		Version:                    LatestVersion,
		OrderItemDistributionPrice: true,
		PaymentExpireTime:          true,
	}
}

// Resolve 探测可选列是否存在
func Resolve(ctx context.Context, db *gorm.DB) (Descriptor, error) {
	m := db.WithContext(ctx).Migrator()
	if !m.HasTable(&entity.OrderItem{}) || !m.HasTable(&entity.PaymentRecord{}) {
		return Descriptor{}, fmt.Errorf("order tables not found, run migrate first")
	}

	d := Descriptor{
		Version:                    1,
		OrderItemDistributionPrice: m.HasColumn(&entity.OrderItem{}, entity.ColumnOrderItemDistributionPrice),
		PaymentExpireTime:          m.HasColumn(&entity.PaymentRecord{}, entity.ColumnPaymentExpireTime),
	}
	if d.OrderItemDistributionPrice {
		d.Version++
	}
	if d.PaymentExpireTime {
		d.Version++
	}
	return d, nil
}

// OrderItemOmits 写入与读取 order_items 时需要忽略的列
func (d Descriptor) OrderItemOmits() []string {
	if d.OrderItemDistributionPrice {
		return nil
	}
	return []string{entity.ColumnOrderItemDistributionPrice}
}

// PaymentOmits 写入与读取 llpay 时需要忽略的列
func (d Descriptor) PaymentOmits() []string {
	if d.PaymentExpireTime {
		return nil
	}
	return []string{entity.ColumnPaymentExpireTime}
}

var (
	mu      sync.RWMutex
	current *Descriptor
)

// Init 安装进程级描述
func Init(d Descriptor) {
	mu.Lock()
	defer mu.Unlock()
	current = &d
}

// Current 读取进程级描述，未初始化时返回 false
func Current() (Descriptor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Descriptor{}, false
	}
	return *current, true
}

// Reset 清除进程级描述
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}

// Ensure 返回已安装的描述；未安装时解析并安装，进程内只探测一次
func Ensure(ctx context.Context, db *gorm.DB) (Descriptor, error) {
	if d, ok := Current(); ok {
		return d, nil
	}
	d, err := Resolve(ctx, db)
	if err != nil {
		return Descriptor{}, err
	}
	Init(d)
	return d, nil
}
