package mdorder

import (
	"context"
	"fmt"

	"mall/ordercore/internal/app/domains/entity/etcatalog"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/pkg/errorx"
)

// PricedItems 定价结果
type PricedItems struct {
	Items    []*etorder.OrderItem
	TotalFen int64
}

// PriceItems 加载 SKU 与分销记录后定价
func (m *OrderModule) PriceItems(ctx context.Context, set *ItemSet) (*PricedItems, error) {
	skus, err := m.repos.Skus.GetByIDs(ctx, set.SkuIDs())
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("load skus failed: %w", err))
	}
	dists, err := m.repos.Distributions.GetByIDs(ctx, set.DistributionRecordIDs())
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("load distribution records failed: %w", err))
	}
	return Price(set, skus, dists)
}

// Price 单价取分销价，否则取 SKU 售价；按分累计总价。
// 明细上快照 SKU 当时的售价与批发价。
func Price(set *ItemSet, skus map[string]*etcatalog.Sku, dists map[string]*etcatalog.DistributionRecord) (*PricedItems, error) {
	priced := &PricedItems{Items: make([]*etorder.OrderItem, 0, len(set.Lines))}
	for _, line := range set.Lines {
		sku, ok := skus[line.SkuID]
		if !ok {
			return nil, errorx.ErrSkuNotFound.WithDetail("sku_id", line.SkuID)
		}

		item := &etorder.OrderItem{
			SkuID:              line.SkuID,
			Quantity:           line.Quantity,
			Price:              sku.Price,
			WholesalePrice:     sku.WholesalePrice,
			AfterServiceStatus: etorder.AfterServiceNone,
		}
		unit := sku.Price

		if line.DistributionRecordID != "" {
			dist, ok := dists[line.DistributionRecordID]
			if !ok {
				return nil, errorx.ErrDistributionNotFound.WithDetail("distribution_record_id", line.DistributionRecordID)
			}
			if dist.SkuID != line.SkuID {
				return nil, errorx.ErrDistributionSkuMismatch.WithDetail("distribution_record_id", line.DistributionRecordID)
			}
			share := dist.SharePrice
			item.DistributionRecordID = dist.ID
			item.DistributionPrice = &share
			unit = share
		}

		priced.TotalFen += etprimitive.ToFen(unit) * line.Quantity
		priced.Items = append(priced.Items, item)
	}
	return priced, nil
}
