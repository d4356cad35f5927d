package mdorder

import (
	"context"
	"fmt"
	"strings"

	"mall/ordercore/internal/app/pkg/errorx"
)

const maxDistributionRecordIDLen = 64

// ItemInput 下单明细输入
type ItemInput struct {
	SkuID                string
	Quantity             int64
	DistributionRecordID string
}

// ItemLine 按 SKU 合并后的明细
type ItemLine struct {
	SkuID                string
	Quantity             int64
	DistributionRecordID string
}

// ItemSet 明细解析结果
type ItemSet struct {
	Lines []ItemLine
	// 来源于购物车时为被消费的购物车行
	CartItemIDs []int64
}

// StockLines SKU -> 数量
func (s *ItemSet) StockLines() map[string]int64 {
	lines := make(map[string]int64, len(s.Lines))
	for _, l := range s.Lines {
		lines[l.SkuID] += l.Quantity
	}
	return lines
}

// SkuIDs 去重后的 SKU 列表
func (s *ItemSet) SkuIDs() []string {
	ids := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		ids = append(ids, l.SkuID)
	}
	return ids
}

// DistributionRecordIDs 明细引用的分销记录
func (s *ItemSet) DistributionRecordIDs() []string {
	ids := make([]string, 0)
	for _, l := range s.Lines {
		if l.DistributionRecordID != "" {
			ids = append(ids, l.DistributionRecordID)
		}
	}
	return ids
}

// ItemSource 明细来源策略
type ItemSource interface {
	Resolve(ctx context.Context, repos *Repos) (*ItemSet, error)
}

// MergeItems 校验并按 SKU 合并数量，保持首次出现的顺序
func MergeItems(inputs []ItemInput) (*ItemSet, error) {
	if len(inputs) == 0 {
		return nil, errorx.Validation("items is required").WithDetail("items", "at least one item is required")
	}

	set := &ItemSet{Lines: make([]ItemLine, 0, len(inputs))}
	index := make(map[string]int, len(inputs))
	for i, in := range inputs {
		skuID := strings.TrimSpace(in.SkuID)
		path := fmt.Sprintf("items[%d]", i)
		switch {
		case skuID == "":
			return nil, errorx.Validation("invalid item").WithDetail(path+".sku_id", "sku_id is required")
		case in.Quantity <= 0:
			return nil, errorx.Validation("invalid item").WithDetail(path+".quantity", "quantity must be a positive integer")
		case len(in.DistributionRecordID) > maxDistributionRecordIDLen:
			return nil, errorx.Validation("invalid item").WithDetail(path+".distribution_record_id",
				fmt.Sprintf("distribution_record_id must be at most %d characters", maxDistributionRecordIDLen))
		}

		pos, seen := index[skuID]
		if !seen {
			index[skuID] = len(set.Lines)
			set.Lines = append(set.Lines, ItemLine{
				SkuID:                skuID,
				Quantity:             in.Quantity,
				DistributionRecordID: in.DistributionRecordID,
			})
			continue
		}

		line := &set.Lines[pos]
		if in.DistributionRecordID != "" {
			if line.DistributionRecordID != "" && line.DistributionRecordID != in.DistributionRecordID {
				return nil, errorx.Validation("invalid item").WithDetail(path+".distribution_record_id",
					"conflicting distribution records for the same sku")
			}
			line.DistributionRecordID = in.DistributionRecordID
		}
		line.Quantity += in.Quantity
	}
	return set, nil
}

// ExplicitItemSource 调用方直接给出的明细
type ExplicitItemSource struct {
	Items []ItemInput
}

func (s ExplicitItemSource) Resolve(_ context.Context, _ *Repos) (*ItemSet, error) {
	return MergeItems(s.Items)
}

// CartItemSource 从购物车下单，锁定选中的购物车行直到事务结束
type CartItemSource struct {
	UserID      string
	CartItemIDs []int64
}

func (s CartItemSource) Resolve(ctx context.Context, repos *Repos) (*ItemSet, error) {
	if s.UserID == "" {
		return nil, errorx.Validation("user_id is required").WithDetail("user_id", "user_id is required")
	}

	rows, err := repos.Carts.LockSelected(ctx, s.UserID, s.CartItemIDs)
	if err != nil {
		return nil, errorx.Storage(fmt.Errorf("lock cart items failed: %w", err))
	}
	if len(rows) == 0 {
		return nil, errorx.ErrCartEmpty
	}

	found := make(map[int64]struct{}, len(rows))
	inputs := make([]ItemInput, 0, len(rows))
	cartIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		found[row.ID] = struct{}{}
		cartIDs = append(cartIDs, row.ID)
		inputs = append(inputs, ItemInput{
			SkuID:                row.SkuID,
			Quantity:             row.Quantity,
			DistributionRecordID: row.DistributionRecordID,
		})
	}
	for _, id := range s.CartItemIDs {
		if _, ok := found[id]; !ok {
			return nil, errorx.ErrCartEmpty.WithDetail("cart_item_ids", fmt.Sprintf("cart item %d not found", id))
		}
	}

	set, err := MergeItems(inputs)
	if err != nil {
		return nil, err
	}
	set.CartItemIDs = cartIDs
	return set, nil
}
