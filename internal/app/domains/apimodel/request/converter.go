package request

import (
	"mall/ordercore/internal/app/domains/modules/mdorder"
	"mall/ordercore/internal/app/domains/services/svorder"
)

// ToCommand 将 Request DTO 转换为下单命令
func (r *CreateOrderRequest) ToCommand() svorder.CreateOrderCommand {
	return svorder.CreateOrderCommand{
		ClientOrderNo:  r.ClientOrderNo,
		UserID:         r.UserID,
		DeliveryInfoID: r.DeliveryInfoID,
		Source:         mdorder.ExplicitItemSource{Items: toItemInputs(r.Items)},
	}
}

// ToCommand 购物车下单，成功后删除被消费的购物车条目
func (r *CreateOrderFromCartRequest) ToCommand() svorder.CreateOrderCommand {
	return svorder.CreateOrderCommand{
		ClientOrderNo:  r.ClientOrderNo,
		UserID:         r.UserID,
		DeliveryInfoID: r.DeliveryInfoID,
		Source: mdorder.CartItemSource{
			UserID:      r.UserID,
			CartItemIDs: r.CartItemIDs,
		},
		Hook: mdorder.CartCleanupHook{},
	}
}

func toItemInputs(dtos []*OrderItem) []mdorder.ItemInput {
	items := make([]mdorder.ItemInput, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, mdorder.ItemInput{
			SkuID:                dto.SkuID,
			Quantity:             dto.Quantity,
			DistributionRecordID: dto.DistributionRecordID,
		})
	}
	return items
}
