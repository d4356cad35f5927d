package response

import (
	"strconv"

	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/entity/etpayment"
	"mall/ordercore/internal/app/domains/entity/etprimitive"
	"mall/ordercore/internal/app/domains/services/svorder"
)

// FromOrderEntity 从领域对象转换为响应 DTO
func FromOrderEntity(order *etorder.Order, payment *etpayment.PaymentRecord) *OrderResponse {
	resp := &OrderResponse{
		ID:              order.ID,
		ClientOrderNo:   order.ClientOrderNo,
		UserID:          order.UserID,
		DeliveryInfoID:  order.DeliveryInfoID,
		Status:          string(order.Status),
		TotalPrice:      order.TotalPrice.StringFixed(2),
		OrderExpireTime: order.OrderExpireTime,
		Items:           fromItemEntities(order.Items),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if payment != nil {
		resp.Payment = FromPaymentEntity(payment)
	}
	return resp
}

func fromItemEntities(items []*etorder.OrderItem) []*OrderItemResponse {
	resp := make([]*OrderItemResponse, 0, len(items))
	for _, item := range items {
		dto := &OrderItemResponse{
			ID:                   item.ID,
			SkuID:                item.SkuID,
			Quantity:             item.Quantity,
			Price:                item.Price.StringFixed(2),
			WholesalePrice:       item.WholesalePrice.StringFixed(2),
			DistributionRecordID: item.DistributionRecordID,
			AfterServiceStatus:   item.AfterServiceStatus,
		}
		if item.DistributionPrice != nil {
			price := item.DistributionPrice.StringFixed(2)
			dto.DistributionPrice = &price
		}
		resp = append(resp, dto)
	}
	return resp
}

// FromPaymentEntity 支付记录转换
func FromPaymentEntity(p *etpayment.PaymentRecord) *PaymentResponse {
	return &PaymentResponse{
		ID:           strconv.FormatInt(p.ID, 10),
		TxnSeqno:     p.TxnSeqno,
		PlatformTxno: p.PlatformTxno,
		Status:       string(p.Status),
		AmountFen:    p.AmountFen,
		ExpireTime:   p.ExpireTime,
	}
}

// FromCreateResult 下单结果转换
func FromCreateResult(r *svorder.CreateOrderResult) *CreateOrderResponse {
	return &CreateOrderResponse{
		Order:      FromOrderEntity(r.Order, r.Payment),
		Idempotent: r.Idempotent,
	}
}

// FromTransitionResult 状态迁移结果转换
func FromTransitionResult(r *svorder.TransitionResult) *TransitionResponse {
	return &TransitionResponse{
		Order:   FromOrderEntity(r.Order, r.Payment),
		From:    string(r.From),
		Applied: r.Applied,
	}
}

// FromOrderPage 分页结果转换，列表不携带支付记录
func FromOrderPage(orders []*etorder.Order, page etprimitive.Pagination) *ListOrdersResponse {
	resp := &ListOrdersResponse{
		Orders: make([]*OrderResponse, 0, len(orders)),
		Page:   page.Page,
		Limit:  page.Limit,
		Total:  page.Total,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, FromOrderEntity(o, nil))
	}
	return resp
}
