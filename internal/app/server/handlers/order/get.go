package order

import (
	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/domains/apimodel/request"
	"mall/ordercore/internal/app/domains/apimodel/response"
	"mall/ordercore/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      获取订单详情
// @Description  订单、明细（价格快照）及绑定的支付记录
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单ID"
// @Success      200 {object} ginx.Response{data=response.OrderResponse} "查询成功"
// @Failure      404 {object} ginx.Response "订单不存在"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	snap, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}
	ginx.Success(c, response.FromOrderEntity(snap.Order, snap.Payment))
}

// List godoc
// @Summary      用户订单列表
// @Tags         orders
// @Produce      json
// @Param        user_id query string true "用户ID"
// @Param        page query int false "页码，默认 1"
// @Param        limit query int false "每页条数，默认 20，最大 100"
// @Success      200 {object} ginx.Response{data=response.ListOrdersResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q request.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	orders, page, err := h.orderService.ListOrders(c.Request.Context(), q.UserID, q.Page, q.Limit)
	if err != nil {
		ginx.FromError(c, err)
		return
	}
	ginx.Success(c, response.FromOrderPage(orders, page))
}
