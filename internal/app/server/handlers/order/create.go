package order

import (
	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/domains/apimodel/request"
	"mall/ordercore/internal/app/domains/apimodel/response"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      创建订单
// @Description  按显式明细下单。client_order_no 为幂等号，重复提交返回已存在的订单且 idempotent=true
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body request.CreateOrderRequest true "下单请求"
// @Success      200 {object} ginx.Response{data=response.CreateOrderResponse} "下单成功或幂等命中"
// @Failure      400 {object} ginx.Response "参数错误(40001) / 库存不足(40002)"
// @Failure      404 {object} ginx.Response "商品或分销记录不存在"
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	h.create(c, req.ToCommand())
}

// CreateFromCart godoc
// @Summary      购物车下单
// @Description  锁定用户已选中的购物车条目下单，成功后删除这些条目
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body request.CreateOrderFromCartRequest true "下单请求"
// @Success      200 {object} ginx.Response{data=response.CreateOrderResponse}
// @Failure      400 {object} ginx.Response
// @Failure      404 {object} ginx.Response "购物车为空"
// @Router       /orders/from-cart [post]
func (h *OrderHandler) CreateFromCart(c *gin.Context) {
	var req request.CreateOrderFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	h.create(c, req.ToCommand())
}

func (h *OrderHandler) create(c *gin.Context, cmd svorder.CreateOrderCommand) {
	result, err := h.orderService.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnf(c.Request.Context(), "create order failed: %v", err)
		ginx.FromError(c, err)
		return
	}
	ginx.Success(c, response.FromCreateResult(result))
}
