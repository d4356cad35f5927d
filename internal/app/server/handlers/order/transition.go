package order

import (
	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/domains/apimodel/request"
	"mall/ordercore/internal/app/domains/apimodel/response"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/pkg/ginx"
)

// Cancel godoc
// @Summary      取消订单
// @Description  仅待支付且未支付的订单可取消，取消后回补库存。重复取消返回 applied=false
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单ID"
// @Success      200 {object} ginx.Response{data=response.TransitionResponse}
// @Failure      409 {object} ginx.Response "状态冲突(40900) / 已支付(40901)"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	result, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"))
	h.writeTransition(c, result, err)
}

// ConfirmReceipt godoc
// @Summary      确认收货
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单ID"
// @Success      200 {object} ginx.Response{data=response.TransitionResponse}
// @Failure      409 {object} ginx.Response "订单不在待收货状态"
// @Router       /orders/{id}/confirm-receipt [post]
func (h *OrderHandler) ConfirmReceipt(c *gin.Context) {
	result, err := h.orderService.ConfirmReceipt(c.Request.Context(), c.Param("id"))
	h.writeTransition(c, result, err)
}

// Pay godoc
// @Summary      支付成功
// @Description  TO_PAY -> TO_SEND，支付记录置为 PAID
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "订单ID"
// @Param        request body request.MarkPaidRequest true "支付结果"
// @Success      200 {object} ginx.Response{data=response.TransitionResponse}
// @Router       /orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	var req request.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	result, err := h.orderService.MarkPaid(c.Request.Context(), c.Param("id"), req.PlatformTxno, req.Payload)
	h.writeTransition(c, result, err)
}

// UpdateStatus godoc
// @Summary      通用状态更新
// @Description  进入取消/退货类状态时回补库存，离开时重新扣减
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "订单ID"
// @Param        request body request.UpdateStatusRequest true "目标状态"
// @Success      200 {object} ginx.Response{data=response.TransitionResponse}
// @Failure      400 {object} ginx.Response "状态不在允许列表"
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	result, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	h.writeTransition(c, result, err)
}

// EnsurePayment godoc
// @Summary      获取或创建支付记录
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单ID"
// @Success      200 {object} ginx.Response{data=response.PaymentResponse}
// @Router       /orders/{id}/payment [post]
func (h *OrderHandler) EnsurePayment(c *gin.Context) {
	payment, err := h.orderService.EnsurePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}
	ginx.Success(c, response.FromPaymentEntity(payment))
}

func (h *OrderHandler) writeTransition(c *gin.Context, result *svorder.TransitionResult, err error) {
	if err != nil {
		h.logger.Warnf(c.Request.Context(), "order transition failed: %v", err)
		ginx.FromError(c, err)
		return
	}
	ginx.Success(c, response.FromTransitionResult(result))
}
