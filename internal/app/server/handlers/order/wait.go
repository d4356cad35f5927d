package order

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"mall/ordercore/internal/app/domains/apimodel/request"
	"mall/ordercore/internal/app/domains/apimodel/response"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/pkg/ginx"
)

const defaultWaitTimeout = 10 * time.Second

// WaitStatus godoc
// @Summary      等待订单状态变更
// @Description  Smart Wait：状态仍为 since 时最多等待 timeout 秒，期间状态变更立即返回
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单ID"
// @Param        since query string true "调用方已知的状态"
// @Param        timeout query int false "等待秒数，默认 10，最大 30"
// @Success      200 {object} ginx.Response{data=response.WaitStatusResponse}
// @Router       /orders/{id}/status/wait [get]
func (h *OrderHandler) WaitStatus(c *gin.Context) {
	var q request.WaitStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}
	timeout := defaultWaitTimeout
	if q.Timeout > 0 {
		timeout = time.Duration(q.Timeout) * time.Second
	}

	orderID := c.Param("id")
	since := etorder.Status(q.Since)
	current := func(ctx context.Context) (etorder.Status, error) {
		snap, err := h.orderService.GetOrder(ctx, orderID)
		if err != nil {
			return "", err
		}
		return snap.Order.Status, nil
	}

	ctx := c.Request.Context()
	var (
		status  etorder.Status
		changed bool
		err     error
	)
	if h.waiter == nil {
		status, err = current(ctx)
		changed = err == nil && status != since
	} else {
		status, changed, err = h.waiter.WaitStatusChange(ctx, orderID, since, current, timeout)
	}
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, &response.WaitStatusResponse{
		OrderID: orderID,
		Status:  string(status),
		Changed: changed,
	})
}
