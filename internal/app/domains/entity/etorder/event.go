package etorder

import "time"

// EventType 订单事件类型
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// Event 订单事件，事务提交后对外发布
type Event struct {
	Type          EventType `json:"type"`
	OrderID       string    `json:"order_id"`
	ClientOrderNo string    `json:"client_order_no"`
	UserID        string    `json:"user_id"`
	From          Status    `json:"from,omitempty"`
	To            Status    `json:"to"`
	TotalPrice    string    `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewCreatedEvent 下单事件
func NewCreatedEvent(o *Order, at time.Time) *Event {
	return &Event{
		Type:          EventOrderCreated,
		OrderID:       o.ID,
		ClientOrderNo: o.ClientOrderNo,
		UserID:        o.UserID,
		To:            o.Status,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		OccurredAt:    at,
	}
}

// NewStatusChangedEvent 状态变更事件
func NewStatusChangedEvent(o *Order, from, to Status, at time.Time) *Event {
	return &Event{
		Type:          EventOrderStatusChanged,
		OrderID:       o.ID,
		ClientOrderNo: o.ClientOrderNo,
		UserID:        o.UserID,
		From:          from,
		To:            to,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		OccurredAt:    at,
	}
}
