package svorder

import (
	"context"
	"time"

	"mall/ordercore/internal/app/domains/entity/etorder"
)

// EventPublisher 订单事件发布（Kafka）
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *etorder.Event) error
}

// StatusNotifier 订单状态通知（Redis PubSub）
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, orderID string, status etorder.Status) error
}

// ExpireScheduler 待支付超时任务（lmstfy 延迟队列）
type ExpireScheduler interface {
	ScheduleExpire(ctx context.Context, orderID string, delay time.Duration) error
}

type nopSideEffects struct{}

func (nopSideEffects) PublishOrderEvent(context.Context, *etorder.Event) error { return nil }

func (nopSideEffects) NotifyStatus(context.Context, string, etorder.Status) error { return nil }

func (nopSideEffects) ScheduleExpire(context.Context, string, time.Duration) error { return nil }
