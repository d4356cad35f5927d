package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/domains/entity/etorder"
)

// StatusMessage 订单状态通知消息
type StatusMessage struct {
	OrderID string         `json:"order_id"`
	Status  etorder.Status `json:"status"`
}

// StatusChannel 订单独立频道
func StatusChannel(orderID string) string {
	return fmt.Sprintf("order:status:%s", orderID)
}

// PubSubClient Redis Pub/Sub 客户端封装
type PubSubClient struct {
	rdb *redis.Client
}

// NewPubSubClient 创建 Pub/Sub 客户端，支持密码认证
func NewPubSubClient(ctx context.Context, cfg config.RedisConfig) (*PubSubClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &PubSubClient{rdb: rdb}, nil
}

// NotifyStatus 向订单频道发布状态变更
func (c *PubSubClient) NotifyStatus(ctx context.Context, orderID string, status etorder.Status) error {
	payload, err := json.Marshal(StatusMessage{OrderID: orderID, Status: status})
	if err != nil {
		return fmt.Errorf("marshal status message failed: %w", err)
	}
	return c.rdb.Publish(ctx, StatusChannel(orderID), payload).Err()
}

// WaitStatusChange 等待订单状态离开 since，超时返回 since 且 changed 为 false
// 先订阅再读取当前状态，订阅之前发生的变更由 current 兜底
func (c *PubSubClient) WaitStatusChange(
	ctx context.Context,
	orderID string,
	since etorder.Status,
	current func(context.Context) (etorder.Status, error),
	timeout time.Duration,
) (status etorder.Status, changed bool, err error) {
	sub := c.rdb.Subscribe(ctx, StatusChannel(orderID))
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return since, false, fmt.Errorf("subscribe status channel failed: %w", err)
	}

	status, err = current(ctx)
	if err != nil {
		return since, false, err
	}
	if status != since {
		return status, true, nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return since, false, fmt.Errorf("status channel closed")
			}
			parsed, err := ParseStatusMessage(msg.Payload)
			if err != nil {
				return since, false, err
			}
			if parsed.Status != since {
				return parsed.Status, true, nil
			}
		case <-timeoutCtx.Done():
			if ctx.Err() != nil {
				return since, false, ctx.Err()
			}
			return since, false, nil
		}
	}
}

// ParseStatusMessage 解析状态通知
func ParseStatusMessage(payload string) (*StatusMessage, error) {
	var msg StatusMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal status message failed: %w", err)
	}
	return &msg, nil
}

// Close 关闭连接
func (c *PubSubClient) Close() error {
	return c.rdb.Close()
}
