package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"mall/ordercore/internal/app/config"
)

// Job 队列任务
type Job struct {
	ID    string
	Queue string
	Data  []byte
}

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(cfg config.LmstfyConfig) *Client {
	return &Client{
		cli:       client.NewLmstfyClient(cfg.Host, cfg.Port, cfg.Namespace, cfg.Token),
		namespace: cfg.Namespace,
	}
}

// Publish 发布消息
// ttl: 消息存活时间，delay: 延迟投递时间，均按秒取整
func (c *Client) Publish(queue string, data []byte, ttl, delay time.Duration, tries uint16) (string, error) {
	jobID, err := c.cli.Publish(queue, data, seconds(ttl), tries, seconds(delay))
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return jobID, nil
}

// Consume 消费消息，超时未拉到消息返回 nil
func (c *Client) Consume(queue string, timeout, ttr time.Duration) (*Job, error) {
	job, err := c.cli.Consume(queue, seconds(ttr), seconds(timeout))
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}
	if job == nil {
		return nil, nil
	}
	return &Job{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
	}, nil
}

// Ack 确认消息
func (c *Client) Ack(queue, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}

// seconds 向上取整到秒，lmstfy 以秒为单位
func seconds(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32((d + time.Second - 1) / time.Second)
}
