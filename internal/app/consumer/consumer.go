package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"mall/ordercore/internal/app/infra/mq/lmstfy"
	"mall/ordercore/internal/app/pkg/logger"
)

// ErrMalformed 消息无法解析，确认后丢弃（避免死循环）
var ErrMalformed = errors.New("malformed message")

// JobSource 队列消息来源
type JobSource interface {
	Consume(queue string, timeout, ttr time.Duration) (*lmstfy.Job, error)
	Ack(queue, jobID string) error
}

// Handler 消息处理。返回 nil 或 ErrMalformed 时确认消息，其余错误不确认，由 TTR 到期重投
type Handler interface {
	Name() string
	Handle(ctx context.Context, job *lmstfy.Job) error
}

// Config 消费者配置
type Config struct {
	QueueName    string        // 队列名称
	Timeout      time.Duration // 拉取消息超时
	TTR          time.Duration // Time-To-Run
	PollInterval time.Duration // 出错后的等待间隔
}

// DefaultConfig 默认消费配置
func DefaultConfig(queue string) *Config {
	return &Config{
		QueueName:    queue,
		Timeout:      3 * time.Second,
		TTR:          30 * time.Second,
		PollInterval: time.Second,
	}
}

// QueueConsumer 队列消费者
// 职责：
// 1. 从 lmstfy 队列拉取消息
// 2. 调用 Handler 处理
// 3. 按处理结果确认消息（ACK）
type QueueConsumer struct {
	source  JobSource
	handler Handler
	cfg     *Config
	logger  logger.Logger
	closing atomic.Bool
}

// NewQueueConsumer 创建队列消费者
func NewQueueConsumer(source JobSource, handler Handler, cfg *Config, logger logger.Logger) *QueueConsumer {
	return &QueueConsumer{
		source:  source,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start 启动消费循环，ctx 取消或 Stop 后返回
func (c *QueueConsumer) Start(ctx context.Context) error {
	c.logger.Infof(ctx, "[%s] consumer started, queue=%s, timeout=%s, ttr=%s",
		c.handler.Name(), c.cfg.QueueName, c.cfg.Timeout, c.cfg.TTR)

	for !c.closing.Load() {
		select {
		case <-ctx.Done():
			c.logger.Infof(ctx, "[%s] consumer stopped", c.handler.Name())
			return ctx.Err()
		default:
		}

		if _, err := c.ConsumeOne(ctx); err != nil {
			c.logger.Errorf(ctx, "[%s] consume failed: %v", c.handler.Name(), err)
			select {
			case <-ctx.Done():
			case <-time.After(c.cfg.PollInterval):
			}
		}
	}

	c.logger.Infof(ctx, "[%s] consumer closed", c.handler.Name())
	return nil
}

// Stop 处理完当前消息后退出
func (c *QueueConsumer) Stop() {
	c.closing.Store(true)
}

// ConsumeOne 消费一条消息，没有消息时 handled 为 false
func (c *QueueConsumer) ConsumeOne(ctx context.Context) (handled bool, err error) {
	job, err := c.source.Consume(c.cfg.QueueName, c.cfg.Timeout, c.cfg.TTR)
	if err != nil {
		return false, fmt.Errorf("consume message failed: %w", err)
	}
	if job == nil {
		return false, nil
	}

	c.logger.Debugf(ctx, "[%s] received job_id=%s", c.handler.Name(), job.ID)

	if err := c.handler.Handle(ctx, job); err != nil {
		if !errors.Is(err, ErrMalformed) {
			// 不确认，TTR 到期后重新投递
			return true, fmt.Errorf("handle job %s failed: %w", job.ID, err)
		}
		c.logger.Errorf(ctx, "[%s] drop job_id=%s: %v", c.handler.Name(), job.ID, err)
	}

	if err := c.source.Ack(c.cfg.QueueName, job.ID); err != nil {
		return true, fmt.Errorf("ack job %s failed: %w", job.ID, err)
	}
	return true, nil
}
