package lmstfy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mall/ordercore/common/model"
	"mall/ordercore/internal/app/pkg/logger"
)

const (
	expireJobTries = 3
	// 任务到期后仍保留一段时间，等待消费者处理
	expireJobGrace = 24 * time.Hour
)

// Publisher 任务发布
type Publisher interface {
	Publish(queue string, data []byte, ttl, delay time.Duration, tries uint16) (string, error)
}

// ExpireScheduler 投递待支付超时任务到延迟队列
type ExpireScheduler struct {
	publisher Publisher
	queue     string
	now       func() time.Time
	logger    logger.Logger
}

// NewExpireScheduler 创建超时任务投递器
func NewExpireScheduler(publisher Publisher, queue string, log logger.Logger) *ExpireScheduler {
	return &ExpireScheduler{
		publisher: publisher,
		queue:     queue,
		now:       time.Now,
		logger:    log,
	}
}

// ScheduleExpire 投递超时任务，delay 后可被消费
func (s *ExpireScheduler) ScheduleExpire(ctx context.Context, orderID string, delay time.Duration) error {
	job := model.OrderExpireJob{
		OrderID:  orderID,
		ExpireAt: s.now().Add(delay).UnixMilli(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal expire job failed: %w", err)
	}

	jobID, err := s.publisher.Publish(s.queue, data, delay+expireJobGrace, delay, expireJobTries)
	if err != nil {
		return err
	}
	s.logger.Debugf(ctx, "expire job published, job_id=%s, delay=%s", jobID, delay)
	return nil
}
