package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/pkg/logger"
)

// Producer 订单事件异步生产者
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	logger   logger.Logger
	wg       sync.WaitGroup
}

// NewConfig 生产者配置
func NewConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	if clientID != "" {
		cfg.ClientID = clientID
	}
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 500 * time.Millisecond
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Errors = true
	// 同一订单的事件落在同一分区，保证顺序
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg config.KafkaConfig, topic string, log logger.Logger) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, NewConfig(cfg.ClientID))
	if err != nil {
		return nil, fmt.Errorf("start kafka producer failed: %w", err)
	}
	return newProducer(producer, topic, log), nil
}

func newProducer(producer sarama.AsyncProducer, topic string, log logger.Logger) *Producer {
	p := &Producer{
		producer: producer,
		topic:    topic,
		logger:   log,
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for err := range producer.Errors() {
			var orderID []byte
			if err.Msg != nil && err.Msg.Key != nil {
				orderID, _ = err.Msg.Key.Encode()
			}
			p.logger.Errorf(context.Background(), "send order event failed, order_id=%s: %v", orderID, err.Err)
		}
	}()

	return p
}

// PublishOrderEvent 发布订单事件，以订单 ID 作为消息 key
func (p *Producer) PublishOrderEvent(ctx context.Context, event *etorder.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event failed: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 刷新缓冲并关闭
func (p *Producer) Close() error {
	err := p.producer.Close()
	p.wg.Wait()
	return err
}
