package idgen

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator 订单与支付记录的 ID 生成接口，测试中可替换为固定序列
type Generator interface {
	OrderID() string
	PaymentID() int64
}

// SnowflakeIDGenerator 雪花ID生成器
// ID格式: 毫秒时间戳偏移(41位) + 节点ID(10位) + 序列号(12位)
type SnowflakeIDGenerator struct {
	mu       sync.Mutex
	epoch    int64 // 起始毫秒时间戳 (2024-01-01 00:00:00 UTC)
	nodeID   int64
	sequence int64
	lastMs   int64
	now      func() time.Time
}

const (
	nodeBits     = 10
	sequenceBits = 12
	maxNodeID    = -1 ^ (-1 << nodeBits)
	maxSequence  = -1 ^ (-1 << sequenceBits)
)

// NewSnowflakeIDGenerator 创建ID生成器，nodeID 超出范围时取 0
func NewSnowflakeIDGenerator(nodeID int64) *SnowflakeIDGenerator {
	if nodeID < 0 || nodeID > maxNodeID {
		nodeID = 0
	}
	return &SnowflakeIDGenerator{
		epoch:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		nodeID: nodeID,
		now:    time.Now,
	}
}

// NextID 生成下一个ID，单调递增
func (g *SnowflakeIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms < g.lastMs {
		// 时钟回拨时沿用上次时间戳
		ms = g.lastMs
	}

	if ms == g.lastMs {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for ms <= g.lastMs {
				ms = g.now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastMs = ms

	return (ms-g.epoch)<<(nodeBits+sequenceBits) | g.nodeID<<sequenceBits | g.sequence
}

// OrderID 订单 ID 使用去掉连字符的 UUIDv4
func (g *SnowflakeIDGenerator) OrderID() string {
	return NewOrderID()
}

// PaymentID 支付记录 ID 使用雪花 ID
func (g *SnowflakeIDGenerator) PaymentID() int64 {
	return g.NextID()
}

// NewOrderID 生成订单 ID
func NewOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var defaultGenerator = NewSnowflakeIDGenerator(1)

// Default 全局默认生成器（节点ID为1）
func Default() Generator {
	return defaultGenerator
}
