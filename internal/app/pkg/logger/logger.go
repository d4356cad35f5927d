package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志接口
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
	Zap() *zap.Logger
	Sync() error
}

type ctxKey string

const (
	traceIDKey       ctxKey = "trace_id"
	orderIDKey       ctxKey = "order_id"
	clientOrderNoKey ctxKey = "client_order_no"
)

// WithTraceID 在 Context 中注入链路 ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithOrderID 在 Context 中注入订单 ID
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

// WithClientOrderNo 在 Context 中注入幂等号
func WithClientOrderNo(ctx context.Context, clientOrderNo string) context.Context {
	return context.WithValue(ctx, clientOrderNoKey, clientOrderNo)
}

// TraceIDFrom 读取链路 ID
func TraceIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

// ZapLogger Zap 日志实现
type ZapLogger struct {
	logger *zap.Logger
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewZapLogger 创建 Zap 日志实例
func NewZapLogger(level, encoding string) (Logger, error) {
	if encoding != "console" {
		encoding = "json"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger failed: %w", err)
	}

	return &ZapLogger{logger: logger}, nil
}

// NewFromZap 包装已有的 zap.Logger
func NewFromZap(l *zap.Logger) Logger {
	return &ZapLogger{logger: l}
}

// NewNopLogger 不输出任何日志，供测试使用
func NewNopLogger() Logger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) extractFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 3)
	for _, key := range []ctxKey{traceIDKey, orderIDKey, clientOrderNoKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, zap.String(string(key), v))
		}
	}
	return fields
}

// Debugf 输出 Debug 日志
func (l *ZapLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

// Infof 输出 Info 日志
func (l *ZapLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

// Warnf 输出 Warn 日志
func (l *ZapLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

// Errorf 输出 Error 日志
func (l *ZapLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

// Zap 返回底层 zap.Logger
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync 同步日志缓冲区
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
