package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 状态更新策略
const (
	StatusPolicyPermissive = "permissive"
	StatusPolicyStrict     = "strict"
)

// Config 应用配置
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Lmstfy LmstfyConfig `mapstructure:"lmstfy"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Order  OrderConfig  `mapstructure:"order"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled redis 为可选组件
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// Enabled lmstfy 为可选组件，host 与 token 同时配置才启用
func (c LmstfyConfig) Enabled() bool {
	return c.Host != "" && c.Token != ""
}

type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	ClientID string   `mapstructure:"client_id"`
}

// Enabled kafka 为可选组件
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type OrderConfig struct {
	ExpireMinutes int    `mapstructure:"expire_minutes"`
	StatusPolicy  string `mapstructure:"status_policy"`
	ExpireQueue   string `mapstructure:"expire_queue"`
	PaymentQueue  string `mapstructure:"payment_queue"`
	EventsTopic   string `mapstructure:"events_topic"`
}

// ExpireAfter 待支付订单的超时时长
func (c OrderConfig) ExpireAfter() time.Duration {
	return time.Duration(c.ExpireMinutes) * time.Minute
}

// Load 从配置文件加载配置，环境变量 ORDERCORE_<SECTION>_<KEY> 可覆盖文件内容
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ORDERCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ordercore")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.conn_max_lifetime", time.Hour)
	v.SetDefault("mysql.log_level", "warn")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("kafka.client_id", "ordercore")
	v.SetDefault("order.expire_minutes", 30)
	v.SetDefault("order.status_policy", StatusPolicyPermissive)
	v.SetDefault("order.expire_queue", "order_expire")
	v.SetDefault("order.payment_queue", "payment_notify")
	v.SetDefault("order.events_topic", "order_events")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Order.ExpireMinutes <= 0 {
		return fmt.Errorf("order expire_minutes must be positive")
	}
	switch c.Order.StatusPolicy {
	case StatusPolicyPermissive, StatusPolicyStrict:
	default:
		return fmt.Errorf("unknown order status_policy %q", c.Order.StatusPolicy)
	}
	if c.Lmstfy.Enabled() && (c.Order.ExpireQueue == "" || c.Order.PaymentQueue == "") {
		return fmt.Errorf("order expire_queue and payment_queue are required when lmstfy is enabled")
	}
	if c.Kafka.Enabled() && c.Order.EventsTopic == "" {
		return fmt.Errorf("order events_topic is required when kafka is enabled")
	}
	return nil
}

// GetServerPort 获取服务端口
func (c *Config) GetServerPort() string {
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return "8080"
}
