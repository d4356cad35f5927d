package bootstrap

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/domains/entity/etorder"
	"mall/ordercore/internal/app/domains/modules/mdorder"
	"mall/ordercore/internal/app/domains/repo/rpcart"
	"mall/ordercore/internal/app/domains/repo/rpdistribution"
	"mall/ordercore/internal/app/domains/repo/rporder"
	"mall/ordercore/internal/app/domains/repo/rppayment"
	"mall/ordercore/internal/app/domains/repo/rpsku"
	"mall/ordercore/internal/app/domains/services/svorder"
	"mall/ordercore/internal/app/infra/mq/kafka"
	"mall/ordercore/internal/app/infra/mq/lmstfy"
	"mall/ordercore/internal/app/infra/persistence/mysql"
	"mall/ordercore/internal/app/infra/persistence/redis"
	"mall/ordercore/internal/app/infra/schema"
	"mall/ordercore/internal/app/pkg/idgen"
	"mall/ordercore/internal/app/pkg/logger"
)

// Infra 基础设施组件，redis/lmstfy/kafka 未配置时为 nil
type Infra struct {
	Config *config.Config
	Logger logger.Logger
	DB     *gorm.DB
	Lmstfy *lmstfy.Client
	Redis  *redis.PubSubClient
	Kafka  *kafka.Producer

	closers []func() error
}

// NewInfra 初始化日志、数据库及可选的消息组件
func NewInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return nil, err
	}
	infra := &Infra{Config: cfg, Logger: log}

	infra.DB, err = mysql.Open(cfg.MySQL, log.Zap())
	if err != nil {
		return nil, err
	}
	db := infra.DB
	infra.closers = append(infra.closers, func() error { return mysql.Close(db) })
	log.Infof(ctx, "database connected")

	if cfg.Redis.Enabled() {
		infra.Redis, err = redis.NewPubSubClient(ctx, cfg.Redis)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("connect redis failed: %w", err)
		}
		infra.closers = append(infra.closers, infra.Redis.Close)
		log.Infof(ctx, "redis connected, addr=%s", cfg.Redis.Addr)
	}

	if cfg.Lmstfy.Enabled() {
		infra.Lmstfy = lmstfy.NewClient(cfg.Lmstfy)
		log.Infof(ctx, "lmstfy client initialized, namespace=%s", cfg.Lmstfy.Namespace)
	}

	if cfg.Kafka.Enabled() {
		infra.Kafka, err = kafka.NewProducer(cfg.Kafka, cfg.Order.EventsTopic, log)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.closers = append(infra.closers, infra.Kafka.Close)
		log.Infof(ctx, "kafka producer started, topic=%s", cfg.Order.EventsTopic)
	}

	return infra, nil
}

// Close 逆序释放资源
func (i *Infra) Close() {
	for idx := len(i.closers) - 1; idx >= 0; idx-- {
		if err := i.closers[idx](); err != nil {
			i.Logger.Warnf(context.Background(), "close resource failed: %v", err)
		}
	}
	i.closers = nil
	_ = i.Logger.Sync()
}

// NewOrderService 解析表结构并组装订单服务
func (i *Infra) NewOrderService(ctx context.Context) (*svorder.OrderService, error) {
	desc, err := schema.Ensure(ctx, i.DB)
	if err != nil {
		return nil, err
	}
	i.Logger.Infof(ctx, "schema resolved, version=%d", desc.Version)

	policy, ok := etorder.PolicyByName(i.Config.Order.StatusPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown status policy %q", i.Config.Order.StatusPolicy)
	}

	repos := NewRepos(i.DB, desc)
	module := mdorder.NewOrderModule(i.DB, repos, idgen.Default())

	opts := []svorder.Option{
		svorder.WithPolicy(policy),
		svorder.WithExpireAfter(i.Config.Order.ExpireAfter()),
	}
	if i.Kafka != nil {
		opts = append(opts, svorder.WithEventPublisher(i.Kafka))
	}
	if i.Redis != nil {
		opts = append(opts, svorder.WithStatusNotifier(i.Redis))
	}
	if i.Lmstfy != nil {
		scheduler := lmstfy.NewExpireScheduler(i.Lmstfy, i.Config.Order.ExpireQueue, i.Logger)
		opts = append(opts, svorder.WithExpireScheduler(scheduler))
	}

	return svorder.NewOrderService(module, i.Logger, opts...), nil
}

// NewRepos 按表结构描述创建仓储
func NewRepos(db *gorm.DB, desc schema.Descriptor) *mdorder.Repos {
	return &mdorder.Repos{
		Orders:        rporder.NewOrderRepository(db, desc),
		Skus:          rpsku.NewSkuRepository(db),
		Carts:         rpcart.NewCartRepository(db),
		Distributions: rpdistribution.NewDistributionRepository(db),
		Payments:      rppayment.NewPaymentRepository(db, desc),
	}
}
