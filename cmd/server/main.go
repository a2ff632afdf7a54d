package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/address"
	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/server"
	"github.com/SwiftParcel/SwiftParcel/internal/common/tracing"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/SwiftParcel/SwiftParcel/internal/order"
	"github.com/SwiftParcel/SwiftParcel/internal/payment"
	"github.com/SwiftParcel/SwiftParcel/internal/review"
	"github.com/SwiftParcel/SwiftParcel/internal/router"
	"github.com/SwiftParcel/SwiftParcel/internal/station"
	"github.com/SwiftParcel/SwiftParcel/internal/user"
	"github.com/opentracing/opentracing-go"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	var (
		configPath  = flag.String("config", "configs/config.json", "配置文件路径")
		consulKVKey = flag.String("consul-kv", "", "从 Consul KV 加载配置（优先于本地文件）")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *consulKVKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Driver, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	// 链路追踪：失败只告警
	if tracer, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler); err != nil {
		log.Warnf("init tracer failed: %v", err)
	} else {
		opentracing.SetGlobalTracer(tracer)
		defer closer.Close()
	}

	db, err := openDB(cfg, log)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	rdb := openRedis(cfg, log)

	// 支付渠道注册表：mock + wechat，新渠道在这里挂
	registry := payment.NewRegistry(
		payment.NewMockBackend(cfg, rdb, log),
		payment.NewWechatBackend(cfg, log),
	)

	handlers := router.Handlers{
		User:    user.NewHandler(user.NewService(db, cfg.Auth), log),
		Station: station.NewHandler(station.NewService(db), log),
		Order:   order.NewHandler(order.NewService(db, log), log),
		Payment: payment.NewHandler(payment.NewService(db, registry, log), log),
		Address: address.NewHandler(address.NewService(db), log),
		Review:  review.NewHandler(review.NewService(db), log),
	}

	engine := router.Setup(cfg, log, rdb, handlers)
	if err := server.RunHTTPServer(cfg, log, engine, server.WithShutdownTimeout(10*time.Second)); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func loadConfig(path, consulKVKey string) (*config.Config, error) {
	if consulKVKey != "" {
		base, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return config.LoadConfigFromConsulKV(base.Consul.Host, base.Consul.Port, consulKVKey)
	}
	return config.LoadConfig(path)
}

func openDB(cfg *config.Config, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Station{},
		&model.Order{},
		&model.Payment{},
		&model.Review{},
		&model.Address{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	log.Infof("database connected: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	return db, nil
}

// openRedis 连 Redis。连不上返回 nil，限流等组件各自降级。
func openRedis(cfg *config.Config, log logger.Logger) *rd.Client {
	rdb := rd.NewClient(&rd.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis unavailable, falling back to local rate limiting: %v", err)
		return nil
	}

	log.Infof("redis connected: %s", cfg.Redis.Addr())
	return rdb
}
