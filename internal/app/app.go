// Package app собирает зависимости приложения из конфигурации.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/RoGogDBD/inventory/internal/auth"
	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/config/db"
	"github.com/RoGogDBD/inventory/internal/handlers"
	"github.com/RoGogDBD/inventory/internal/kafka"
	"github.com/RoGogDBD/inventory/internal/repository"
	"github.com/RoGogDBD/inventory/internal/telemetry"
)

// storage объединяет хранилища позиций и пользователей.
type storage interface {
	repository.ItemStore
	repository.UserStore
}

// App содержит все зависимости приложения
type App struct {
	Config    *config.Config
	DBPool    *pgxpool.Pool
	Store     storage
	Cache     repository.ItemCache
	Telemetry *telemetry.Providers

	redis     *redis.Client
	publisher *kafka.Publisher
	dlq       kafka.MessageWriter
	handler   http.Handler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApp создает новое приложение.
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init выполняет инициализацию зависимостей приложения и запускает консьюмер импорта.
func (a *App) Init() error {
	var err error
	a.Telemetry, err = telemetry.Init(a.ctx, a.Config.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	if err := a.initStore(a.ctx); err != nil {
		return err
	}
	a.initCache(a.ctx)
	a.initKafka()

	authCfg := a.Config.Auth
	tokens := auth.NewTokenManager(authCfg.JWTSecret, authCfg.Issuer, authCfg.TokenTTL)
	h := handlers.NewHandler(a.Store, a.Store, a.Cache, tokens, handlers.Options{
		Limiter:     auth.NewLoginLimiter(authCfg.LoginRate, authCfg.LoginBurst),
		Events:      a.events(),
		Metrics:     a.Telemetry.Metrics,
		MaxPageSize: a.Config.Inventory.MaxPageSize,
		BcryptCost:  authCfg.BcryptCost,
	})
	router := handlers.NewRouter(h, a.Config.Server, handlers.RouterOptions{
		MetricsPath:    a.Config.Telemetry.MetricsPath,
		MetricsHandler: a.Telemetry.MetricsHandler,
		Swagger:        true,
	})
	a.handler = a.Telemetry.WrapHandler(router, "inventory")
	return nil
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.handler
}

// initStore подключает PostgreSQL. Без DSN данные хранятся в памяти процесса.
func (a *App) initStore(ctx context.Context) error {
	if a.Config.Database.DSN == "" {
		slog.Warn("no DSN provided, using in-memory store; data will not survive a restart")
		a.Store = repository.NewMemStorage()
		return nil
	}

	pool, err := db.NewPool(ctx, a.Config.Database)
	if err != nil {
		return err
	}
	a.DBPool = pool
	a.Store = repository.NewPostgresStorage(pool)
	slog.Info("database initialized")
	return nil
}

func (a *App) initCache(ctx context.Context) {
	cfg := a.Config.Cache
	switch cfg.Driver {
	case config.CacheDriverNone:
		a.Cache = repository.NoopCache{}
		return
	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, falling back to in-process cache", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
			break
		}
		a.redis = client
		a.Cache = repository.NewRedisCache(client, cfg.TTL)
		slog.Info("item cache initialized", "driver", "redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return
	}
	a.Cache = repository.NewLRUCache(cfg.MaxItems, cfg.TTL)
	slog.Info("item cache initialized", "driver", "memory", "max_items", cfg.MaxItems, "ttl", cfg.TTL)
}

func (a *App) initKafka() {
	cfg := a.Config.Kafka
	if !cfg.Enabled {
		return
	}

	a.publisher = kafka.NewPublisher(kafka.NewWriter(cfg.Brokers, cfg.EventsTopic))
	if cfg.DLQTopic != "" {
		a.dlq = kafka.NewWriter(cfg.Brokers, cfg.DLQTopic)
	}
	if cfg.ImportTopic == "" {
		return
	}

	importer := kafka.NewImporter(a.Store, a.Cache, a.dlq, cfg, a.Telemetry.Metrics)
	reader := kafka.NewImportReader(cfg)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		slog.Info("kafka import consumer started", "topic", cfg.ImportTopic, "group", cfg.GroupID)
		if err := kafka.RunImportConsumer(a.ctx, reader, importer); err != nil {
			slog.Error("kafka import consumer stopped", "error", err)
		}
	}()
}

// events возвращает издателя событий; nil, если Kafka выключена.
func (a *App) events() handlers.EventPublisher {
	if a.publisher == nil {
		return nil
	}
	return a.publisher
}

// Close освобождает все ресурсы приложения
func (a *App) Close(ctx context.Context) error {
	slog.Info("shutting down application")

	// остановит консьюмер импорта
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.dlq != nil {
		errs = append(errs, a.dlq.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		slog.Info("database connection closed")
	}
	errs = append(errs, a.Telemetry.Shutdown(ctx))

	slog.Info("application shutdown complete")
	return errors.Join(errs...)
}

// Context возвращает контекст приложения
func (a *App) Context() context.Context {
	return a.ctx
}
