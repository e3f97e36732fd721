// Package app wires configuration, stores and services shared by the server,
// the scheduler and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/clock"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"
	"github.com/segyhp/equipment-lease/internal/handler"
	"github.com/segyhp/equipment-lease/internal/lock"
	"github.com/segyhp/equipment-lease/internal/metrics"
	"github.com/segyhp/equipment-lease/internal/migration"
	"github.com/segyhp/equipment-lease/internal/repository"
	"github.com/segyhp/equipment-lease/internal/service"
	"github.com/segyhp/equipment-lease/internal/session"
)

type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Sessions   *session.Store
	Contracts  *service.ContractService
	Invoices   *service.InvoiceService
	Reconciler *service.Reconciler
	Auth       *service.AuthService
	Equipment  *service.EquipmentService
}

// New connects to postgres and redis and builds every service.
// Reconciler collectors are registered on registerer.
func New(cfg *config.Config, logger *zap.Logger, registerer prometheus.Registerer) (*App, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	redisClient, err := OpenRedis(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	node, err := snowflake.NewNode(cfg.Lease.SnowflakeNode)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("snowflake node: %w", err)
	}

	clk := clock.New()
	locker := lock.NewRedisLocker(redisClient)
	sessions := session.NewStore(redisClient, cfg.GetSessionTTL())

	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	itemRepo := repository.NewItemRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	userRepo := repository.NewUserRepository(db)

	invoices := service.NewInvoiceService(invoiceRepo, itemRepo, node, clk, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Redis:      redisClient,
		Sessions:   sessions,
		Contracts:  service.NewContractService(contractRepo, itemRepo, locker, node, cfg, logger),
		Invoices:   invoices,
		Reconciler: service.NewReconciler(contractRepo, invoices, locker, clk, metrics.NewReconcilerMetrics(registerer), cfg, logger),
		Auth:       service.NewAuthService(userRepo, sessions, clk, logger),
		Equipment:  service.NewEquipmentService(itemRepo, assetRepo, node, clk, cfg, logger),
	}, nil
}

// Migrate applies pending schema migrations
func (a *App) Migrate() error {
	return migration.RunMigrations(a.DB.DB)
}

// Router builds the HTTP API
func (a *App) Router() *mux.Router {
	showDetails := a.Config.IsDevelopment()
	sessionTTL := a.Config.GetSessionTTL()
	cookie := a.Config.Session.CookieName

	return handler.NewRouter(handler.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"database": handler.DatabaseCheck(a.DB),
			"redis":    handler.RedisCheck(a.Redis),
		}, a.Config.GetHealthTimeout()),
		Auth:      handler.NewAuthHandler(a.Auth, cookie, sessionTTL, showDetails),
		CSRF:      handler.NewCSRFHandler(a.Sessions, cookie, sessionTTL, a.Logger),
		Equipment: handler.NewEquipmentHandler(a.Equipment, showDetails),
		Contract:  handler.NewContractHandler(a.Contracts, showDetails),
		Invoice:   handler.NewInvoiceHandler(a.Invoices, showDetails),
		Job:       handler.NewJobHandler(a.Reconciler, showDetails, a.Logger),
	}, a.Auth, showDetails, a.Logger)
}

// MarkOverdueThenSync runs the overdue sweep and then the status sync, so
// rows pick up the Overdue status in the same tick.
func (a *App) MarkOverdueThenSync(ctx context.Context) (*SyncOutcome, error) {
	marked, err := a.Reconciler.MarkOverdue(ctx)
	if err != nil {
		return nil, err
	}

	result, err := a.Reconciler.SyncScheduleStatus(ctx)
	return &SyncOutcome{MarkedOverdue: marked, Sync: result}, err
}

type SyncOutcome struct {
	MarkedOverdue int64             `json:"marked_overdue"`
	Sync          *domain.RunResult `json:"sync"`
}

func (a *App) Close() error {
	return errors.Join(a.Redis.Close(), a.DB.Close())
}

func OpenDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func OpenRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := RedisOptions(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// RedisOptions prefers REDIS_URL and falls back to host, port and db
func RedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		return redis.ParseURL(cfg.URL)
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}
