package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/app"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	application, err := app.New(cfg, zl, prometheus.DefaultRegisterer)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cronLog := logger.NewCronLogger(zl.Named("cron"))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	if err := setupCronJobs(ctx, c, cfg, application); err != nil {
		zl.Fatal("failed to schedule jobs", zap.Error(err))
	}

	metricsServer := &http.Server{Addr: cfg.Scheduler.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("metrics listener stopped", zap.Error(err))
		}
	}()

	c.Start()
	zl.Info("scheduler started", zap.String("timezone", cfg.Scheduler.Timezone))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down scheduler")
	cancel()
	<-c.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	zl.Info("scheduler stopped")
}

func setupCronJobs(ctx context.Context, c *cron.Cron, cfg *config.Config, application *app.App) error {
	log := application.Logger.Named("scheduler")

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{
			name: "generate_invoices",
			spec: cfg.Scheduler.GenerateSpec,
			run: func(ctx context.Context) error {
				_, err := application.Reconciler.GenerateDueInvoices(ctx)
				return err
			},
		},
		{
			name: "sync_status",
			spec: cfg.Scheduler.SyncSpec,
			run: func(ctx context.Context) error {
				_, err := application.Reconciler.SyncScheduleStatus(ctx)
				return err
			},
		},
		{
			name: "mark_overdue",
			spec: cfg.Scheduler.OverdueSpec,
			run: func(ctx context.Context) error {
				_, err := application.MarkOverdueThenSync(ctx)
				return err
			},
		},
	}

	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.spec, func() {
			started := time.Now()
			log.Info("job started", zap.String("job", job.name))
			if err := job.run(ctx); err != nil {
				log.Error("job finished with errors", zap.String("job", job.name), zap.Error(err))
				return
			}
			log.Info("job finished", zap.String("job", job.name), zap.Duration("duration", time.Since(started)))
		}); err != nil {
			return err
		}
	}

	log.Info("cron jobs scheduled", zap.Int("jobs", len(jobs)))
	return nil
}
