package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/service-marketplace/internal/config"
	"github.com/iliyamo/service-marketplace/internal/cron"
	"github.com/iliyamo/service-marketplace/internal/database"
	"github.com/iliyamo/service-marketplace/internal/logger"
	"github.com/iliyamo/service-marketplace/internal/middleware"
	"github.com/iliyamo/service-marketplace/internal/queue"
	"github.com/iliyamo/service-marketplace/internal/repository"
	"github.com/iliyamo/service-marketplace/internal/router"
	"github.com/iliyamo/service-marketplace/internal/service"
	"github.com/iliyamo/service-marketplace/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Events: store -> publisher -> RabbitMQ -> consumer -> audit sinks.
	var emitter store.Emitter = service.LogEmitter{Log: lg}
	var auditDB *sql.DB
	if cfg.Events.Enabled {
		pub := service.NewPublisher(cfg.Events.URL, cfg.Events.Queue, cfg.Events.Buffer, lg)
		go func() { _ = pub.Run(ctx) }()
		emitter = pub

		sinks := []queue.Sink{queue.NewFileSink(cfg.Audit.LogFile)}
		if cfg.Audit.DBEnabled() {
			auditDB, err = openAuditDB(ctx, cfg.Audit)
			if err != nil {
				lg.Warn("audit database unavailable; recording to file only", zap.Error(err))
			} else {
				sinks = append(sinks, repository.NewAuditRepo(auditDB))
			}
		}
		consumer := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, Sinks: sinks, Log: lg}
		go func() { _ = consumer.Run(ctx) }()
	}

	opts := []store.Option{
		store.WithLogger(lg),
		store.WithEmitter(emitter),
		store.WithBcryptCost(cfg.BcryptCost),
	}
	if !cfg.SeedDemoData {
		opts = append(opts, store.WithoutSeed())
	}
	st, err := store.New(opts...)
	if err != nil {
		lg.Fatal("store init failed", zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg.Redis, lg)

	var scheduler interface{ Stop() context.Context }
	if cfg.Reminder.Enabled {
		reminder := cron.NewReminder(st, lg)
		if cfg.Cache.Enabled && rdb != nil {
			reminder.Cache, reminder.CachePrefix = rdb, cfg.Cache.Prefix
		}
		c, err := cron.Schedule(cfg.Reminder.Schedule, reminder)
		if err != nil {
			lg.Fatal("reminder schedule", zap.Error(err))
		}
		c.Start()
		scheduler = c
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(lg))
	router.RegisterRoutes(e)
	router.RegisterAPI(e, st,
		middleware.NewTokenBucket(cfg.RateLimit, rdb, lg),
		middleware.InvalidateOnWrite(cfg.Cache, rdb, lg),
		middleware.NewRedisCache(cfg.Cache, rdb),
	)

	addr := ":" + cfg.Port
	go func() {
		lg.Info("HTTP server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if auditDB != nil {
		_ = auditDB.Close()
	}
	lg.Info("server stopped")
}

func openAuditDB(ctx context.Context, a config.AuditConfig) (*sql.DB, error) {
	db, err := database.Open(ctx, database.DSN(a.DBUser, a.DBPass, a.DBHost, a.DBPort, a.DBName))
	if err != nil {
		return nil, err
	}
	if err := repository.NewAuditRepo(db).EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
