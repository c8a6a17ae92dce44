package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/database"
	"github.com/daeldrn/fdashboardtemplate/internal/events"
	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/lock"
	"github.com/daeldrn/fdashboardtemplate/internal/logger"
	"github.com/daeldrn/fdashboardtemplate/internal/repository"
	"github.com/daeldrn/fdashboardtemplate/internal/router"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml if present)")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	opts := []ledger.Option{ledger.WithLogger(zl.Named("ledger"))}

	var locker ledger.Locker = ledger.NewLocalLocker()
	if cfg.Lock.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, lock.OptionsFromConfig(cfg.Lock), zl.Named("lock"))
	}

	if cfg.RabbitMQ.Enabled {
		publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("init rabbitmq publisher: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher))
	}

	svc := ledger.NewService(
		repository.NewFuelCardRepository(db),
		repository.NewFuelOperationRepository(db),
		repository.NewTransactionManager(db),
		locker,
		opts...,
	)

	// setup router
	r := router.SetupRouter(cfg, db, svc, zl)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("lock_backend", cfg.Lock.Backend),
			zap.Bool("auth_enabled", cfg.JWT.Secret != ""),
			zap.Bool("events_enabled", cfg.RabbitMQ.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case sig := <-stop:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
