package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stockboard/stockboard/internal/app"
	"github.com/stockboard/stockboard/internal/config"
	"github.com/stockboard/stockboard/internal/stock/service"
	"github.com/stockboard/stockboard/pkg/logger"
	"github.com/stockboard/stockboard/pkg/metrics"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	if cfg.Server.Environment == "development" {
		logger.Console()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: backend=%s location=%s mongo=%v redis=%v auth=%q",
		cfg.Store.Backend, cfg.Store.XMLLocation, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Auth.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warnf("closing store: %v", err)
		}
	}()
	logger.Infof("stock store: %s", store.Location)

	svc := service.New(store.Repo, store.Backend)
	if cfg.Store.CreateIfMissing {
		if err := svc.Init(ctx); err != nil {
			logger.Fatalf("failed to initialize store: %v", err)
		}
	}

	rdb := app.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to reach Redis at %s: %v", cfg.Redis.Addr(), err)
		}
	}

	guards, err := app.WriteGuards(ctx, cfg, rdb)
	if err != nil {
		logger.Fatalf("failed to set up write auth: %v", err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := app.NewRouter(cfg, app.RouterDeps{
		Service:     svc,
		Redis:       rdb,
		WriteGuards: guards,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := app.NewServer(cfg, r)
	go func() {
		logger.Infof("stockboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
