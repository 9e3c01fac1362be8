package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/capitainerie/port-russell/internal/auth"
	"github.com/capitainerie/port-russell/internal/config"
	"github.com/capitainerie/port-russell/internal/db"
	httpx "github.com/capitainerie/port-russell/internal/http"
	"github.com/capitainerie/port-russell/internal/observability"
	"github.com/capitainerie/port-russell/internal/redisclient"
	"github.com/capitainerie/port-russell/internal/session"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing
	shutdownTracer, err := observability.InitTracer(context.Background(), "port-russell", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// postgres; without it the app falls back to in-memory stores (dev mode)
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Warn("database unavailable, using in-memory stores", "err", err)
		pool = nil
	}

	if pool != nil {
		if err := db.Migrate(pool); err != nil {
			log.Error("migration failed", "err", err)
			os.Exit(1)
		}

		ctx, cancel := config.WithTimeout(5 * time.Second)

		err = db.EnsureAdminUser(ctx, pool, cfg)
		cancel()

		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	// redis backs the session flash store
	rdb := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	{
		ctx, cancel := config.WithTimeout(2 * time.Second)

		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis unreachable, flash messages will be dropped", "err", err)
		}
		cancel()
	}

	flash := session.NewFlashStore(rdb.Raw(), cfg.FlashTTL, cfg.SessionTTL, log, prom)

	jwtManager := auth.NewManager(cfg.SecretKey, cfg.TokenTTL)

	router := httpx.NewRouter(log, cfg, pool, rdb, reg, prom, flash, jwtManager)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		flash.Shutdown()

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}

		if pool != nil {
			pool.Close()
		}

		if err := rdb.Close(); err != nil {
			log.Error("redis close failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
