package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/seat-reservation/internal/config"
	"github.com/iliyamo/seat-reservation/internal/handler"
	"github.com/iliyamo/seat-reservation/internal/middleware"
	"github.com/iliyamo/seat-reservation/internal/queue"
	"github.com/iliyamo/seat-reservation/internal/repository"
	"github.com/iliyamo/seat-reservation/internal/router"
	queue_publisher "github.com/iliyamo/seat-reservation/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seats := repository.NewSeatStore(cfg.SeatCount)
	if cfg.SeedReserved {
		n := seats.SeedReserved(cfg.SeedRatio, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		logger.Info("seeded reserved seats", "count", n)
	}
	registry := repository.NewReservationRegistry(seats, nil)

	rdb := config.NewRedisClient(cfg.Redis)
	if cfg.Redis.Enabled && rdb == nil {
		logger.Warn("redis unreachable; cache and rate limiting disabled", "addr", cfg.Redis.Addr)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher handler.EventPublisher
	if cfg.Queue.Enabled {
		publisher = queue_publisher.New(cfg.Queue.URL, cfg.Queue.Name)
	}
	if cfg.Queue.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.Queue.URL, Queue: cfg.Queue.Name, LogPath: cfg.Queue.LogPath, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reservation consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))

	h := handler.NewReservationHandler(registry, publisher, logger)
	router.RegisterRoutes(e)
	router.RegisterReservations(e, h,
		middleware.NewSeatMapCache(cfg.Cache, rdb, registry.Generation),
		middleware.NewTokenBucket(cfg.RateLimit, rdb),
	)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env, "seats", seats.Len())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
