package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/app"
	"github.com/yokitheyo/webpoptimizer/internal/config"
	httpHandler "github.com/yokitheyo/webpoptimizer/internal/handler/http"
	"github.com/yokitheyo/webpoptimizer/internal/handler/middleware"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting WebP Optimizer webhook server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateServer(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid server config")
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid log level")
	}

	pipeline, err := app.NewPipeline(ctx, cfg, nil)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize pipeline")
	}

	engine := ginext.New("api")
	engine.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggerMiddleware(),
	)

	engine.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	notificationHandler := httpHandler.NewNotificationHandler(pipeline, cfg.Server.MaxBodySizeKB)
	notificationHandler.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Logger.Fatal().Err(err).Msg("Failed to start webhook server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	} else {
		zlog.Logger.Info().Msg("HTTP server stopped gracefully")
	}

	zlog.Logger.Info().Msg("Webhook server shutdown complete")
}
