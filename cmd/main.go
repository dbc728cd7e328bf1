package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satriahrh/agrivoice/server/adapters/filestore"
	"github.com/satriahrh/agrivoice/server/internal/api"
	"github.com/satriahrh/agrivoice/server/internal/config"
	"github.com/satriahrh/agrivoice/server/internal/retention"
	"github.com/satriahrh/agrivoice/server/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting up Agricultural Audio Assistant API")

	// Initialize adapters
	store, err := filestore.NewLocalStore(filestore.Config{
		UploadDir: cfg.UploadDir,
		OutputDir: cfg.OutputDir,
		TempDir:   cfg.TempDir,
	}, logger)
	if err != nil {
		return err
	}

	pipeline, err := buildStages(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	sweeper, err := retention.NewSweeper(store.Dirs(), retention.Config{
		MaxAge:   cfg.RetentionMaxAge,
		Interval: cfg.SweepInterval,
	}, logger)
	if err != nil {
		return err
	}

	// Initialize usecase services
	conversationService := usecase.NewConversationService(
		pipeline.speechToText,
		pipeline.llm,
		pipeline.textToSpeech,
		store,
		cfg.DefaultLanguage,
		logger,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(api.RequestLogger(logger))

	// Initialize API routes
	api.InitRoutes(e, conversationService, store, api.Options{
		OutputDir:      cfg.OutputDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("address", cfg.Address()))
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	// Wait for interrupt signal to gracefully shutdown the server
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
