package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"kitchen/cmd"
	platform "kitchen/internal/platform/observability"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configs := getConfigs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configs); err != nil {
		log.Fatalf("kitchen stopped: %v", err)
	}
}

func run(ctx context.Context, configs cmd.Config) error {
	instruments, shutdownTelemetry, err := platform.Init(ctx, platform.Config{
		ServiceName:  "kitchen",
		LogLevel:     configs.LogLevel,
		StdoutTraces: configs.OtelStdout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := instruments.Logger
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("failed to shutdown observability", "error", err)
		}
	}()

	app, err := cmd.NewCompositionRoot(configs, instruments)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close connections", "error", err)
		}
	}()

	if err = app.RestoreKitchenState(ctx); err != nil {
		return fmt.Errorf("failed to restore kitchen state: %w", err)
	}

	e, err := app.CreateEcho()
	if err != nil {
		return fmt.Errorf("failed to build http server: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
		defer cancel()
		logger.Info("HTTP server shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func getConfigs() cmd.Config {
	// .env is optional; the environment always wins over it.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		HTTPPort:     envOrDefault("HTTP_PORT", "8080"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       envOrDefault("DB_PORT", "5432"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBSslMode:    envOrDefault("DB_SSLMODE", "disable"),
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		MenuFile:     os.Getenv("MENU_FILE"),
		MenuCacheTTL: durationVariable("MENU_CACHE_TTL", 5*time.Minute),
		OverdueAfter: durationVariable("OVERDUE_AFTER", 20*time.Minute),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		OtelStdout:   boolVariable("OTEL_STDOUT"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, v, err)
	}
	return d
}

func boolVariable(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, v, err)
	}
	return b
}
