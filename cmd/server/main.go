package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"parkeoWs/internal/config"
	"parkeoWs/internal/platform/broker"
	"parkeoWs/internal/realtime/application/handler"
	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/infrastructure"
	"parkeoWs/internal/realtime/transport"
	"parkeoWs/internal/shared/auth"
	"parkeoWs/internal/shared/logging"
)

func main() {
	// Load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	hub := infrastructure.NewHub()
	store := infrastructure.NewStoreHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)

	// JWT validator for tokens issued by the platform's auth service.
	validator := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKeyPEM)

	connectUC := usecase.NewConnectUseCase(validator, store)
	snapshotUC := usecase.NewSnapshotUseCase(store, cfg.Websocket.SnapshotTTL)
	defer snapshotUC.Stop()
	notifyUC := usecase.NewNotifyUseCase(hub)

	// One handler per broker stream.
	registry := broker.NewHandlerRegistry()
	registry.Register(&handler.AvailabilityHandler{Notifier: notifyUC})
	registry.Register(&handler.BookingHandler{Notifier: notifyUC})
	registry.Register(&handler.PaymentHandler{Notifier: notifyUC})
	registry.Register(&handler.NotificationHandler{Notifier: notifyUC})
	registry.Register(&handler.AnnouncementHandler{Notifier: notifyUC})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dedup := broker.NewDeduplicator(4096, 10*time.Minute)
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, dedup)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())

	pulls := transport.NewPullRouter(snapshotUC, hub)
	e.GET("/ws", transport.NewWebsocketHandler(hub, connectUC, pulls, cfg.Websocket.SendBuffer))

	// Internal surface for domain services that bypass the broker.
	e.POST("/internal/notify/availability", transport.NewAvailabilityNotifyHandler(notifyUC))
	e.POST("/internal/notify/booking", transport.NewBookingNotifyHandler(notifyUC))
	e.POST("/internal/notify/payment", transport.NewPaymentNotifyHandler(notifyUC))
	e.POST("/internal/notify/generic", transport.NewGenericNotifyHandler(notifyUC))
	e.POST("/internal/announce", transport.NewAnnounceHandler(notifyUC))
	e.GET("/internal/connections", transport.NewConnectionsHandler(hub))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "connections": hub.Stats()})
	})

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	hub.Shutdown(shutdownCtx)
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
