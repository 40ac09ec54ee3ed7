package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutfree/internal/api"
	"tutfree/internal/config"
	"tutfree/internal/events"
	"tutfree/internal/logging"
	"tutfree/internal/metrics"
	"tutfree/internal/realtime"
	"tutfree/internal/service"
	"tutfree/internal/storage"
	"tutfree/internal/telegram"
	"tutfree/internal/twogis"
	"tutfree/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, redisUp := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, closeStore, err := storage.Open(cfg.Storage, redisClient, logging.Component(logger, "storage"))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer (func() { _ = closeStore() })()

	repo := storage.NewRepository(store)
	if _, err := storage.SeedVenues(ctx, repo, cfg.Storage.SeedVenuesPath, logger); err != nil {
		logger.Warn().Err(err).Msg("venue seeding failed, continuing")
	}

	bus := events.NewEventBus()
	hub := realtime.NewHub(cfg.Realtime, logging.Component(logger, "realtime"))
	bus.SubscribeAll(hub.HandleEvent)
	notifier := realtime.NewNotifier(bus, logger)

	startOwnerNotifications(ctx, cfg, bus, logger)

	var cache twogis.Cache
	if redisUp {
		cache = twogis.NewRedisCache(redisClient)
	}
	directory := twogis.NewClient(nil, cfg.TwoGIS, cache, logging.Component(logger, "twogis"))

	svcLogger := logging.Component(logger, "service")
	bookings := service.NewBookingService(repo, notifier, svcLogger)
	services := api.Services{
		Bookings: bookings,
		Business: service.NewBusinessService(repo, notifier, svcLogger),
		Client:   service.NewClientService(repo, directory, svcLogger),
		Sync:     service.NewSyncService(directory, repo, cfg.TwoGIS.Query, svcLogger),
		Export:   service.NewExportService(bookings, svcLogger),
	}

	if cfg.Janitor.Enabled {
		janitor := worker.NewStatusJanitor(repo, notifier, cfg.Janitor, logging.Component(logger, "janitor"))
		go janitor.Start(ctx)
	}

	backup := storage.NewBackupService(store, cfg.Backup, logging.Component(logger, "backup"))
	go backup.Start(ctx)

	startMetrics(ctx, cfg, logger)

	httpLogger := logging.Component(logger, "http")
	handler := api.NewHandler(services, httpLogger).Routes(*cfg, http.HandlerFunc(hub.ServeWS))
	httpServer := api.NewHTTPServer(cfg.HTTP, handler, httpLogger)

	return serve(ctx, httpServer, hub, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

// initRedis returns a nil client when redis is not configured. A client that
// failed its ping is still returned when it backs storage with file fallback,
// so the failover store can switch back once redis comes up.
func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, bool) {
	if cfg.Redis.Address == "" {
		return nil, false
	}

	redisClient := storage.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := storage.Ping(pingCtx, redisClient); err != nil {
		if cfg.Storage.Backend == config.BackendRedis && cfg.Storage.FallbackToFile {
			logger.Warn().Err(err).Msg("redis connection failed, storage starts on file fallback")
			return redisClient, false
		}
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = redisClient.Close()
		return nil, false
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient, true
}

func startOwnerNotifications(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.OwnerChats) == 0 {
		return
	}

	sender, err := telegram.NewSender(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, owner notifications disabled")
		return
	}
	owners := telegram.NewOwnerNotifier(sender, cfg.Telegram.OwnerChats, logging.Component(logger, "telegram"))
	owners.Register(bus)
	go owners.Run(ctx)
	logger.Info().Int("venues", len(cfg.Telegram.OwnerChats)).Msg("telegram owner notifications enabled")
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, hub *realtime.Hub, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Str("addr", httpServer.Addr()).Msg("TutFree started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}

	logger.Info().Msg("TutFree stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
