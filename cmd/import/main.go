package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tutfree/internal/config"
	"tutfree/internal/logging"
	"tutfree/internal/storage"
	"tutfree/internal/twogis"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to config.yaml")
		query      = flag.String("query", "", "2GIS search query (defaults to twogis.query)")
		dryRun     = flag.Bool("dry-run", false, "print what would be imported without writing")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	base, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := logging.Component(base, "import")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	q := *query
	if q == "" {
		q = cfg.TwoGIS.Query
	}
	venues, err := twogis.NewClient(nil, cfg.TwoGIS, nil, logger).Import(ctx, q)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if *dryRun {
		for _, v := range venues {
			fmt.Printf("%s\t%s\t%s\t%.5f,%.5f\n", v.ID, v.Name, v.Category, v.Lat, v.Lng)
		}
		logger.Info().Int("venues", len(venues)).Msg("dry run, nothing written")
		return nil
	}
	if len(venues) == 0 {
		logger.Warn().Str("query", q).Msg("nothing imported, venues left unchanged")
		return nil
	}

	var rdb *redis.Client
	if cfg.Storage.Backend == config.BackendRedis {
		rdb = storage.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := storage.Ping(ctx, rdb); err != nil {
			if !cfg.Storage.FallbackToFile {
				return err
			}
			logger.Warn().Err(err).Msg("redis unavailable, writing through file fallback")
		}
	}

	store, closeStore, err := storage.Open(cfg.Storage, rdb, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer (func() { _ = closeStore() })()

	if err := storage.NewRepository(store).ReplaceVenues(ctx, venues); err != nil {
		return fmt.Errorf("replace venues: %w", err)
	}

	logger.Info().Str("query", q).Int("venues", len(venues)).Msg("venues imported")
	return nil
}
