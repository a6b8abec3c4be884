package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/streamsage/streamsage/internal/api"
	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/config"
	"github.com/streamsage/streamsage/internal/discovery"
	"github.com/streamsage/streamsage/internal/llm"
	"github.com/streamsage/streamsage/internal/logger"
	"github.com/streamsage/streamsage/internal/scheduler"
	"github.com/streamsage/streamsage/internal/scheduler/tasks"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("address", cfg.Server.Address()).
		Str("logLevel", cfg.Logging.Level).
		Msg("Starting StreamSage")

	// Cache backend: Redis when configured, in-process otherwise.
	var store catalog.Store
	if cfg.Cache.RedisURL != "" {
		redisStore, err := catalog.NewRedisStore(cfg.Cache.RedisURL, "streamsage")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisStore.Close()
		store = redisStore
		log.Info().Msg("Using Redis cache")
	} else {
		store = catalog.NewMemoryStore(cfg.Cache.MaxItems)
		log.Info().Int("maxItems", cfg.Cache.MaxItems).Msg("Using in-memory cache")
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB, log.Logger)
	catalogSvc := catalog.NewService(tmdbClient, store, cfg.Cache.TTLMinutes, log.Logger)
	if !catalogSvc.IsConfigured() {
		log.Warn().Msg("TMDB API key not set; discovery requests will be rejected")
	}

	ctx := context.Background()
	provider, err := llm.NewGemini(ctx, cfg.LLM, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize assistant provider")
	}
	defer provider.Close()
	if !provider.IsConfigured() {
		log.Warn().Msg("Gemini API key not set; discovery requests will be rejected")
	}

	discoverySvc := discovery.NewService(provider, catalogSvc, cfg.Discovery, log.Logger)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create scheduler")
		}

		genreSync := tasks.NewGenreSyncTask(catalogSvc, log.Logger)
		if err := tasks.RegisterGenreSyncTask(sched, genreSync, cfg.Scheduler); err != nil {
			log.Fatal().Err(err).Msg("Failed to register genre sync task")
		}

		trendingWarm := tasks.NewTrendingWarmTask(catalogSvc, log.Logger)
		if err := tasks.RegisterTrendingWarmTask(sched, trendingWarm); err != nil {
			log.Fatal().Err(err).Msg("Failed to register trending warm-up task")
		}

		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	server := api.NewServer(cfg, discoverySvc, provider, catalogSvc, sched, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown failed")
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Goodbye")
}
