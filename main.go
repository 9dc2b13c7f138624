package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/api"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/configload"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/elasticsearch"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/handler"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/metrics"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/profiling"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/service"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/storage"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/ubi"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Start profiling server (if enabled)
	profiling.StartPprofServer()
	if pyroProfiler, pyroErr := profiling.StartPyroscope("judgment-generator"); pyroErr != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Pyroscope failed to start: %v\n", pyroErr)
	} else if pyroProfiler != nil {
		defer pyroProfiler.Stop() //nolint:errcheck // best-effort cleanup
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting judgment generator service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// Setup Elasticsearch
	esClient, err := setupElasticsearch(cfg, log)
	if err != nil {
		log.Error("Failed to create Elasticsearch client", logger.Error(err))
		return 1
	}

	// Setup the optional run store
	store, err := setupStore(cfg, log)
	if err != nil {
		log.Error("Failed to connect to PostgreSQL", logger.Error(err))
		return 1
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	return runServer(cfg, esClient, store, log)
}

// loadConfig loads configuration from config file.
func loadConfig() (*config.Config, error) {
	configPath := configload.GetConfigPath("config.yml")
	return config.Load(configPath)
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("service", "judgment-generator")), nil
}

// setupElasticsearch creates and connects the Elasticsearch client.
func setupElasticsearch(cfg *config.Config, log logger.Logger) (*elasticsearch.Client, error) {
	log.Info("Connecting to Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))
	esClient, err := elasticsearch.NewClient(&cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to Elasticsearch",
		logger.String("queries_index", cfg.Elasticsearch.QueriesIndex),
		logger.String("events_index", cfg.Elasticsearch.EventsIndex),
	)
	return esClient, nil
}

// setupStore opens the PostgreSQL run store when persistence is enabled.
func setupStore(cfg *config.Config, log logger.Logger) (*storage.Store, error) {
	if !cfg.Database.Enabled {
		log.Info("Judgment persistence disabled")
		return nil, nil
	}

	store, err := storage.Open(cfg.Database.DSN(), log)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to PostgreSQL",
		logger.String("host", cfg.Database.Host),
		logger.String("database", cfg.Database.Database),
	)
	return store, nil
}

// runServer wires the fetcher, service, and handlers, then runs the HTTP
// server with graceful shutdown.
func runServer(cfg *config.Config, esClient *elasticsearch.Client, store *storage.Store, log logger.Logger) int {
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	fetcher := ubi.NewFetcher(esClient, &cfg.Elasticsearch, log)

	var runStore service.RunStore
	if store != nil {
		runStore = store
	}

	judgmentService := service.NewJudgmentService(fetcher, runStore, m, cfg, log)
	log.Info("Judgment service initialized")

	checks := map[string]handler.DependencyChecker{
		"elasticsearch": esClient.HealthCheck,
	}
	if store != nil {
		checks["postgres"] = func(_ context.Context) error { return store.Ping() }
	}

	handlers := &api.RouteHandlers{
		Judgments: handler.NewJudgmentHandler(judgmentService, log),
		Health:    handler.NewHealthHandler(cfg.Service.Version, checks),
	}

	server := api.NewServer(handlers, cfg, log)

	log.Info("Judgment generator starting", logger.Int("port", cfg.Service.Port))

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Judgment generator exited cleanly")
	return 0
}
