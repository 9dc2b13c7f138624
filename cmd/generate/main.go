// Command generate runs one judgment generation pass and writes the
// judgment list to the configured CSV file. It is the batch counterpart of
// the HTTP service, intended for cron jobs and offline experiments.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/configload"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/elasticsearch"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/metrics"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/service"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/storage"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/ubi"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(configload.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	esClient, err := elasticsearch.NewClient(&cfg.Elasticsearch)
	if err != nil {
		log.Error("Failed to create Elasticsearch client", logger.Error(err))
		return 1
	}

	var runStore service.RunStore
	if cfg.Database.Enabled {
		store, storeErr := storage.Open(cfg.Database.DSN(), log)
		if storeErr != nil {
			log.Error("Failed to connect to PostgreSQL", logger.Error(storeErr))
			return 1
		}
		defer func() { _ = store.Close() }()
		runStore = store
	}

	fetcher := ubi.NewFetcher(esClient, &cfg.Elasticsearch, log)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := service.NewJudgmentService(fetcher, runStore, m, cfg, log)

	runResult, err := svc.Generate(context.Background())
	if err != nil {
		log.Error("Judgment generation failed", logger.Error(err))
		return 1
	}

	if err := svc.ExportCSV(runResult, cfg.Judgments.OutputFile); err != nil {
		log.Error("Failed to write judgment list", logger.Error(err))
		return 1
	}

	stats := runResult.Stats
	fmt.Printf("Judgment list written to %s\n", cfg.Judgments.OutputFile)
	fmt.Printf("  run id:           %s\n", runResult.RunID)
	fmt.Printf("  judgments:        %d\n", stats.TotalJudgments)
	fmt.Printf("  unique queries:   %d\n", stats.UniqueQueries)
	fmt.Printf("  unique documents: %d\n", stats.UniqueDocuments)
	fmt.Printf("  grade range:      [%.4f, %.4f], mean %.4f\n", stats.MinGrade, stats.MaxGrade, stats.MeanGrade)
	for _, p := range stats.Percentiles {
		fmt.Printf("  p%.0f grade:        %.4f\n", p.Percentile, p.Value)
	}
	fmt.Printf("  above expectation: %d\n", stats.PairsAboveExpectation)
	fmt.Printf("  zero expectation:  %d\n", stats.ZeroExpectationPairs)
	fmt.Printf("  ctr fallbacks:     %d\n", stats.CTRFallbacks)
	fmt.Printf("  skipped results:   %d\n", stats.SkippedResults)
	fmt.Printf("  skipped events:    %d\n", stats.SkippedEvents)

	return 0
}
