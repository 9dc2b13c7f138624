// Package service orchestrates judgment list generation: acquisition, the
// COEC pipeline, statistics, and the optional export and persistence adapters.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/coec"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/export"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/metrics"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/stats"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/storage"
)

// DataSource supplies the materialized UBI corpus. The pipeline itself never
// performs I/O.
type DataSource interface {
	FetchQueries(ctx context.Context) ([]domain.QueryRecord, error)
	FetchEvents(ctx context.Context) ([]domain.ClickEvent, error)
}

// RunStore persists completed runs. The Postgres store implements it; a nil
// store disables persistence.
type RunStore interface {
	SaveRun(ctx context.Context, run storage.RunRecord, judgments []domain.Judgment) error
}

// RunResult is one completed generation run.
type RunResult struct {
	RunID       string                   `json:"run_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	TookMs      int64                    `json:"took_ms"`
	Stats       domain.SummaryStatistics `json:"stats"`
	Judgments   []domain.Judgment        `json:"-"`
}

// JudgmentService runs the COEC pipeline over freshly fetched UBI data and
// keeps the most recent result for the API to serve.
type JudgmentService struct {
	source  DataSource
	store   RunStore
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  logger.Logger

	mu      sync.RWMutex
	lastRun *RunResult
}

// NewJudgmentService creates a JudgmentService. store may be nil when
// persistence is disabled.
func NewJudgmentService(
	source DataSource,
	store RunStore,
	m *metrics.Metrics,
	cfg *config.Config,
	log logger.Logger,
) *JudgmentService {
	return &JudgmentService{
		source:  source,
		store:   store,
		metrics: m,
		cfg:     cfg,
		logger:  log,
	}
}

// Generate fetches the UBI corpus, runs the pipeline, and returns the run
// result. Anomalies inside the pipeline never fail the run; only acquisition
// and persistence errors do.
func (s *JudgmentService) Generate(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()

	queries, err := s.source.FetchQueries(ctx)
	if err != nil {
		s.observeFailure()
		return nil, fmt.Errorf("fetch queries: %w", err)
	}

	events, err := s.source.FetchEvents(ctx)
	if err != nil {
		s.observeFailure()
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	opts := coec.Options{
		ZeroExpectation: zeroExpectationPolicy(s.cfg.Judgments.ZeroExpectationPolicy),
		MaxPosition:     s.cfg.Judgments.MaxPosition,
	}

	result := coec.Run(queries, events, opts)
	summary := stats.Summarize(result, s.cfg.Judgments.Percentiles)

	run := &RunResult{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		TookMs:      time.Since(startTime).Milliseconds(),
		Stats:       summary,
		Judgments:   result.Judgments,
	}

	s.logger.Info("Judgment list generated",
		logger.String("run_id", run.RunID),
		logger.Int("judgments", summary.TotalJudgments),
		logger.Int("unique_queries", summary.UniqueQueries),
		logger.Int("zero_expectation_pairs", summary.ZeroExpectationPairs),
		logger.Int("skipped_results", summary.SkippedResults),
		logger.Int("skipped_events", summary.SkippedEvents),
		logger.Int64("took_ms", run.TookMs),
	)
	if summary.CTRFallbacks > 0 {
		s.logger.Warn("CTR fallback used for exposures at unknown positions",
			logger.Int("ctr_fallbacks", summary.CTRFallbacks),
		)
	}

	if s.store != nil {
		record := storage.RunRecord{
			ID:          run.RunID,
			GeneratedAt: run.GeneratedAt,
			Stats:       summary,
		}
		if saveErr := s.store.SaveRun(ctx, record, result.Judgments); saveErr != nil {
			s.observeFailure()
			return nil, fmt.Errorf("save run: %w", saveErr)
		}
	}

	s.observeSuccess(run, time.Since(startTime))

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()

	return run, nil
}

// ExportCSV writes a run's judgment list to the configured output file.
func (s *JudgmentService) ExportCSV(run *RunResult, path string) error {
	if err := export.WriteCSVFile(path, run.Judgments); err != nil {
		return fmt.Errorf("export judgment list: %w", err)
	}
	s.logger.Info("Judgment list written",
		logger.String("path", path),
		logger.Int("judgments", len(run.Judgments)),
	)
	return nil
}

// LastRun returns the most recent run, if any.
func (s *JudgmentService) LastRun() (*RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastRun != nil
}

func (s *JudgmentService) observeSuccess(run *RunResult, took time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsTotal.WithLabelValues("success").Inc()
	s.metrics.RunDurationSeconds.Observe(took.Seconds())
	s.metrics.JudgmentsGenerated.Add(float64(run.Stats.TotalJudgments))
	s.metrics.RecordsSkipped.WithLabelValues(metrics.SkipKindResult).Add(float64(run.Stats.SkippedResults))
	s.metrics.RecordsSkipped.WithLabelValues(metrics.SkipKindEvent).Add(float64(run.Stats.SkippedEvents))
	s.metrics.CTRFallbacks.Add(float64(run.Stats.CTRFallbacks))
	s.metrics.ZeroExpectationPairs.Add(float64(run.Stats.ZeroExpectationPairs))
}

func (s *JudgmentService) observeFailure() {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsTotal.WithLabelValues("error").Inc()
}

// zeroExpectationPolicy maps the config value to the scorer policy. Invalid
// values were rejected at config validation, so the default is unreachable in
// practice.
func zeroExpectationPolicy(value string) coec.ZeroExpectationPolicy {
	if value == config.PolicyOmitPair {
		return coec.PolicyOmitPair
	}
	return coec.PolicyGradeZero
}
