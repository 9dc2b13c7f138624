// Package storage persists judgment runs to PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Postgres driver.
	_ "github.com/lib/pq"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
)

const (
	// columnsPerRow is the number of columns inserted per judgment row.
	columnsPerRow = 5

	// insertBatchSize is the maximum number of rows per INSERT statement.
	insertBatchSize = 200
)

// RunRecord describes one completed pipeline run.
type RunRecord struct {
	ID          string
	GeneratedAt time.Time
	Stats       domain.SummaryStatistics
}

// Store writes judgment runs to PostgreSQL. Each run is one row in
// judgment_runs plus its judgments, inserted in multi-row batches.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string, log logger.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// NewStore wraps an existing database handle. Used by tests.
func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// Ping checks database connectivity. Used by the readiness probe.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one run and its judgment list in a single transaction.
func (s *Store) SaveRun(ctx context.Context, run RunRecord, judgments []domain.Judgment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := s.insertRun(ctx, tx, run); err != nil {
		_ = tx.Rollback()
		return err
	}

	for start := 0; start < len(judgments); start += insertBatchSize {
		end := min(start+insertBatchSize, len(judgments))
		if err := s.batchInsert(ctx, tx, run.ID, judgments[start:end]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.log.Info("Saved judgment run",
		logger.String("run_id", run.ID),
		logger.Int("judgments", len(judgments)),
	)
	return nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, run RunRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO judgment_runs (id, generated_at, total_judgments, unique_queries, `+
			`unique_documents, zero_expectation_pairs, ctr_fallbacks, skipped_results, skipped_events) `+
			`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.GeneratedAt,
		run.Stats.TotalJudgments, run.Stats.UniqueQueries, run.Stats.UniqueDocuments,
		run.Stats.ZeroExpectationPairs, run.Stats.CTRFallbacks,
		run.Stats.SkippedResults, run.Stats.SkippedEvents,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *Store) batchInsert(ctx context.Context, tx *sql.Tx, runID string, judgments []domain.Judgment) error {
	if len(judgments) == 0 {
		return nil
	}

	args := make([]any, 0, len(judgments)*columnsPerRow)
	var sb strings.Builder

	sb.WriteString("INSERT INTO judgments (run_id, qid, docid, grade, query) VALUES ")

	for i := range judgments {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValueTuple(&sb, i)
		args = append(args,
			runID, judgments[i].QueryID, judgments[i].DocID,
			judgments[i].Grade, judgments[i].Query,
		)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("exec batch insert: %w", err)
	}
	return nil
}

// Placeholder column offsets within a single row tuple (1-indexed for
// PostgreSQL $N params).
const (
	colRunID = 1
	colQID   = 2
	colDocID = 3
	colGrade = 4
	colQuery = 5
)

// writeValueTuple writes a single ($1, ..., $5) placeholder tuple to the
// builder, offset by the row index.
func writeValueTuple(sb *strings.Builder, rowIndex int) {
	base := rowIndex * columnsPerRow
	fmt.Fprintf(sb, "($%d, $%d, $%d, $%d, $%d)",
		base+colRunID, base+colQID, base+colDocID, base+colGrade, base+colQuery,
	)
}
