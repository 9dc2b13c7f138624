package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/service"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/storage"
)

type fakeSource struct {
	queries []domain.QueryRecord
	events  []domain.ClickEvent
	err     error
}

func (f *fakeSource) FetchQueries(_ context.Context) ([]domain.QueryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.queries, nil
}

func (f *fakeSource) FetchEvents(_ context.Context) ([]domain.ClickEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeStore struct {
	saved     []storage.RunRecord
	judgments [][]domain.Judgment
	err       error
}

func (f *fakeStore) SaveRun(_ context.Context, run storage.RunRecord, judgments []domain.Judgment) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, run)
	f.judgments = append(f.judgments, judgments)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Judgments: config.JudgmentsConfig{
			ZeroExpectationPolicy: config.PolicyGradeZero,
			Percentiles:           []float64{50},
		},
	}
}

func testCorpus() ([]domain.QueryRecord, []domain.ClickEvent) {
	queries := []domain.QueryRecord{
		{QueryID: "q1", Query: "laptop", Results: []domain.ResultEntry{
			{Position: 1, DocID: "d1"},
			{Position: 2, DocID: "d2"},
		}},
		{QueryID: "q1", Query: "laptop", Results: []domain.ResultEntry{
			{Position: 1, DocID: "d1"},
			{Position: 2, DocID: "d2"},
		}},
	}
	events := []domain.ClickEvent{
		{QueryID: "q1", DocID: "d1", Position: 1},
		{QueryID: "q1", DocID: "d1", Position: 1},
	}
	return queries, events
}

func TestGenerate(t *testing.T) {
	queries, events := testCorpus()
	source := &fakeSource{queries: queries, events: events}
	store := &fakeStore{}

	svc := service.NewJudgmentService(source, store, nil, testConfig(), logger.NewNop())

	run, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 2, run.Stats.TotalJudgments)
	assert.Equal(t, 1, run.Stats.UniqueQueries)
	assert.Equal(t, 1, run.Stats.ZeroExpectationPairs)
	assert.Len(t, run.Judgments, 2)

	require.Len(t, store.saved, 1)
	assert.Equal(t, run.RunID, store.saved[0].ID)
	assert.Len(t, store.judgments[0], 2)

	last, ok := svc.LastRun()
	require.True(t, ok)
	assert.Equal(t, run.RunID, last.RunID)
}

func TestGenerate_NilStore(t *testing.T) {
	queries, events := testCorpus()
	source := &fakeSource{queries: queries, events: events}

	svc := service.NewJudgmentService(source, nil, nil, testConfig(), logger.NewNop())

	run, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.Stats.TotalJudgments)
}

func TestGenerate_FetchError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}

	svc := service.NewJudgmentService(source, nil, nil, testConfig(), logger.NewNop())

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch queries")

	_, ok := svc.LastRun()
	assert.False(t, ok, "failed run must not become the last run")
}

func TestGenerate_StoreError(t *testing.T) {
	queries, events := testCorpus()
	source := &fakeSource{queries: queries, events: events}
	store := &fakeStore{err: errors.New("disk full")}

	svc := service.NewJudgmentService(source, store, nil, testConfig(), logger.NewNop())

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save run")
}

func TestGenerate_EmptyCorpus(t *testing.T) {
	source := &fakeSource{}

	svc := service.NewJudgmentService(source, nil, nil, testConfig(), logger.NewNop())

	run, err := svc.Generate(context.Background())
	require.NoError(t, err, "empty corpus is a valid state, not an error")
	assert.Zero(t, run.Stats.TotalJudgments)
	assert.Empty(t, run.Judgments)
}

func TestGenerate_OmitPairPolicy(t *testing.T) {
	queries, events := testCorpus()
	source := &fakeSource{queries: queries, events: events}

	cfg := testConfig()
	cfg.Judgments.ZeroExpectationPolicy = config.PolicyOmitPair
	svc := service.NewJudgmentService(source, nil, nil, cfg, logger.NewNop())

	run, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Stats.TotalJudgments, "zero-expectation pair omitted")
	assert.Equal(t, 1, run.Stats.ZeroExpectationPairs, "condition still counted")
}

func TestExportCSV(t *testing.T) {
	queries, events := testCorpus()
	source := &fakeSource{queries: queries, events: events}

	svc := service.NewJudgmentService(source, nil, nil, testConfig(), logger.NewNop())

	run, err := svc.Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "judgments.csv")
	require.NoError(t, svc.ExportCSV(run, path))
	assert.FileExists(t, path)
}
