package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/config"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/handler"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/service"
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
	return f.events, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Judgments: config.JudgmentsConfig{
			ZeroExpectationPolicy: config.PolicyGradeZero,
			Percentiles:           []float64{50, 90},
		},
	}
}

func setupRouter(src service.DataSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	svc := service.NewJudgmentService(src, nil, nil, testConfig(), logger.NewNop())
	h := handler.NewJudgmentHandler(svc, logger.NewNop())

	r.POST("/api/v1/judgments/generate", h.Generate)
	r.GET("/api/v1/judgments/stats", h.Stats)

	return r
}

func TestGenerate_ReturnsRunSummary(t *testing.T) {
	src := &fakeSource{
		queries: []domain.QueryRecord{
			{
				QueryID: "q1",
				Query:   "laptop",
				Results: []domain.ResultEntry{
					{Position: 1, DocID: "d1"},
					{Position: 2, DocID: "d2"},
				},
			},
		},
		events: []domain.ClickEvent{
			{QueryID: "q1", DocID: "d1", Position: 1},
		},
	}

	r := setupRouter(src)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/judgments/generate", http.NoBody)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var run service.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 2, run.Stats.TotalJudgments)
	assert.Equal(t, 1, run.Stats.UniqueQueries)
}

func TestGenerate_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("elasticsearch unreachable")}

	r := setupRouter(src)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/judgments/generate", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "GENERATION_FAILED")
}

func TestStats_NoRunYet(t *testing.T) {
	r := setupRouter(&fakeSource{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/judgments/stats", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_RUN")
}

func TestStats_AfterGenerate(t *testing.T) {
	src := &fakeSource{
		queries: []domain.QueryRecord{
			{
				QueryID: "q1",
				Query:   "laptop",
				Results: []domain.ResultEntry{{Position: 1, DocID: "d1"}},
			},
		},
		events: []domain.ClickEvent{
			{QueryID: "q1", DocID: "d1", Position: 1},
		},
	}

	r := setupRouter(src)

	gen := httptest.NewRecorder()
	r.ServeHTTP(gen, httptest.NewRequest(http.MethodPost, "/api/v1/judgments/generate", http.NoBody))
	require.Equal(t, http.StatusOK, gen.Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/judgments/stats", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)

	var generated, cached service.RunResult
	require.NoError(t, json.Unmarshal(gen.Body.Bytes(), &generated))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cached))
	assert.Equal(t, generated.RunID, cached.RunID)
}
