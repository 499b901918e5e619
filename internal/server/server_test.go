package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/graphstore"
	"financial-graphrag/internal/models"
)

type fakeEngine struct {
	groundedWith *models.ExecuteResult
}

func (f *fakeEngine) Execute(ctx context.Context, query string) *models.ExecuteResult {
	if strings.TrimSpace(query) == "" {
		return &models.ExecuteResult{Query: query, Intent: models.IntentCompanyInfo, Results: models.ResultSet{}, Error: "query text is empty"}
	}
	return &models.ExecuteResult{
		Query:       query,
		Intent:      models.IntentCompanyNews,
		Entities:    models.NewEntityBundle(),
		Results:     models.ResultSet{{"headline": "Apple beats estimates"}},
		ResultCount: 1,
	}
}

func (f *fakeEngine) Understand(ctx context.Context, query string) models.Understanding {
	return models.Understanding{Intent: models.IntentTrendingNews, Entities: models.NewEntityBundle(), OriginalQuery: query}
}

func (f *fakeEngine) Ground(ctx context.Context, query string, result *models.ExecuteResult) models.GroundedResponse {
	f.groundedWith = result
	return models.GroundedResponse{Query: query, Intent: models.IntentCompanyNews, ResponseText: "answer"}
}

func (f *fakeEngine) Stats(ctx context.Context) graphstore.Stats {
	return graphstore.Stats{Companies: 12}
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeArticle(ctx context.Context, article models.Article) models.ArticleAnalysis {
	return models.ArticleAnalysis{Entities: models.NewEntityBundle(), Sentiment: models.NeutralSentiment, Events: []models.Event{}}
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestQuery(t *testing.T) {
	h := New(&fakeEngine{}, nil, nil, logger.NewTestLogger(t)).Routes()

	rec := do(t, h, http.MethodPost, "/api/query", `{"query": "News on Apple"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.ExecuteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.IntentCompanyNews, result.Intent)
	assert.Equal(t, 1, result.ResultCount)
}

func TestQuery_EmptyQueryReportsErrorField(t *testing.T) {
	h := New(&fakeEngine{}, nil, nil, logger.NewNoOpLogger()).Routes()

	rec := do(t, h, http.MethodPost, "/api/query", `{"query": ""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"query text is empty"`)
}

func TestQuery_RejectsBadRequests(t *testing.T) {
	h := New(&fakeEngine{}, nil, nil, logger.NewNoOpLogger()).Routes()

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/query", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/query", "{not json").Code)
}

func TestGround(t *testing.T) {
	engine := &fakeEngine{}
	h := New(engine, nil, nil, logger.NewNoOpLogger()).Routes()

	rec := do(t, h, http.MethodPost, "/api/ground", `{"graph_result": {"query": "News on Apple", "intent": "company_news", "results": [], "result_count": 0}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, engine.groundedWith)
	assert.Equal(t, "News on Apple", engine.groundedWith.Query)
	assert.Contains(t, rec.Body.String(), `"response_text":"answer"`)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/ground", `{}`).Code)
}

func TestUnderstand(t *testing.T) {
	h := New(&fakeEngine{}, nil, nil, logger.NewNoOpLogger()).Routes()

	rec := do(t, h, http.MethodPost, "/api/understand", `{"query": "What's hot?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"intent":"trending_news"`)
}

func TestAnalyzeArticle(t *testing.T) {
	withoutAnalyzer := New(&fakeEngine{}, nil, nil, logger.NewNoOpLogger()).Routes()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, withoutAnalyzer, http.MethodPost, "/api/analyze-article", `{}`).Code)

	h := New(&fakeEngine{}, fakeAnalyzer{}, nil, logger.NewNoOpLogger()).Routes()
	rec := do(t, h, http.MethodPost, "/api/analyze-article", `{"headline": "Apple to acquire startup"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"neutral"`)
}

func TestHealth(t *testing.T) {
	healthy := New(&fakeEngine{}, nil, pinger{}, logger.NewNoOpLogger()).Routes()
	rec := do(t, healthy, http.MethodGet, "/health?detail=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"companies":12`)

	down := New(&fakeEngine{}, nil, pinger{err: errors.New("neo4j unreachable")}, logger.NewNoOpLogger()).Routes()
	rec = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := New(&fakeEngine{}, nil, nil, logger.NewNoOpLogger()).Routes()

	rec := do(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
