package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/graphcontext"
	"financial-graphrag/internal/graphquery"
	"financial-graphrag/internal/graphstore"
	"financial-graphrag/internal/grounding"
	"financial-graphrag/internal/intent"
	"financial-graphrag/internal/llm"
	"financial-graphrag/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	cypher string
	params map[string]any
	rows   models.ResultSet
	err    error
}

func (s *fakeStore) Run(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cypher, s.params = cypher, params
	return s.rows, s.err
}

type fakeHistory struct {
	recorded []*models.ExecuteResult
	err      error
}

func (h *fakeHistory) Record(ctx context.Context, result *models.ExecuteResult) error {
	h.recorded = append(h.recorded, result)
	return h.err
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts, logger.NewTestLogger(t))
	require.NoError(t, err)
	return e
}

func TestExecute_NewsAboutApple(t *testing.T) {
	store := &fakeStore{rows: models.ResultSet{{"headline": "Apple beats estimates", "source": "Reuters"}}}
	e := newTestEngine(t, Options{Store: store})

	result := e.Execute(context.Background(), "What's the latest news about Apple?")

	assert.Empty(t, result.Error)
	assert.NotEmpty(t, result.RequestID)
	assert.Contains(t, result.Entities.Tickers, "AAPL")
	assert.Equal(t, models.IntentCompanyNews, result.Intent)
	require.NotNil(t, result.QuerySpec)
	assert.Equal(t, graphquery.TemplateCompanyNews, result.QuerySpec.TemplateID)
	assert.Equal(t, 20, result.QuerySpec.Limit)
	assert.Equal(t, "AAPL", store.params["symbol"])
	assert.Equal(t, 1, result.ResultCount)
}

func TestExecute_SentimentForTSLA(t *testing.T) {
	store := &fakeStore{rows: models.ResultSet{}}
	e := newTestEngine(t, Options{Store: store})

	result := e.Execute(context.Background(), "What's the sentiment for TSLA?")

	assert.Equal(t, models.IntentSentimentAnalysis, result.Intent)
	assert.Equal(t, graphquery.TemplateCompanySentiment, result.QuerySpec.TemplateID)
	assert.Equal(t, "TSLA", store.params["symbol"])
	assert.Contains(t, store.cypher, "n.sentiment_label AS sentiment")
	assert.Empty(t, result.Error)
	assert.NotNil(t, result.Results)
}

func TestExecute_TechnologySector(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(t, Options{Store: store})

	result := e.Execute(context.Background(), "Show me companies in the technology sector")

	assert.Equal(t, models.IntentSectorCompanies, result.Intent)
	assert.Empty(t, result.Entities.Tickers)
	assert.Equal(t, graphquery.TemplateSectorCompanies, result.QuerySpec.TemplateID)
	assert.Equal(t, "Technology", store.params["sector"])
	assert.Equal(t, models.ResultSet{}, result.Results)
}

func TestExecute_RetrievalFailureIsReported(t *testing.T) {
	store := &fakeStore{err: graphstore.ErrRetrieval}
	history := &fakeHistory{}
	e := newTestEngine(t, Options{Store: store, History: history})

	result := e.Execute(context.Background(), "Tell me about NVDA")

	assert.Equal(t, models.ResultSet{}, result.Results)
	assert.Zero(t, result.ResultCount)
	assert.NotEmpty(t, result.Error)
	assert.Contains(t, result.Error, "RETRIEVAL_FAILED")
	assert.Equal(t, models.IntentCompanyInfo, result.Intent)
	require.Len(t, history.recorded, 1)
	assert.Same(t, result, history.recorded[0])
}

func TestExecute_RetrievalTimeout(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	e := newTestEngine(t, Options{Store: store})

	result := e.Execute(context.Background(), "Market overview")

	assert.Contains(t, result.Error, "RETRIEVAL_TIMEOUT")
	assert.Empty(t, result.Results)
}

func TestExecute_EmptyQuery(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(t, Options{Store: store})

	for _, q := range []string{"", "   \n\t"} {
		result := e.Execute(context.Background(), q)
		assert.Equal(t, ErrEmptyQuery, result.Error)
		assert.Equal(t, models.IntentCompanyInfo, result.Intent)
		assert.NotNil(t, result.Entities)
		assert.Nil(t, result.QuerySpec)
		assert.Empty(t, result.Results)
	}
	assert.Empty(t, store.cypher)
}

func TestExecute_PanickingStoreDoesNotEscape(t *testing.T) {
	store := graphstore.StoreFunc(func(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
		panic("driver bug")
	})
	e := newTestEngine(t, Options{Store: store})

	var result *models.ExecuteResult
	assert.NotPanics(t, func() {
		result = e.Execute(context.Background(), "Trending stocks")
	})
	require.NotNil(t, result)
	assert.Contains(t, result.Error, "driver bug")
	assert.Empty(t, result.Results)
}

func TestExecute_HistoryFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{rows: models.ResultSet{{"sector": "Energy", "company_count": int64(3)}}}
	e := newTestEngine(t, Options{Store: store, History: &fakeHistory{err: errors.New("db down")}})

	result := e.Execute(context.Background(), "Market overview")

	assert.Empty(t, result.Error)
	assert.Equal(t, 1, result.ResultCount)
}

func TestGround_WithoutGeneratorFallsBackToContext(t *testing.T) {
	store := &fakeStore{rows: models.ResultSet{{"headline": "Tesla recalls vehicles", "source": "AP", "sentiment": "negative"}}}
	e := newTestEngine(t, Options{Store: store})

	result := e.Execute(context.Background(), "Latest news on TSLA")
	resp := e.Ground(context.Background(), "Latest news on TSLA", result)

	expectedContext := graphcontext.Serialize(models.IntentCompanyNews, result.Results)
	assert.False(t, resp.Generated)
	assert.True(t, strings.HasPrefix(resp.ResponseText, grounding.UnavailableNotice))
	assert.Contains(t, resp.ResponseText, expectedContext)
	assert.Equal(t, expectedContext, resp.Context)
	assert.Equal(t, models.IntentCompanyNews, resp.Intent)
	assert.Equal(t, 1, resp.ResultCount)
	assert.Equal(t, result.QuerySpec, resp.QuerySpec)
}

func TestGround_EmptyResultsStillAnswer(t *testing.T) {
	e := newTestEngine(t, Options{Store: &fakeStore{err: graphstore.ErrRetrieval}})

	resp := e.Ground(context.Background(), "News about Apple", nil)

	assert.NotEmpty(t, resp.ResponseText)
	assert.Contains(t, resp.ResponseText, graphcontext.NoData)
}

func TestAsk_UsesGenerator(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "Apple stock rose 2% today.", nil
	})
	store := &fakeStore{rows: models.ResultSet{{"symbol": "AAPL", "name": "Apple Inc.", "price": 190.0}}}
	e := newTestEngine(t, Options{
		Store:     store,
		Responder: grounding.New(gen, grounding.Options{}, logger.NewNoOpLogger()),
	})

	result, resp := e.Ask(context.Background(), "Tell me about Apple")

	assert.Equal(t, models.IntentCompanyInfo, result.Intent)
	assert.True(t, resp.Generated)
	assert.Equal(t, "Apple stock rose 2% today.", resp.ResponseText)
	assert.Contains(t, resp.Context, "Company: Apple Inc. (AAPL)")
}

func TestUnderstand(t *testing.T) {
	e := newTestEngine(t, Options{Store: &fakeStore{}})

	u := e.Understand(context.Background(), "Any merger news for facebook?")

	assert.Equal(t, "Any merger news for facebook?", u.OriginalQuery)
	assert.Contains(t, u.Entities.Tickers, "META")
	assert.Contains(t, u.Entities.Companies, "Facebook")
	assert.Equal(t, models.IntentCompanyNews, u.Intent)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Options{}, nil)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	store := graphstore.StoreFunc(func(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
		return models.ResultSet{{"count": int64(5)}}, nil
	})
	e := newTestEngine(t, Options{Store: store})

	stats := e.Stats(context.Background())

	assert.Equal(t, int64(5), stats.Companies)
	assert.Equal(t, int64(5), stats.Relationships)
}

func TestExecute_FallbackLogsCarryRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewZapAdapter(zap.New(core))
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("503 service unavailable")
	})

	e, err := New(Options{
		Store:      &fakeStore{},
		Classifier: intent.NewModelAssisted(nil, gen, log),
	}, log)
	require.NoError(t, err)

	result := e.Execute(context.Background(), "What's the latest news about Apple?")
	assert.Equal(t, models.IntentCompanyNews, result.Intent)

	fallbacks := logs.FilterMessage("Model-assisted classification failed, using rules").All()
	require.Len(t, fallbacks, 1)
	fields := fallbacks[0].ContextMap()
	assert.Equal(t, result.RequestID, fields["request_id"])
	assert.Equal(t, "intent.model", fields["component"])
}
