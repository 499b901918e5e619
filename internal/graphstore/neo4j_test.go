package graphstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/models"
)

func TestNeo4jStore_Run(t *testing.T) {
	published := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	var gotCypher string
	var gotParams map[string]any
	exec := func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
		gotCypher, gotParams = cypher, params
		keys := []string{"symbol", "published_at", "company"}
		return &neo4j.EagerResult{
			Keys: keys,
			Records: []*neo4j.Record{{
				Keys: keys,
				Values: []any{
					"AAPL",
					published,
					neo4j.Node{Labels: []string{"Company"}, Props: map[string]any{"name": "Apple Inc.", "price": 189.5}},
				},
			}},
		}, nil
	}

	store := newNeo4jStore(exec, time.Second, logger.NewTestLogger(t))
	rows, err := store.Run(context.Background(), "MATCH (c:Company {symbol: $symbol}) RETURN c", map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)

	assert.Equal(t, "MATCH (c:Company {symbol: $symbol}) RETURN c", gotCypher)
	assert.Equal(t, "AAPL", gotParams["symbol"])
	require.Len(t, rows, 1)
	assert.Equal(t, models.Record{
		"symbol":       "AAPL",
		"published_at": "2024-03-01T14:30:00Z",
		"company":      map[string]any{"name": "Apple Inc.", "price": 189.5},
	}, rows[0])
}

func TestNeo4jStore_RunWrapsRetrievalError(t *testing.T) {
	exec := func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
		return nil, errors.New("ConnectivityError: unable to retrieve routing table")
	}

	store := newNeo4jStore(exec, 0, logger.NewNoOpLogger())
	rows, err := store.Run(context.Background(), "RETURN 1", nil)

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.Contains(t, err.Error(), "routing table")
}

func TestNeo4jStore_RunAppliesTimeout(t *testing.T) {
	exec := func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return &neo4j.EagerResult{}, nil
	}

	rows, err := newNeo4jStore(exec, time.Second, logger.NewNoOpLogger()).Run(context.Background(), "RETURN 1", nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalize(t *testing.T) {
	rel := neo4j.Relationship{Type: "MENTIONS", Props: map[string]any{"sentiment": "positive"}}
	date := neo4j.Date(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, map[string]any{"type": "MENTIONS", "sentiment": "positive"}, normalize(rel))
	assert.Equal(t, "2024-05-02", normalize(date))
	assert.Equal(t, []any{"a", int64(2)}, normalize([]any{"a", int64(2)}))
	assert.Equal(t, int64(7), normalize(int64(7)))
	assert.Nil(t, normalize(nil))
}
