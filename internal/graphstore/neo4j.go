package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"financial-graphrag/internal/common/database"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/models"
)

type executeFunc func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error)

// Neo4jStore runs read queries through the Neo4j driver.
type Neo4jStore struct {
	execute executeFunc
	timeout time.Duration
	logger  logger.Logger
}

// NewNeo4jStore routes every query to readers on the configured database.
// A zero timeout leaves deadlines to the caller's context.
func NewNeo4jStore(client *database.Neo4jClient, timeout time.Duration, log logger.Logger) *Neo4jStore {
	exec := func(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
		opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
		if client.Database != "" {
			opts = append(opts, neo4j.ExecuteQueryWithDatabase(client.Database))
		}
		return neo4j.ExecuteQuery(ctx, client.Driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	}
	return newNeo4jStore(exec, timeout, log)
}

func newNeo4jStore(exec executeFunc, timeout time.Duration, log logger.Logger) *Neo4jStore {
	return &Neo4jStore{
		execute: exec,
		timeout: timeout,
		logger:  log.With(map[string]interface{}{"component": "neo4j-store"}),
	}
}

func (s *Neo4jStore) Run(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.execute(ctx, cypher, params)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("graph query failed", map[string]interface{}{
			"error":  err,
			"params": params,
		})
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	records := make(models.ResultSet, 0, len(result.Records))
	for _, rec := range result.Records {
		row := make(models.Record, len(rec.Keys))
		for i, key := range rec.Keys {
			if i < len(rec.Values) {
				row[key] = normalize(rec.Values[i])
			}
		}
		records = append(records, row)
	}

	logger.FromContext(ctx, s.logger).Debug("graph query executed", map[string]interface{}{
		"records":     len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return records, nil
}

// normalize turns driver values into plain JSON-friendly values. Nodes and
// relationships collapse to their properties; temporal values become strings.
func normalize(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		return normalizeMap(val.Props)
	case neo4j.Relationship:
		props := normalizeMap(val.Props)
		props["type"] = val.Type
		return props
	case time.Time:
		return val.Format(time.RFC3339)
	case neo4j.Date:
		return val.Time().Format("2006-01-02")
	case neo4j.LocalDateTime:
		return val.Time().Format("2006-01-02T15:04:05")
	case neo4j.LocalTime:
		return val.Time().Format("15:04:05")
	case neo4j.Time:
		return val.Time().Format("15:04:05Z07:00")
	case neo4j.Duration:
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		return normalizeMap(val)
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
