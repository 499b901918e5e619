// Package graphstore runs resolved Cypher queries against the knowledge graph.
package graphstore

import (
	"context"
	"errors"

	"financial-graphrag/internal/models"
)

// ErrRetrieval is wrapped by every failure to reach or query the graph.
var ErrRetrieval = errors.New("RETRIEVAL_FAILED")

// Store executes a parameterized graph query.
type Store interface {
	Run(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error)

func (f StoreFunc) Run(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
	return f(ctx, cypher, params)
}

// RunSpec executes a resolved query spec.
func RunSpec(ctx context.Context, s Store, spec models.QuerySpec) (models.ResultSet, error) {
	return s.Run(ctx, spec.Cypher, spec.BoundParams())
}
