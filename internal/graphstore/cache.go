package graphstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/models"
)

const DefaultKeyPrefix = "graphrag:results:"

// CachedStore serves repeated queries from Redis. Cache failures never fail a query;
// they fall through to the wrapped store.
type CachedStore struct {
	next   Store
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedStore(next Store, client redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.With(map[string]interface{}{"component": "result-cache"}),
	}
}

func (c *CachedStore) Run(ctx context.Context, cypher string, params map[string]any) (models.ResultSet, error) {
	key, err := c.Key(cypher, params)
	if err != nil {
		logger.FromContext(ctx, c.logger).Warn("cannot derive cache key", map[string]interface{}{"error": err})
		return c.next.Run(ctx, cypher, params)
	}

	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}

	results, err := c.next.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(results); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.FromContext(ctx, c.logger).Warn("failed to cache graph results", map[string]interface{}{"error": err})
		}
	}
	return results, nil
}

func (c *CachedStore) lookup(ctx context.Context, key string) (models.ResultSet, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.FromContext(ctx, c.logger).Warn("result cache unavailable", map[string]interface{}{"error": err})
		return nil, false
	}

	var results models.ResultSet
	if err := json.Unmarshal(payload, &results); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.FromContext(ctx, c.logger).Warn("discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	if results == nil {
		results = models.ResultSet{}
	}
	return results, true
}

// Key is the prefix plus the SHA-256 of the query text and its parameters.
func (c *CachedStore) Key(cypher string, params map[string]any) (string, error) {
	raw, err := json.Marshal(struct {
		Cypher string         `json:"cypher"`
		Params map[string]any `json:"params"`
	}{cypher, params})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return c.prefix + hex.EncodeToString(sum[:]), nil
}
