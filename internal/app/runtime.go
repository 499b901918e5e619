// Package app wires configuration into the long-lived collaborators shared by
// the worker manager and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"financial-graphrag/internal/common/config"
	"financial-graphrag/internal/common/database"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/observability"
	"financial-graphrag/internal/engine"
	"financial-graphrag/internal/extraction"
	"financial-graphrag/internal/graphstore"
	"financial-graphrag/internal/grounding"
	"financial-graphrag/internal/intent"
	"financial-graphrag/internal/llm"
	"financial-graphrag/internal/nlp"
	"financial-graphrag/internal/querylog"
)

// Runtime holds everything built from one configuration.
type Runtime struct {
	Config        *config.Config
	Engine        *engine.Engine
	Analyzer      *extraction.Analyzer
	History       *querylog.Store
	Graph         *database.Neo4jClient
	Observability *observability.Observability

	closers []func(ctx context.Context) error
	log     logger.Logger
}

// Options tune how hard Build tries to reach backing services.
type Options struct {
	ConnectAttempts int
	ConnectDelay    time.Duration
}

// Build connects to Neo4j (required) and to Redis, Postgres, the NLP endpoints
// and the generation provider when configured. Optional services that cannot
// be reached are logged and left out.
func Build(ctx context.Context, cfg *config.Config, opts Options, log logger.Logger) (*Runtime, error) {
	if opts.ConnectAttempts <= 0 {
		opts.ConnectAttempts = 1
	}
	if opts.ConnectDelay <= 0 {
		opts.ConnectDelay = 2 * time.Second
	}

	rt := &Runtime{Config: cfg, log: log}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("OpenTelemetry exporter unavailable, stage metrics disabled", map[string]interface{}{"error": err})
	}
	rt.Observability = obs
	rt.closers = append(rt.closers, func(context.Context) error { obs.Shutdown(); return nil })

	graph, err := database.NewNeo4j(cfg.Neo4j)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, graph.Close)
	rt.Graph = graph
	if err := retryWithBackoff(ctx, func() error { return graph.Ping(ctx) }, opts.ConnectAttempts, opts.ConnectDelay, log, "Neo4j connection"); err != nil {
		rt.Close(ctx)
		return nil, err
	}
	log.Info("Neo4j connected successfully", map[string]interface{}{"uri": cfg.Neo4j.URI})

	var store graphstore.Store = graphstore.NewNeo4jStore(graph, config.GetDuration(cfg.Neo4j.QueryTimeout), log)
	if cfg.Cache.Enabled {
		store = rt.withCache(ctx, store, opts)
	}

	if cfg.QueryLog.Enabled {
		rt.History = rt.openHistory(ctx, opts)
	}

	gen, err := llm.New(ctx, cfg.LLM, log)
	if err != nil {
		log.Warn("Text generation unavailable, using rule-based strategies", map[string]interface{}{"error": err})
		gen = nil
	}

	var ner extraction.Recognizer
	if cfg.NLP.NERURL != "" {
		ner = nlp.NewNERClient(cfg.NLP.NERURL, config.GetDuration(cfg.NLP.Timeout), cfg.NLP.MaxRetries)
	}
	var scorer extraction.SentimentScorer
	if cfg.NLP.SentimentURL != "" {
		scorer = nlp.NewSentimentClient(cfg.NLP.SentimentURL, config.GetDuration(cfg.NLP.Timeout), cfg.NLP.MaxRetries)
	}

	rules := extraction.NewRuleBased(ner, nil, log)
	extractor := extraction.NewModelAssisted(rules, gen, log)

	engineOpts := engine.Options{
		Extractor:     extractor,
		Classifier:    intent.NewModelAssisted(intent.NewRuleBased(), gen, log),
		Store:         store,
		Responder:     grounding.New(gen, grounding.Options{Temperature: cfg.LLM.Temperature, MaxTokens: cfg.LLM.MaxTokens}, log),
		Observability: obs,
	}
	if rt.History != nil {
		engineOpts.History = rt.History
	}

	rt.Engine, err = engine.New(engineOpts, log)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	rt.Analyzer = extraction.NewAnalyzer(extractor, extraction.NewSentimentAnalyzer(scorer, cfg.NLP.MaxSentimentChars, log))

	log.Info("Query engine ready", map[string]interface{}{
		"llmProvider": cfg.LLM.Provider,
		"generation":  llm.Available(gen),
		"ner":         ner != nil,
		"sentiment":   scorer != nil,
		"cache":       cfg.Cache.Enabled,
		"queryLog":    rt.History != nil,
	})
	return rt, nil
}

func (rt *Runtime) withCache(ctx context.Context, store graphstore.Store, opts Options) graphstore.Store {
	cfg := rt.Config
	client, err := database.NewRedis(cfg.Database.Redis)
	if err == nil {
		err = retryWithBackoff(ctx, func() error { return client.Ping(ctx) }, opts.ConnectAttempts, opts.ConnectDelay, rt.log, "Redis connection")
	}
	if err != nil {
		rt.log.Warn("Result cache disabled", map[string]interface{}{"error": err})
		if client != nil {
			_ = client.Close()
		}
		return store
	}
	rt.closers = append(rt.closers, func(context.Context) error { return client.Close() })
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return graphstore.NewCachedStore(store, client.GetClient(), ttl, cfg.Cache.KeyPrefix, rt.log)
}

func (rt *Runtime) openHistory(ctx context.Context, opts Options) *querylog.Store {
	pg, err := database.NewPostgres(rt.Config.Database.Postgres)
	if err == nil {
		err = retryWithBackoff(ctx, func() error { return pg.Ping(ctx) }, opts.ConnectAttempts, opts.ConnectDelay, rt.log, "PostgreSQL connection")
	}
	var history *querylog.Store
	if err == nil {
		history = querylog.NewStore(pg.GetDB())
		err = history.EnsureSchema(ctx)
	}
	if err != nil {
		rt.log.Warn("Query log disabled", map[string]interface{}{"error": err})
		if pg != nil {
			_ = pg.Close()
		}
		return nil
	}
	rt.closers = append(rt.closers, func(context.Context) error { return pg.Close() })
	return history
}

// Close releases collaborators in reverse order of creation.
func (rt *Runtime) Close(ctx context.Context) {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			rt.log.Warn("Error during shutdown", map[string]interface{}{"error": err})
		}
	}
	rt.closers = nil
}

// retryWithBackoff runs operation up to maxRetries times, doubling the delay between attempts.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
