// Package engine runs the query pipeline: extraction, intent classification,
// template resolution, graph retrieval and optional grounded generation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "financial-graphrag/internal/common/errors"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/common/observability"
	"financial-graphrag/internal/extraction"
	"financial-graphrag/internal/graphcontext"
	"financial-graphrag/internal/graphquery"
	"financial-graphrag/internal/graphstore"
	"financial-graphrag/internal/grounding"
	"financial-graphrag/internal/intent"
	"financial-graphrag/internal/models"
	"financial-graphrag/internal/querylog"
)

// ErrEmptyQuery is reported in ExecuteResult.Error for blank input.
const ErrEmptyQuery = "query text is empty"

// Options carries the collaborators. Only Store is required; the rest default to
// rule-based strategies, a generator-less responder and no query log.
type Options struct {
	Extractor     extraction.Extractor
	Classifier    intent.Classifier
	Resolver      *graphquery.Resolver
	Store         graphstore.Store
	Responder     *grounding.Responder
	History       querylog.Recorder
	Observability *observability.Observability
}

// Engine is safe for concurrent use when its collaborators are.
type Engine struct {
	extractor  extraction.Extractor
	classifier intent.Classifier
	resolver   *graphquery.Resolver
	store      graphstore.Store
	responder  *grounding.Responder
	history    querylog.Recorder
	obs        *observability.Observability
	log        logger.Logger
}

func New(opts Options, log logger.Logger) (*Engine, error) {
	if opts.Store == nil {
		return nil, apperrors.NewConfigInvalidError("graph store is required")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Engine{
		extractor:  opts.Extractor,
		classifier: opts.Classifier,
		resolver:   opts.Resolver,
		store:      opts.Store,
		responder:  opts.Responder,
		history:    opts.History,
		obs:        opts.Observability,
		log:        log.With(map[string]interface{}{"component": "engine"}),
	}
	if e.extractor == nil {
		e.extractor = extraction.NewRuleBased(nil, nil, log)
	}
	if e.classifier == nil {
		e.classifier = intent.NewRuleBased()
	}
	if e.resolver == nil {
		e.resolver = graphquery.NewResolver()
	}
	if e.responder == nil {
		e.responder = grounding.New(nil, grounding.Options{}, log)
	}
	if e.obs == nil {
		e.obs = observability.NewNoop()
	}
	return e, nil
}

// Understand extracts entities and classifies the query without touching the graph.
func (e *Engine) Understand(ctx context.Context, query string) models.Understanding {
	ctx, span := e.obs.StartSpan(ctx, "understand")
	defer span.End()

	start := time.Now()
	entities := e.extractor.Extract(ctx, query)
	e.obs.RecordStage(ctx, "extract", "ok", time.Since(start))

	start = time.Now()
	in := e.classifier.Classify(ctx, query, entities)
	if !in.Valid() {
		in = models.DefaultIntent
	}
	e.obs.RecordStage(ctx, "classify", "ok", time.Since(start))

	span.SetAttributes(attribute.String("intent", string(in)))
	return models.Understanding{
		Intent:        in,
		Entities:      entities,
		OriginalQuery: query,
	}
}

// Execute never returns an error: failures are reported in the result's Error
// field together with an empty result set.
func (e *Engine) Execute(ctx context.Context, query string) (result *models.ExecuteResult) {
	requestID := uuid.NewString()
	ctx = logger.IntoContext(ctx, map[string]interface{}{"request_id": requestID})
	log := logger.FromContext(ctx, e.log)

	ctx, span := e.obs.StartSpan(ctx, "execute", attribute.String("request_id", requestID))
	defer span.End()

	result = &models.ExecuteResult{
		RequestID: requestID,
		Query:     query,
		Intent:    models.DefaultIntent,
		Entities:  models.NewEntityBundle(),
		Results:   models.ResultSet{},
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			log.Error("Query pipeline panicked", map[string]interface{}{"error": err.Error()})
			result.Results = models.ResultSet{}
			result.ResultCount = 0
			result.Error = err.Error()
		}
		e.finish(ctx, log, result, time.Since(start))
		if result.Error != "" {
			span.SetStatus(codes.Error, result.Error)
		}
	}()

	if strings.TrimSpace(query) == "" {
		result.Error = ErrEmptyQuery
		return result
	}

	u := e.Understand(ctx, query)
	result.Intent = u.Intent
	result.Entities = u.Entities

	spec := e.resolver.Resolve(u.Intent, u.Entities, query)
	result.QuerySpec = &spec
	log.Debug("Resolved graph query", map[string]interface{}{
		"intent":      spec.Intent,
		"template_id": spec.TemplateID,
		"params":      spec.Params,
	})

	retrieveStart := time.Now()
	rows, err := graphstore.RunSpec(ctx, e.store, spec)
	if err != nil {
		e.obs.RecordStage(ctx, "retrieve", "error", time.Since(retrieveStart))
		stdErr := retrievalError(spec.TemplateID, err)
		log.Error("Graph retrieval failed", map[string]interface{}{
			"template_id": spec.TemplateID,
			"error":       err,
		})
		result.Error = stdErr.Error()
		return result
	}
	e.obs.RecordStage(ctx, "retrieve", "ok", time.Since(retrieveStart))

	if rows == nil {
		rows = models.ResultSet{}
	}
	result.Results = rows
	result.ResultCount = len(rows)
	return result
}

func retrievalError(templateID models.TemplateID, err error) *apperrors.StandardError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewRetrievalTimeoutError(string(templateID))
	}
	return apperrors.NewRetrievalFailedError(string(templateID), err)
}

func (e *Engine) finish(ctx context.Context, log logger.Logger, result *models.ExecuteResult, elapsed time.Duration) {
	label := string(result.Intent)
	metrics.QueriesTotal.WithLabelValues(label).Inc()
	metrics.QueryDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	metrics.QueryResults.WithLabelValues(label).Observe(float64(result.ResultCount))
	if result.Error != "" {
		metrics.QueryErrors.WithLabelValues(label).Inc()
	}

	if e.history != nil {
		if err := e.history.Record(ctx, result); err != nil {
			log.Warn("Failed to record query history", map[string]interface{}{
				"error": apperrors.NewQueryLogFailedError(err).Error(),
			})
		}
	}

	log.Info("Query executed", map[string]interface{}{
		"intent":       result.Intent,
		"result_count": result.ResultCount,
		"duration_ms":  elapsed.Milliseconds(),
		"failed":       result.Error != "",
	})
}

// Ground serializes an execution result and answers the query from it. A nil
// result executes the query first.
func (e *Engine) Ground(ctx context.Context, query string, result *models.ExecuteResult) models.GroundedResponse {
	if result == nil {
		result = e.Execute(ctx, query)
	}

	ctx, span := e.obs.StartSpan(ctx, "ground", attribute.String("intent", string(result.Intent)))
	defer span.End()

	start := time.Now()
	graphContext := graphcontext.Serialize(result.Intent, result.Results)
	resp := e.responder.Ground(ctx, query, graphContext)
	status := "generated"
	if !resp.Generated {
		status = "fallback"
	}
	e.obs.RecordStage(ctx, "ground", status, time.Since(start))

	resp.Intent = result.Intent
	resp.ResultCount = result.ResultCount
	resp.QuerySpec = result.QuerySpec
	return resp
}

// Ask executes the query and grounds the answer in one call.
func (e *Engine) Ask(ctx context.Context, query string) (*models.ExecuteResult, models.GroundedResponse) {
	result := e.Execute(ctx, query)
	return result, e.Ground(ctx, query, result)
}

// Stats counts the graph's nodes and relationships.
func (e *Engine) Stats(ctx context.Context) graphstore.Stats {
	return graphstore.CollectStats(ctx, e.store)
}
