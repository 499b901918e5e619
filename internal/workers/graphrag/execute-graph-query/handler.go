// internal/workers/graphrag/execute-graph-query/handler.go
package executegraphquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "financial-graphrag/internal/common/errors"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/common/validation"
	"financial-graphrag/internal/engine"
	"financial-graphrag/internal/models"
)

const TaskType = "execute-graph-query"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string", "minLength": 1, "maxLength": 2000},
		"requestId": {"type": "string"}
	}
}`)

// Executor is the part of the query engine this worker needs.
type Executor interface {
	Execute(ctx context.Context, query string) *models.ExecuteResult
}

type Handler struct {
	config       *Config
	engine       Executor
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, engine Executor, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx = logger.IntoContext(ctx, map[string]interface{}{"jobKey": job.Key})

	output, err := h.execute(ctx, []byte(job.Variables))
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		code := string(apperrors.AsStandardError(err).Code)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

func (h *Handler) execute(ctx context.Context, variables []byte) (*Output, error) {
	if res := inputSchema.ValidateJSON(string(variables)); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Error())
	}
	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return h.Execute(ctx, &input)
}

// Execute runs the query. A retrieval failure becomes a job error only when
// FailOnRetrievalError is set; otherwise it is reported in the output.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result := h.engine.Execute(ctx, input.Query)
	switch {
	case result.Error == engine.ErrEmptyQuery:
		return nil, apperrors.NewInvalidQueryError(result.Error)
	case result.Error != "" && result.QuerySpec == nil:
		// the pipeline failed before a graph query was chosen
		return nil, apperrors.NewInternalError(errors.New(result.Error)).
			WithMetadata("requestId", input.RequestId)
	}
	if result.Error != "" && h.config.FailOnRetrievalError {
		return nil, apperrors.NewRetrievalFailedError(string(result.QuerySpec.TemplateID), errors.New(result.Error)).
			WithMetadata("requestId", input.RequestId)
	}

	h.logger.Info("graph query executed", map[string]interface{}{
		"requestId":   input.RequestId,
		"intent":      result.Intent,
		"resultCount": result.ResultCount,
	})

	return &Output{
		Intent:      string(result.Intent),
		ResultCount: result.ResultCount,
		HasResults:  result.ResultCount > 0,
		QueryError:  result.Error,
		GraphResult: result,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
