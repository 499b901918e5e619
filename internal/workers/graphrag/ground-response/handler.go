// internal/workers/graphrag/ground-response/handler.go
package groundresponse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "financial-graphrag/internal/common/errors"
	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/models"
)

const TaskType = "ground-response"

type Grounder interface {
	Ground(ctx context.Context, query string, result *models.ExecuteResult) models.GroundedResponse
}

type Handler struct {
	config       *Config
	engine       Grounder
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, engine Grounder, log logger.Logger) *Handler {
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

	var input Input
	var err error
	if uerr := json.Unmarshal([]byte(job.Variables), &input); uerr != nil {
		err = apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", uerr))
	}

	var output *Output
	if err == nil {
		output, err = h.Execute(ctx, &input)
	}
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

// Execute never fails on generation problems; the grounded response falls back
// to the raw graph context instead.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" && input.GraphResult != nil {
		query = input.GraphResult.Query
	}
	if query == "" {
		return nil, apperrors.NewInvalidInputError("query is required")
	}

	resp := h.engine.Ground(ctx, query, input.GraphResult)

	h.logger.Info("response grounded", map[string]interface{}{
		"intent":      resp.Intent,
		"generated":   resp.Generated,
		"resultCount": resp.ResultCount,
	})

	return &Output{
		ResponseText:     resp.ResponseText,
		Generated:        resp.Generated,
		GroundedResponse: resp,
	}, nil
}
