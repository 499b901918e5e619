// internal/common/camunda/worker.go
package camunda

import (
	"context"

	"financial-graphrag/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler completes or fails the job itself; a returned error is only logged.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

type JobHandlerFunc func(client worker.JobClient, job entities.Job) error

func (f JobHandlerFunc) Handle(client worker.JobClient, job entities.Job) error {
	return f(client, job)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// WorkerOptions mirrors the per-task worker settings from configuration.
type WorkerOptions struct {
	MaxJobsActive int
	Concurrency   int
	Timeout       int // milliseconds
}

func NewWorker(client zbc.Client, taskType string, opts WorkerOptions, handler JobHandler, log logger.Logger) *CamundaWorker {
	log = log.With(map[string]interface{}{"taskType": taskType})

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(jc worker.JobClient, job entities.Job) {
			if err := handler.Handle(jc, job); err != nil {
				log.Error("Handler returned error", map[string]interface{}{
					"jobKey": job.Key,
					"error":  err.Error(),
				})
			}
		}).
		MaxJobsActive(opts.MaxJobsActive)

	if opts.Concurrency > 0 {
		builder = builder.Concurrency(opts.Concurrency)
	}
	if opts.Timeout > 0 {
		builder = builder.Timeout(durationMillis(opts.Timeout))
	}

	w := &CamundaWorker{
		worker:   builder.Open(),
		logger:   log,
		taskType: taskType,
	}
	w.logger.Info("worker started", map[string]interface{}{"maxJobsActive": opts.MaxJobsActive})
	return w
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the job worker and waits for in-flight jobs; the shared client is left open.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)
	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker stop timed out", nil)
	}
}
