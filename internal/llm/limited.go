package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financial-graphrag/internal/common/logger"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped generator and retries provider failures
// with exponential backoff. Timeouts apply per attempt.
type Limited struct {
	next       Generator
	limiter    *rate.Limiter
	maxRetries int
	timeout    time.Duration
	log        logger.Logger
}

type LimitOptions struct {
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration
}

func NewLimited(next Generator, opts LimitOptions, log logger.Logger) *Limited {
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		burst := opts.RequestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), burst)
	}
	return &Limited{
		next:       next,
		limiter:    limiter,
		maxRetries: opts.MaxRetries,
		timeout:    opts.Timeout,
		log:        log.With(map[string]interface{}{"component": "llm", "provider": next.Name()}),
	}
}

func (l *Limited) Name() string {
	return l.next.Name()
}

func (l *Limited) Complete(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, ctx.Err())
			}
		}

		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("%w: rate limiter: %v", ErrGenerationUnavailable, err)
			}
		}

		text, err := l.once(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, ErrEmptyCompletion) || ctx.Err() != nil {
			break
		}
		l.log.Debug("Generation attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	return "", lastErr
}

func (l *Limited) once(ctx context.Context, req Request) (string, error) {
	if l.timeout <= 0 {
		return l.next.Complete(ctx, req)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.next.Complete(attemptCtx, req)
}
