// internal/workers/graphrag/execute-graph-query/config.go
package executegraphquery

import (
	"time"

	"financial-graphrag/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// FailOnRetrievalError fails the job (with retries) instead of completing it
	// with an error variable when the graph cannot be queried.
	FailOnRetrievalError bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 30 * time.Second}
	if cfg == nil {
		return c
	}
	wc := config.GetWorkerConfig(cfg, TaskType)
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.FailOnRetrievalError = wc.MaxRetries > 0
	return c
}
