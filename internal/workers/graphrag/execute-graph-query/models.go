// internal/workers/graphrag/execute-graph-query/models.go
package executegraphquery

import "financial-graphrag/internal/models"

type Input struct {
	Query     string `json:"query"`
	RequestId string `json:"requestId,omitempty"`
}

// Output exposes intent and counts at the top level so gateways can branch on them.
type Output struct {
	Intent      string                `json:"intent"`
	ResultCount int                   `json:"resultCount"`
	HasResults  bool                  `json:"hasResults"`
	QueryError  string                `json:"queryError,omitempty"`
	GraphResult *models.ExecuteResult `json:"graphResult"`
}
