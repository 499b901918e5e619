// internal/workers/graphrag/ground-response/models.go
package groundresponse

import "financial-graphrag/internal/models"

// Input usually carries the graphResult produced by execute-graph-query; without
// it the query is executed again.
type Input struct {
	Query       string                `json:"query"`
	GraphResult *models.ExecuteResult `json:"graphResult,omitempty"`
}

type Output struct {
	ResponseText     string                  `json:"responseText"`
	Generated        bool                    `json:"generated"`
	GroundedResponse models.GroundedResponse `json:"groundedResponse"`
}
