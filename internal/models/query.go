package models

// TemplateID names one parameterized graph query template.
type TemplateID string

// QuerySpec is a resolved graph query. User-derived values only ever travel in Params.
type QuerySpec struct {
	Intent     Intent            `json:"intent"`
	TemplateID TemplateID        `json:"template_id"`
	Cypher     string            `json:"cypher"`
	Params     map[string]string `json:"params"`
	Limit      int               `json:"limit"`
}

// BoundParams converts Params to the map shape graph drivers expect.
func (q QuerySpec) BoundParams() map[string]any {
	out := make(map[string]any, len(q.Params))
	for k, v := range q.Params {
		out[k] = v
	}
	return out
}

// Record is one row returned by the graph store.
type Record map[string]interface{}

type ResultSet []Record

// ExecuteResult is the outward result of a single natural-language query.
type ExecuteResult struct {
	RequestID   string        `json:"request_id"`
	Query       string        `json:"query"`
	Intent      Intent        `json:"intent"`
	Entities    *EntityBundle `json:"entities"`
	QuerySpec   *QuerySpec    `json:"query_spec,omitempty"`
	Results     ResultSet     `json:"results"`
	ResultCount int           `json:"result_count"`
	Error       string        `json:"error,omitempty"`
}

// Understanding is the intent and entities derived from a query before retrieval.
type Understanding struct {
	Intent        Intent        `json:"intent"`
	Entities      *EntityBundle `json:"entities"`
	OriginalQuery string        `json:"original_query"`
}

// GroundedResponse is built once per request and never cached.
type GroundedResponse struct {
	Query        string     `json:"query"`
	Intent       Intent     `json:"intent"`
	ResponseText string     `json:"response_text"`
	Context      string     `json:"context"`
	ResultCount  int        `json:"result_count"`
	QuerySpec    *QuerySpec `json:"query_spec,omitempty"`
	Generated    bool       `json:"generated"`
}
