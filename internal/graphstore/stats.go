package graphstore

import (
	"context"

	"financial-graphrag/internal/models"
)

// Stats are node and relationship counts in the knowledge graph.
type Stats struct {
	Companies     int64 `json:"companies"`
	Events        int64 `json:"events"`
	News          int64 `json:"news"`
	Sectors       int64 `json:"sectors"`
	Relationships int64 `json:"relationships"`
}

var statQueries = []struct {
	cypher string
	field  func(*Stats) *int64
}{
	{"MATCH (c:Company) RETURN count(c) AS count", func(s *Stats) *int64 { return &s.Companies }},
	{"MATCH (e:Event) RETURN count(e) AS count", func(s *Stats) *int64 { return &s.Events }},
	{"MATCH (n:News) RETURN count(n) AS count", func(s *Stats) *int64 { return &s.News }},
	{"MATCH (s:Sector) RETURN count(s) AS count", func(s *Stats) *int64 { return &s.Sectors }},
	{"MATCH ()-[r]->() RETURN count(r) AS count", func(s *Stats) *int64 { return &s.Relationships }},
}

// CollectStats counts each kind separately; a failing count is reported as zero.
func CollectStats(ctx context.Context, store Store) Stats {
	var stats Stats
	for _, q := range statQueries {
		rows, err := store.Run(ctx, q.cypher, nil)
		if err != nil || len(rows) == 0 {
			continue
		}
		*q.field(&stats) = count(rows[0])
	}
	return stats
}

func count(rec models.Record) int64 {
	switch v := rec["count"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
