// Package querylog records executed graph queries in Postgres.
package querylog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"financial-graphrag/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS graph_query_log (
	id           UUID PRIMARY KEY,
	request_id   TEXT NOT NULL,
	query        TEXT NOT NULL,
	intent       TEXT NOT NULL,
	template_id  TEXT NOT NULL DEFAULT '',
	result_count INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
)`

// Entry is one logged execution.
type Entry struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id"`
	Query       string        `json:"query"`
	Intent      models.Intent `json:"intent"`
	TemplateID  string        `json:"template_id"`
	ResultCount int           `json:"result_count"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Recorder is what the engine needs from the log.
type Recorder interface {
	Record(ctx context.Context, result *models.ExecuteResult) error
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the log table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create query log table: %w", err)
	}
	return nil
}

func (s *Store) Record(ctx context.Context, result *models.ExecuteResult) error {
	var templateID string
	if result.QuerySpec != nil {
		templateID = string(result.QuerySpec.TemplateID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO graph_query_log (id, request_id, query, intent, template_id, result_count, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), result.RequestID, result.Query, string(result.Intent),
		templateID, result.ResultCount, result.Error, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert query log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, query, intent, template_id, result_count, error, created_at
		FROM graph_query_log
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query log history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var intent string
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Query, &intent, &e.TemplateID, &e.ResultCount, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query log entry: %w", err)
		}
		e.Intent = models.Intent(intent)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
