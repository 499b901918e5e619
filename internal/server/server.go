// Package server exposes the query engine over HTTP alongside health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/graphstore"
	"financial-graphrag/internal/models"
)

const maxBodyBytes = 1 << 20

// QueryEngine is the engine surface served over HTTP.
type QueryEngine interface {
	Execute(ctx context.Context, query string) *models.ExecuteResult
	Understand(ctx context.Context, query string) models.Understanding
	Ground(ctx context.Context, query string, result *models.ExecuteResult) models.GroundedResponse
	Stats(ctx context.Context) graphstore.Stats
}

type ArticleAnalyzer interface {
	AnalyzeArticle(ctx context.Context, article models.Article) models.ArticleAnalysis
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine   QueryEngine
	analyzer ArticleAnalyzer
	graph    Pinger
	logger   logger.Logger
}

type queryRequest struct {
	Query string `json:"query"`
}

type groundRequest struct {
	Query       string                `json:"query"`
	GraphResult *models.ExecuteResult `json:"graph_result,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New accepts a nil analyzer and graph pinger; the matching routes then report unavailability.
func New(engine QueryEngine, analyzer ArticleAnalyzer, graph Pinger, log logger.Logger) *Server {
	return &Server{
		engine:   engine,
		analyzer: analyzer,
		graph:    graph,
		logger:   log.With(map[string]interface{}{"component": "http"}),
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/understand", s.handleUnderstand)
	mux.HandleFunc("/api/ground", s.handleGround)
	mux.HandleFunc("/api/analyze-article", s.handleAnalyzeArticle)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Execute(r.Context(), req.Query))
}

func (s *Server) handleUnderstand(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Understand(r.Context(), req.Query))
}

func (s *Server) handleGround(w http.ResponseWriter, r *http.Request) {
	var req groundRequest
	if !s.decode(w, r, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" && req.GraphResult != nil {
		query = req.GraphResult.Query
	}
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Ground(r.Context(), query, req.GraphResult))
}

func (s *Server) handleAnalyzeArticle(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "article analysis is not configured"})
		return
	}
	var article models.Article
	if !s.decode(w, r, &article) {
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.AnalyzeArticle(r.Context(), article))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	body := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}
	status := http.StatusOK
	if s.graph != nil {
		if err := s.graph.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["graph"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if r.URL.Query().Get("detail") == "true" && status == http.StatusOK {
		body["graph"] = s.engine.Stats(ctx)
	}
	writeJSON(w, status, body)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		s.logger.Warn("rejecting malformed request", map[string]interface{}{"path": r.URL.Path, "error": err})
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
