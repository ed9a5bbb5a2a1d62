// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/usecases"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/metrics"
)

const maxBodyBytes = 1 << 20

// StatsSource supplies the decision tally and the Prometheus scrape handler.
type StatsSource interface {
	Stats() metrics.Stats
	Handler() http.Handler
}

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) bool

// Server is the HTTP server for the claim analysis API.
type Server struct {
	analyze      *usecases.AnalyzeUseCase
	ingest       *usecases.IngestUseCase
	stats        StatsSource
	parserHealth HealthFunc
	documentRoot string
	logger       logging.Logger
	addr         string
}

// NewServer creates a new HTTP server. Document names in requests are
// resolved against documentRoot; an empty root accepts any path.
func NewServer(
	analyzeUC *usecases.AnalyzeUseCase,
	ingestUC *usecases.IngestUseCase,
	stats StatsSource,
	parserHealth HealthFunc,
	documentRoot string,
	logger logging.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		analyze:      analyzeUC,
		ingest:       ingestUC,
		stats:        stats,
		parserHealth: parserHealth,
		documentRoot: documentRoot,
		logger:       logger.Named("http"),
		addr:         addr,
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/batch", s.handleBatch)
	mux.HandleFunc("GET /api/clauses", s.handleClauses)
	mux.HandleFunc("GET /api/documents", s.handleDocuments)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.stats != nil {
		mux.Handle("GET /metrics", s.stats.Handler())
	}

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // batch analysis runs one reasoner call per query
	}

	s.logger.Info("claimcheck server starting", logging.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type analyzeRequest struct {
	Query    string `json:"query"`
	Document string `json:"document"`
}

type batchRequest struct {
	Queries  []string `json:"queries"`
	Document string   `json:"document"`
}

type batchResponse struct {
	Document string                 `json:"document"`
	Results  []entities.BatchResult `json:"results"`
}

type clausesResponse struct {
	Document string            `json:"document"`
	Clauses  []entities.Clause `json:"clauses"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	path, ok := s.resolve(w, req.Document)
	if !ok {
		return
	}

	a, err := s.analyze.AnalyzeDocument(r.Context(), req.Query, path)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, "queries are required")
		return
	}
	path, ok := s.resolve(w, req.Document)
	if !ok {
		return
	}

	results, err := s.analyze.AnalyzeBatch(r.Context(), req.Queries, path)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Document: filepath.Base(path), Results: results})
}

func (s *Server) handleClauses(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolve(w, r.URL.Query().Get("document"))
	if !ok {
		return
	}
	clauses, err := s.ingest.Clauses(r.Context(), path)
	if err != nil {
		s.fail(w, err)
		return
	}
	if clauses == nil {
		clauses = []entities.Clause{}
	}
	writeJSON(w, http.StatusOK, clausesResponse{Document: filepath.Base(path), Clauses: clauses})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ingest.Documents())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var st metrics.Stats
	if s.stats != nil {
		st = s.stats.Stats()
	}
	writeJSON(w, http.StatusOK, st)
}

// handleHealth returns server health status and the size of the clause cache.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"reasoner": s.analyze.ReasonerName(),
	}
	if n, err := s.ingest.CachedDocuments(r.Context()); err != nil {
		s.logger.Warn("clause store unavailable", logging.Err(err))
		resp["clause_store"] = "unavailable"
	} else {
		resp["clause_store"] = "ok"
		resp["cached_documents"] = n
	}
	if s.parserHealth != nil {
		resp["pdf_service"] = "ok"
		if !s.parserHealth(r.Context()) {
			resp["pdf_service"] = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolve maps a requested document name to a path under the document root.
func (s *Server) resolve(w http.ResponseWriter, document string) (string, bool) {
	document = strings.TrimSpace(document)
	if document == "" {
		writeError(w, http.StatusBadRequest, "document is required")
		return "", false
	}
	if s.documentRoot == "" {
		return document, true
	}

	rel := filepath.Clean(filepath.FromSlash(document))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		writeError(w, http.StatusBadRequest, "document must be relative to the document root")
		return "", false
	}
	return filepath.Join(s.documentRoot, rel), true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var httpErr *entities.ReasonerHTTPError
	switch {
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.As(err, &httpErr), errors.Is(err, entities.ErrReasonerTransport):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	s.logger.Warn("request failed", logging.Int("status", status), logging.Err(err))
	writeError(w, status, entities.Label(err))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("took", time.Since(start)),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
