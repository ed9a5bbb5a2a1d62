package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/claimcheck-go/internal/adapters/clausestore"
	"github.com/0xcro3dile/claimcheck-go/internal/adapters/loader"
	"github.com/0xcro3dile/claimcheck-go/internal/adapters/reasoner"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ranking"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/usecases"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/metrics"
)

const goldPolicy = "ROOM RENT\n" +
	"Room rent is covered up to one percent of the sum insured per day of hospitalisation.\n" +
	"DENTAL TREATMENT\n" +
	"Dental treatment is excluded unless it is required because of an accident.\f" +
	"Knee Replacement\n" +
	"Knee replacement surgery is covered after a waiting period of two years from inception."

type fixture struct {
	handler http.Handler
	metrics *metrics.Metrics
	root    string
}

func newFixture(t *testing.T, parserHealth HealthFunc) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "gold.txt"), []byte(goldPolicy), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blank.txt"), []byte("\n\n"), 0644))

	m := metrics.New(false)
	ingest := usecases.NewIngestUseCase(loader.NewMultiLoader(loader.NewTextLoader()), clausestore.NewInMemoryStore(), m, nil)
	analyze := usecases.NewAnalyzeUseCase(ingest, ranking.NewRanker(), reasoner.NewRuleReasoner(), m, nil, usecases.AnalyzeConfig{})
	srv := NewServer(analyze, ingest, m, parserHealth, root, nil, ":0")

	return &fixture{handler: srv.Handler(), metrics: m, root: root}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestServer_Analyze(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/analyze", analyzeRequest{
		Query:    "35 year old female, cosmetic surgery for nose",
		Document: "gold.txt",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var a entities.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, entities.DecisionNo, a.Decision.Decision)
	assert.Equal(t, entities.AmountNotCovered, a.Decision.Amount)
	assert.Equal(t, "rules", a.Reasoner)
	assert.Len(t, a.Sections, 3)
	assert.NotEmpty(t, a.TopClauses)
	assert.Equal(t, "gold.txt", a.Sections[0].Source)
}

func TestServer_AnalyzeValidation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing query", analyzeRequest{Document: "gold.txt"}, "query is required"},
		{"missing document", analyzeRequest{Query: "knee surgery"}, "document is required"},
		{"escaping root", analyzeRequest{Query: "knee surgery", Document: "../etc/passwd"}, "document must be relative to the document root"},
		{"absolute path", analyzeRequest{Query: "knee surgery", Document: "/etc/passwd"}, "document must be relative to the document root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec))
		})
	}
}

func TestServer_AnalyzeMalformedBody(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid request body")
}

func TestServer_AnalyzeMissingDocument(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Query: "knee surgery", Document: "silver.txt"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(decodeError(t, rec), "Processing error: loading "))
}

func TestServer_AnalyzeBlankDocument(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Query: "knee surgery", Document: "blank.txt"})
	require.Equal(t, http.StatusOK, rec.Code)

	var a entities.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, entities.DecisionNo, a.Decision.Decision)
	assert.Equal(t, entities.AmountNotSpecified, a.Decision.Amount)
	assert.Empty(t, a.Sections)
}

func TestServer_Batch(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/analyze/batch", batchRequest{
		Queries:  []string{"cosmetic surgery", "dental treatment after an accident"},
		Document: "gold.txt",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "gold.txt", out.Document)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 1, out.Results[1].QueryIndex)
	require.NotNil(t, out.Results[1].Analysis)
	assert.Equal(t, entities.DecisionYes, out.Results[1].Analysis.Decision.Decision)
	assert.Equal(t, "₹15,000", out.Results[1].Analysis.Decision.Amount)

	rec = f.do(t, http.MethodPost, "/api/analyze/batch", batchRequest{Document: "gold.txt"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "queries are required", decodeError(t, rec))
}

func TestServer_ClausesAndDocuments(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/clauses?document=gold.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out clausesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Clauses, 3)
	assert.Equal(t, "ROOM RENT", out.Clauses[0].Title)
	assert.Equal(t, 2, out.Clauses[2].PageNumber)

	rec = f.do(t, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []entities.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "gold.txt", docs[0].Name)
	assert.Equal(t, 3, docs[0].Clauses)
	assert.Equal(t, 2, docs[0].Pages)
}

func TestServer_Stats(t *testing.T) {
	f := newFixture(t, nil)

	f.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Query: "cosmetic surgery", Document: "gold.txt"})
	f.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Query: "knee replacement", Document: "gold.txt"})

	rec := f.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var st metrics.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 2, st.TotalAnalyses)
	assert.Equal(t, 1, st.RejectedClaims)
	assert.InDelta(t, 50.0, st.ApprovalRate, 0.001)

	rec = f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "claimcheck_analyses_total")
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t, func(ctx context.Context) bool { return false })

	rec := f.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "rules", out["reasoner"])
	assert.Equal(t, "unavailable", out["pdf_service"])
	assert.Equal(t, "ok", out["clause_store"])
	assert.Equal(t, float64(0), out["cached_documents"])
}

func TestServer_HealthCountsCachedDocuments(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/clauses?document=gold.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, float64(1), out["cached_documents"])
	_, hasParser := out["pdf_service"]
	assert.False(t, hasParser, "no parser health was configured")
}

func TestServer_MethodAndCORS(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/analyze", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(t, http.MethodOptions, "/api/analyze", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
