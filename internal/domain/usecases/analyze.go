package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/extractor"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

const (
	DefaultTopK        = 5
	DefaultTemperature = 0.1
)

const (
	noPolicyTextJustification = "The uploaded document does not contain recognizable insurance policy text. " +
		"Please upload a proper policy document with coverage details, terms, and conditions."
	noJustification = "No justification provided"
)

// AnalyzeConfig tunes the reasoning request. A TopK of zero or less and a
// negative Temperature select the defaults; zero is a valid temperature.
type AnalyzeConfig struct {
	TopK        int
	Model       string
	Temperature float64
}

// AnalyzeUseCase ranks clauses for a claim and asks a reasoner for a decision.
type AnalyzeUseCase struct {
	ingest   *IngestUseCase
	ranker   ports.ClauseRanker
	reasoner ports.ClaimReasoner
	observer ports.AnalysisObserver
	logger   logging.Logger
	cfg      AnalyzeConfig
}

// NewAnalyzeUseCase creates an AnalyzeUseCase with injected dependencies.
// ingest is only needed by the document-level operations; observer and
// logger may be nil.
func NewAnalyzeUseCase(
	ingest *IngestUseCase,
	ranker ports.ClauseRanker,
	reasoner ports.ClaimReasoner,
	observer ports.AnalysisObserver,
	logger logging.Logger,
	cfg AnalyzeConfig,
) *AnalyzeUseCase {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = DefaultTemperature
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalyzeUseCase{
		ingest:   ingest,
		ranker:   ranker,
		reasoner: reasoner,
		observer: observer,
		logger:   logger.Named("analyze"),
		cfg:      cfg,
	}
}

// Analyze decides a claim query against already segmented clauses.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, query string, clauses []entities.Clause) (*entities.Analysis, error) {
	start := time.Now()
	ents := extractor.Extract(query)

	if len(clauses) == 0 {
		a := &entities.Analysis{
			Query:      query,
			Sections:   []entities.Clause{},
			TopClauses: []entities.Clause{},
			Entities:   ents,
			Decision: entities.DecisionRecord{
				Decision:      entities.DecisionNo,
				Amount:        entities.AmountNotSpecified,
				Justification: noPolicyTextJustification,
			},
		}
		uc.observer.ObserveAnalysis(a.Decision.Decision, "none", time.Since(start))
		uc.logger.Info("no clauses to analyze", logging.String("query", query))
		return a, nil
	}

	top := uc.ranker.Rank(query, clauses, uc.cfg.TopK)

	resp, err := uc.reasoner.Reason(ctx, ports.ReasoningRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(query, ents, top),
		Model:       uc.cfg.Model,
		Temperature: uc.cfg.Temperature,
		Query:       query,
		Entities:    ents,
		Clauses:     top,
	})
	if err != nil {
		uc.logger.Error("reasoner failed", logging.String("reasoner", uc.reasoner.Name()), logging.Err(err))
		return nil, fmt.Errorf("calling reasoner: %w", err)
	}

	a := &entities.Analysis{
		Query:          query,
		Sections:       clauses,
		TopClauses:     top,
		Entities:       ents,
		Decision:       ParseDecisionContent(resp.Content),
		Reasoner:       uc.reasoner.Name(),
		ReasonerOutput: resp.Content,
	}

	took := time.Since(start)
	uc.observer.ObserveAnalysis(a.Decision.Decision, a.Reasoner, took)
	uc.logger.Info("claim analyzed",
		logging.String("decision", string(a.Decision.Decision)),
		logging.String("reasoner", a.Reasoner),
		logging.Int("clauses", len(clauses)),
		logging.Int("top_clauses", len(top)),
		logging.Float64("temperature", uc.cfg.Temperature),
		logging.Duration("took", took),
	)
	return a, nil
}

// ReasonerName identifies the reasoner decisions come from.
func (uc *AnalyzeUseCase) ReasonerName() string {
	return uc.reasoner.Name()
}

// AnalyzeDocument segments (or reuses cached clauses for) path and analyzes query against it.
func (uc *AnalyzeUseCase) AnalyzeDocument(ctx context.Context, query, path string) (*entities.Analysis, error) {
	clauses, err := uc.ingest.Clauses(ctx, path)
	if err != nil {
		return nil, err
	}
	return uc.Analyze(ctx, query, clauses)
}

// AnalyzeBatch analyzes each query against one document. The document is
// segmented once; a failing query is recorded in its result and the batch
// carries on.
func (uc *AnalyzeUseCase) AnalyzeBatch(ctx context.Context, queries []string, path string) ([]entities.BatchResult, error) {
	clauses, err := uc.ingest.Clauses(ctx, path)
	if err != nil {
		return nil, err
	}

	results := make([]entities.BatchResult, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := entities.BatchResult{QueryIndex: i, Query: q}
		a, err := uc.Analyze(ctx, q, clauses)
		if err != nil {
			res.Error = entities.Label(err)
		} else {
			res.Analysis = a
		}
		results = append(results, res)
	}
	return results, nil
}

type decisionPayload struct {
	Decision      *string `json:"decision"`
	Amount        *string `json:"amount"`
	Justification *string `json:"justification"`
}

// ParseDecisionContent reads a reasoner's answer. A JSON object, optionally
// inside a ``` fence, becomes a DecisionRecord; anything else becomes an
// Unknown decision that carries the raw text as its justification.
func ParseDecisionContent(content string) entities.DecisionRecord {
	var p decisionPayload
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &p); err != nil {
		return entities.DecisionRecord{
			Decision:      entities.DecisionUnknown,
			Amount:        entities.AmountNotSpecified,
			Justification: content,
		}
	}

	rec := entities.DecisionRecord{
		Decision:      entities.DecisionUnknown,
		Amount:        entities.AmountNotSpecified,
		Justification: noJustification,
	}
	if p.Decision != nil {
		rec.Decision = entities.ParseDecision(*p.Decision)
	}
	if p.Amount != nil && strings.TrimSpace(*p.Amount) != "" {
		rec.Amount = *p.Amount
	}
	if p.Justification != nil && strings.TrimSpace(*p.Justification) != "" {
		rec.Justification = *p.Justification
	}
	return rec
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag, if any
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
