package cli

import (
	"fmt"

	"github.com/0xcro3dile/claimcheck-go/internal/adapters/clausestore"
	"github.com/0xcro3dile/claimcheck-go/internal/adapters/loader"
	"github.com/0xcro3dile/claimcheck-go/internal/adapters/parser"
	"github.com/0xcro3dile/claimcheck-go/internal/adapters/reasoner"
	"github.com/0xcro3dile/claimcheck-go/internal/config"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ranking"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/usecases"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/metrics"
)

// Services is the wired application graph shared by the commands.
type Services struct {
	Parser  *parser.PDFServiceParser
	Loader  *loader.MultiLoader
	Store   clausestore.Store
	Metrics *metrics.Metrics
	Ingest  *usecases.IngestUseCase
	Analyze *usecases.AnalyzeUseCase
}

// NewServices wires adapters and use cases from cfg. withRuntime adds Go
// runtime collectors to the metrics registry, which only matters when served.
func NewServices(cfg *config.Config, logger logging.Logger, withRuntime bool) (*Services, error) {
	pdf := parser.NewPDFServiceParser(cfg.Parser.ServiceURL, cfg.Parser.Timeout)
	multi := loader.NewMultiLoader(loader.NewTextLoader(), pdf)

	store, err := clausestore.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening clause store: %w", err)
	}

	m := metrics.New(withRuntime)
	r := reasoner.New(reasoner.ChatConfig{
		APIKey:  cfg.Reasoner.APIKey,
		BaseURL: cfg.Reasoner.BaseURL,
		Model:   cfg.Reasoner.Model,
		Timeout: cfg.Reasoner.Timeout,
	}, logger)

	ingest := usecases.NewIngestUseCase(multi, store, m, logger)
	analyze := usecases.NewAnalyzeUseCase(ingest, ranking.NewRanker(), r, m, logger, usecases.AnalyzeConfig{
		TopK:        cfg.Analysis.TopK,
		Model:       cfg.Reasoner.Model,
		Temperature: cfg.Reasoner.Temperature,
	})

	return &Services{
		Parser:  pdf,
		Loader:  multi,
		Store:   store,
		Metrics: m,
		Ingest:  ingest,
		Analyze: analyze,
	}, nil
}

// Close releases the clause store.
func (s *Services) Close() error {
	return s.Store.Close()
}
