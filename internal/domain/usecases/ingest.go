// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/segmenter"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

// IngestUseCase turns policy documents into clauses and caches them per document.
type IngestUseCase struct {
	provider ports.PageTextProvider
	store    ports.ClauseStore
	observer ports.AnalysisObserver
	logger   logging.Logger

	mu      sync.RWMutex
	catalog map[string]entities.Document // docID -> last ingestion
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
// observer and logger may be nil.
func NewIngestUseCase(
	provider ports.PageTextProvider,
	store ports.ClauseStore,
	observer ports.AnalysisObserver,
	logger logging.Logger,
) *IngestUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &IngestUseCase{
		provider: provider,
		store:    store,
		observer: observer,
		logger:   logger.Named("ingest"),
		catalog:  make(map[string]entities.Document),
	}
}

// Clauses returns the cached clauses for path while the file content is
// unchanged, and segments the document again otherwise.
func (uc *IngestUseCase) Clauses(ctx context.Context, path string) ([]entities.Clause, error) {
	version, err := FileVersion(path)
	if err != nil {
		return uc.ingest(ctx, path, "")
	}

	cached, ok, err := uc.store.Get(ctx, DocumentID(path))
	switch {
	case err != nil:
		uc.logger.Warn("clause cache read failed", logging.String("path", path), logging.Err(err))
	case ok && cached.Version == version:
		uc.logger.Debug("clause cache hit", logging.String("path", path), logging.Int("clauses", len(cached.Clauses)))
		return cached.Clauses, nil
	case ok:
		uc.logger.Info("document changed since it was segmented", logging.String("path", path))
	}
	return uc.ingest(ctx, path, version)
}

// Ingest segments the document at path and replaces whatever was cached for it.
func (uc *IngestUseCase) Ingest(ctx context.Context, path string) ([]entities.Clause, error) {
	version, _ := FileVersion(path)
	return uc.ingest(ctx, path, version)
}

// ingest stores clauses under version, which is taken before loading so a
// write that races the load leaves a stale version and forces a re-read.
func (uc *IngestUseCase) ingest(ctx context.Context, path, version string) ([]entities.Clause, error) {
	pages, err := uc.provider.Load(ctx, path)
	if err != nil {
		return nil, entities.NewProcessingError(fmt.Errorf("loading %s: %w", path, err))
	}

	clauses := segmenter.Segment(pages, filepath.Base(path))
	uc.observer.ObserveSegmentation(len(clauses))

	id := DocumentID(path)
	uc.mu.Lock()
	uc.catalog[id] = entities.Document{
		ID:         id,
		Name:       filepath.Base(path),
		Path:       path,
		Pages:      len(pages),
		Clauses:    len(clauses),
		Version:    version,
		IngestedAt: time.Now(),
	}
	uc.mu.Unlock()

	entry := entities.CachedClauses{Version: version, Clauses: clauses}
	if err := uc.store.Put(ctx, id, entry); err != nil {
		// The clauses are still good; only the cache missed out.
		uc.logger.Warn("clause cache write failed", logging.String("path", path), logging.Err(err))
	}

	uc.logger.Info("document segmented",
		logging.String("path", path),
		logging.Int("pages", len(pages)),
		logging.Int("clauses", len(clauses)),
	)
	return clauses, nil
}

// Evict removes a document's cached clauses.
func (uc *IngestUseCase) Evict(ctx context.Context, path string) error {
	id := DocumentID(path)
	uc.mu.Lock()
	delete(uc.catalog, id)
	uc.mu.Unlock()
	return uc.store.Delete(ctx, id)
}

// Reset empties the clause cache and the document catalog.
func (uc *IngestUseCase) Reset(ctx context.Context) error {
	uc.mu.Lock()
	uc.catalog = make(map[string]entities.Document)
	uc.mu.Unlock()
	return uc.store.Clear(ctx)
}

// CachedDocuments reports how many documents the clause cache holds.
func (uc *IngestUseCase) CachedDocuments(ctx context.Context) (int, error) {
	return uc.store.Count(ctx)
}

// Documents lists what this process has segmented, by name.
func (uc *IngestUseCase) Documents() []entities.Document {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	docs := make([]entities.Document, 0, len(uc.catalog))
	for _, d := range uc.catalog {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Name != docs[j].Name {
			return docs[i].Name < docs[j].Name
		}
		return docs[i].Path < docs[j].Path
	})
	return docs
}

// DocumentID derives a stable cache key from a document path.
func DocumentID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	hash := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(hash[:8])
}

// FileVersion fingerprints the content of the file at path.
func FileVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}

type nopObserver struct{}

func (nopObserver) ObserveSegmentation(int) {}

func (nopObserver) ObserveAnalysis(entities.Decision, string, time.Duration) {}
