// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, never on concrete adapters.
package ports

import (
	"context"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

// PageTextProvider turns a document on disk into per-page plain text.
type PageTextProvider interface {
	// Load reads the document at path and returns its pages in order.
	Load(ctx context.Context, path string) ([]entities.PageText, error)

	// SupportedExtensions returns file extensions this provider handles.
	SupportedExtensions() []string
}

// ClauseRanker orders clauses by relevance to a claim query.
// The lexical ranker is the only implementation today; a vector ranker would slot in here.
type ClauseRanker interface {
	Rank(query string, clauses []entities.Clause, k int) []entities.Clause
}

// ReasoningRequest is everything a claim reasoner may use to reach a decision.
type ReasoningRequest struct {
	System      string
	Prompt      string
	Model       string // empty = reasoner default
	Temperature float64

	Query    string
	Entities entities.QueryEntities
	Clauses  []entities.Clause
}

// ReasoningResponse carries the reasoner's answer, expected to be a JSON
// encoded {decision, amount, justification} object.
type ReasoningResponse struct {
	Content string
}

// ClaimReasoner turns ranked clauses and entities into a coverage decision.
type ClaimReasoner interface {
	Reason(ctx context.Context, req ReasoningRequest) (*ReasoningResponse, error)

	// Name identifies the implementation in logs and analysis output.
	Name() string
}

// ClauseStore caches segmented clauses per document.
type ClauseStore interface {
	// Put replaces the entry stored for a document.
	Put(ctx context.Context, documentID string, entry entities.CachedClauses) error

	// Get returns the entry for a document and whether one was stored.
	Get(ctx context.Context, documentID string) (entities.CachedClauses, bool, error)

	// Delete removes all clauses for a document.
	Delete(ctx context.Context, documentID string) error

	// Clear removes all data from the store.
	Clear(ctx context.Context) error

	// Count returns the number of documents with stored clauses.
	Count(ctx context.Context) (int, error)
}

// AnalysisObserver receives telemetry from the use cases.
type AnalysisObserver interface {
	// ObserveSegmentation is called once per freshly segmented document.
	ObserveSegmentation(clauses int)

	// ObserveAnalysis is called once per completed analysis.
	ObserveAnalysis(decision entities.Decision, reasoner string, took time.Duration)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
