// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"strings"
	"time"
)

// DefaultTitle labels text that appears on a page before its first heading.
const DefaultTitle = "General Information"

// Document is a policy that has been segmented at least once.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Pages      int       `json:"pages"`
	Clauses    int       `json:"clauses"`
	Version    string    `json:"version"`
	IngestedAt time.Time `json:"ingested_at"`
}

// PageText is the raw text of one page as handed over by a page-text provider.
type PageText struct {
	PageNumber int
	Lines      []string
}

// NewPageText splits extracted page text into lines.
func NewPageText(pageNumber int, text string) PageText {
	return PageText{
		PageNumber: pageNumber,
		Lines:      strings.Split(text, "\n"),
	}
}

// SplitPages breaks extracted text on form feeds into 1-based pages.
// Blank text yields no pages.
func SplitPages(text string) []PageText {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, "\f")
	pages := make([]PageText, len(parts))
	for i, part := range parts {
		pages[i] = NewPageText(i+1, part)
	}
	return pages
}

// CachedClauses is one document's segmentation as held by a clause store.
// Version fingerprints the file content the clauses were cut from.
type CachedClauses struct {
	Version string
	Clauses []Clause
}

// Clause is a titled span of policy text taken from a single page.
// Clauses are read-only once the segmenter has emitted them.
type Clause struct {
	ID         string `json:"id"`
	PageNumber int    `json:"page_number"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Source     string `json:"source"`
}

// QueryEntities holds the structured facts pulled out of a free-text claim query.
type QueryEntities struct {
	MedicalProcedures []string `json:"medical_procedures"`
	Conditions        []string `json:"conditions"`
	Age               *int     `json:"age"`
	Gender            string   `json:"gender,omitempty"`   // "male", "female" or empty
	Location          string   `json:"location,omitempty"` // reserved
	Amount            *int     `json:"amount"`
	Urgency           string   `json:"urgency,omitempty"`
}

// Decision is the coverage verdict.
type Decision string

const (
	DecisionYes     Decision = "Yes"
	DecisionNo      Decision = "No"
	DecisionPartial Decision = "Partial"
	DecisionUnknown Decision = "Unknown"
)

// ParseDecision maps a reasoner-supplied verdict onto a Decision.
// Matching is case-insensitive; anything unrecognised is Unknown.
func ParseDecision(s string) Decision {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return DecisionYes
	case "no":
		return DecisionNo
	case "partial":
		return DecisionPartial
	default:
		return DecisionUnknown
	}
}

// Literal amounts used when no covered amount applies.
const (
	AmountNotCovered   = "Not covered"
	AmountNotSpecified = "Not specified"
)

// DecisionRecord is the terminal output of one analysis.
type DecisionRecord struct {
	Decision      Decision `json:"decision"`
	Amount        string   `json:"amount"`
	Justification string   `json:"justification"`
}

// Analysis is a decision together with the context that produced it.
type Analysis struct {
	Query          string         `json:"query"`
	Sections       []Clause       `json:"sections"`
	TopClauses     []Clause       `json:"top_clauses"`
	Entities       QueryEntities  `json:"entities"`
	Decision       DecisionRecord `json:"decision"`
	Reasoner       string         `json:"reasoner,omitempty"`
	ReasonerOutput string         `json:"reasoner_output,omitempty"`
}

// BatchResult is the outcome of one query inside a batch analysis.
type BatchResult struct {
	QueryIndex int       `json:"query_index"`
	Query      string    `json:"query"`
	Analysis   *Analysis `json:"analysis,omitempty"`
	Error      string    `json:"error,omitempty"`
}
