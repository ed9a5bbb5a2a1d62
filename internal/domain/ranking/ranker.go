// Package ranking scores policy clauses against a claim query with lexical
// overlap, synonym expansion, extracted entities and scenario heuristics.
package ranking

import (
	"sort"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/extractor"
)

// Ranker implements ports.ClauseRanker. It holds no state and is safe for concurrent use.
type Ranker struct{}

// NewRanker creates a lexical clause ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// query is the per-call view of the claim text shared by every clause score.
type query struct {
	lower    string
	words    map[string]bool
	expanded map[string]bool
	entities entities.QueryEntities
}

func newQuery(text string) query {
	q := query{
		lower:    strings.ToLower(text),
		entities: extractor.Extract(text),
	}
	q.words = wordSet(q.lower)

	q.expanded = make(map[string]bool, len(q.words))
	for w := range q.words {
		q.expanded[w] = true
		for _, syn := range synonymIndex[w] {
			q.expanded[syn] = true
		}
	}
	for _, proc := range q.entities.MedicalProcedures {
		for _, syn := range synonymIndex[proc] {
			q.expanded[syn] = true
		}
	}
	return q
}

type scoredClause struct {
	score  float64
	clause entities.Clause
}

// Rank returns at most k clauses ordered by descending score. Clauses scoring
// at or below MinScore are dropped; if that leaves nothing, the best
// FallbackCount clauses come back regardless of score.
func (r *Ranker) Rank(text string, clauses []entities.Clause, k int) []entities.Clause {
	if len(clauses) == 0 || k <= 0 {
		return nil
	}

	q := newQuery(text)
	scored := make([]scoredClause, len(clauses))
	for i, c := range clauses {
		scored[i] = scoredClause{score: q.score(c), clause: c}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	top := scored
	if len(top) > k {
		top = top[:k]
	}

	var out []entities.Clause
	for _, s := range top {
		if s.score > MinScore {
			out = append(out, s.clause)
		}
	}
	if len(out) > 0 {
		return out
	}

	n := min(FallbackCount, k, len(scored))
	out = make([]entities.Clause, n)
	for i := range out {
		out[i] = scored[i].clause
	}
	return out
}

// Score returns the relevance of one clause to the query text.
func (r *Ranker) Score(text string, clause entities.Clause) float64 {
	return newQuery(text).score(clause)
}

func (q query) score(c entities.Clause) float64 {
	title := strings.ToLower(c.Title)
	combined := title + " " + strings.ToLower(c.Text)
	sectionWords := wordSet(combined)

	direct := float64(overlap(q.words, sectionWords)) / float64(max(len(q.words), 1))
	expanded := float64(overlap(q.expanded, sectionWords)) / float64(max(len(q.expanded), 1))
	titleBonus := float64(overlap(q.words, wordSet(title))) * titleHitBonus

	var substring float64
	for _, k := range DomainKeywords {
		if strings.Contains(q.lower, k.Keyword) && strings.Contains(combined, k.Keyword) {
			substring += substringHitBonus
		}
	}

	var entity float64
	for _, p := range q.entities.MedicalProcedures {
		if strings.Contains(combined, p) {
			entity += entityHitBonus
		}
	}
	for _, cond := range q.entities.Conditions {
		if strings.Contains(combined, cond) {
			entity += entityHitBonus
		}
	}
	if q.entities.Urgency != "" && strings.Contains(combined, q.entities.Urgency) {
		entity += urgencyHitBonus
	}

	var scenario float64
	for _, s := range Scenarios {
		if containsAny(q.lower, s.Keywords) && containsAny(combined, s.Keywords) {
			scenario += scenarioHitBonus
		}
	}

	return direct*weightDirect +
		expanded*weightExpanded +
		titleBonus*weightTitle +
		substring*weightSubstring +
		entity*weightEntity +
		scenario*weightScenario
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// overlap counts members of a that are also in b.
func overlap(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
