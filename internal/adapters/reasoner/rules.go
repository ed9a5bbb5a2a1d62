package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
)

const (
	justificationPrefix = "Based on the policy clauses found, "
	justificationSuffix = "This analysis is based on typical policy provisions and document content."
)

// Outcome is what a matching rule does to the running decision.
type Outcome struct {
	Decision entities.Decision
	Amount   string
	Note     string
}

// Rule matches a lower-cased query plus its entities. A rule with a nil
// Outcome still ends its stage but leaves the decision unchanged.
type Rule struct {
	Name    string
	Match   func(q string, e entities.QueryEntities) bool
	Outcome *Outcome
}

// Stage is an ordered rule table evaluated first-match-wins.
type Stage struct {
	Name  string
	Rules []Rule
}

// DefaultOutcome applies when no stage matches.
var DefaultOutcome = Outcome{Decision: entities.DecisionYes, Amount: "₹50,000"}

// FallbackStages run in order; a later stage's match overrides earlier ones.
var FallbackStages = []Stage{
	{
		Name: "age",
		Rules: []Rule{
			{
				Name:  "senior-cataract",
				Match: func(q string, e entities.QueryEntities) bool { return olderThan(e, 65) && has(q, "cataract") },
				Outcome: &Outcome{entities.DecisionPartial, "₹25,000",
					"cataract surgery for patients over 65 has a waiting period of 2 years and reduced coverage. "},
			},
			{
				Name:  "senior-cosmetic",
				Match: func(q string, e entities.QueryEntities) bool { return olderThan(e, 65) && has(q, "cosmetic") },
				Outcome: &Outcome{entities.DecisionNo, entities.AmountNotCovered,
					"cosmetic procedures are excluded for patients over 65. "},
			},
		},
	},
	{
		Name: "scenario",
		Rules: []Rule{
			{
				Name:  "cosmetic",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "cosmetic") && !has(q, "accident") },
				Outcome: &Outcome{entities.DecisionNo, entities.AmountNotCovered,
					"cosmetic procedures not related to accidents are excluded. Consider reviewing elective surgery options or additional coverage for such procedures. "},
			},
			{
				Name:  "dental-accident",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "dental") && has(q, "accident") },
				Outcome: &Outcome{entities.DecisionYes, "₹15,000",
					"dental treatment due to accidents is covered up to policy limits. You may wish to explore policy enhancements for broader dental coverage. "},
			},
			{
				Name:  "dental",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "dental") },
				Outcome: &Outcome{entities.DecisionNo, entities.AmountNotCovered,
					"routine dental procedures are excluded unless due to accidents. "},
			},
			{
				Name:  "ayush",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "ayush", "ayurveda") },
				Outcome: &Outcome{entities.DecisionYes, "₹30,000",
					"AYUSH treatments are covered under the policy for inpatient care. Always check if the treatment facility is accredited. "},
			},
			{
				Name:  "observation",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "observation") && !has(q, "treatment") },
				Outcome: &Outcome{entities.DecisionNo, entities.AmountNotCovered,
					"hospitalization for observation without active treatment is not covered. Consider consulting to confirm coverage types. "},
			},
			{
				Name:  "emergency",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "emergency", "accident") },
				Outcome: &Outcome{entities.DecisionYes, "₹100,000",
					"emergency treatments and accident-related expenses are fully covered. Ensure all required documentation is included. "},
			},
			{
				Name: "surgery-gall-bladder",
				Match: func(q string, _ entities.QueryEntities) bool {
					return has(q, "surgery") && has(q, "gall bladder", "gallbladder")
				},
				Outcome: &Outcome{entities.DecisionYes, "₹80,000",
					"gall bladder surgery is covered as a necessary medical procedure. Pre-authorization may be required for insurance processing. "},
			},
			{
				Name:  "surgery-knee-replacement",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "surgery") && has(q, "knee replacement") },
				Outcome: &Outcome{entities.DecisionYes, "₹150,000",
					"knee replacement surgery is covered after the waiting period. Post-operative care coverage details should be reviewed. "},
			},
			{
				Name:  "surgery-other",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "surgery") },
			},
			{
				Name:  "dengue-young",
				Match: func(q string, e entities.QueryEntities) bool { return has(q, "dengue") && youngerThan(e, 30) },
				Outcome: &Outcome{entities.DecisionYes, "₹40,000",
					"dengue treatment is covered after the initial waiting period. Verify the inclusion criteria for tropical diseases. "},
			},
			{
				Name:  "dengue",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "dengue") },
				Outcome: &Outcome{entities.DecisionPartial, "₹25,000",
					"dengue treatment has partial coverage based on policy terms. "},
			},
		},
	},
	{
		Name: "limits",
		Rules: []Rule{
			{
				Name:  "sum-insured-exceeded",
				Match: func(q string, _ entities.QueryEntities) bool { return has(q, "exceeded", "extra amount") },
				Outcome: &Outcome{entities.DecisionNo, entities.AmountNotCovered,
					"expenses exceeding the sum insured are not covered. Periodically review policy limits and adjust as needed. "},
			},
		},
	},
}

// RuleReasoner implements ports.ClaimReasoner with FallbackStages. It needs
// no network and is used when no usable credential is configured.
type RuleReasoner struct {
	stages []Stage
}

// NewRuleReasoner creates a reasoner over FallbackStages.
func NewRuleReasoner() *RuleReasoner {
	return &RuleReasoner{stages: FallbackStages}
}

// Name implements ports.ClaimReasoner.
func (r *RuleReasoner) Name() string {
	return "rules"
}

// Reason encodes Decide's record as JSON content.
func (r *RuleReasoner) Reason(ctx context.Context, req ports.ReasoningRequest) (*ports.ReasoningResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := r.Decide(req.Query, req.Entities)
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding decision: %w", err)
	}
	return &ports.ReasoningResponse{Content: string(b)}, nil
}

// Decide evaluates every stage against the query.
func (r *RuleReasoner) Decide(query string, e entities.QueryEntities) entities.DecisionRecord {
	q := strings.ToLower(query)
	decision, amount := DefaultOutcome.Decision, DefaultOutcome.Amount

	var notes strings.Builder
	notes.WriteString(justificationPrefix)

	for _, stage := range r.stages {
		for _, rule := range stage.Rules {
			if !rule.Match(q, e) {
				continue
			}
			if rule.Outcome != nil {
				decision, amount = rule.Outcome.Decision, rule.Outcome.Amount
				notes.WriteString(rule.Outcome.Note)
			}
			break
		}
	}

	notes.WriteString(justificationSuffix)
	return entities.DecisionRecord{Decision: decision, Amount: amount, Justification: notes.String()}
}

func has(q string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

func olderThan(e entities.QueryEntities, age int) bool {
	return e.Age != nil && *e.Age > age
}

// youngerThan treats an unknown age as not young, and so does age 0.
func youngerThan(e entities.QueryEntities, age int) bool {
	return e.Age != nil && *e.Age > 0 && *e.Age < age
}
