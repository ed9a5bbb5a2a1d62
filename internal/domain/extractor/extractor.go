// Package extractor pulls structured facts out of a free-text claim query.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

// ProcedureTerms is the medical procedure vocabulary, matched as substrings.
var ProcedureTerms = []string{
	"surgery", "operation", "treatment", "therapy", "procedure", "examination",
	"heart surgery", "brain surgery", "bypass", "transplant", "dialysis",
	"chemotherapy", "radiotherapy", "physiotherapy", "consultation",
}

// ConditionTerms is the medical condition vocabulary, matched as substrings.
var ConditionTerms = []string{
	"cancer", "diabetes", "heart attack", "stroke", "kidney failure",
	"liver disease", "pneumonia", "covid", "accident", "injury", "fracture",
}

// UrgencyTerms is scanned in order; the first hit wins.
var UrgencyTerms = []string{"emergency", "urgent", "critical", "immediate", "ambulance"}

var (
	agePattern    = regexp.MustCompile(`(\d+)[-\s]?(?:years?|yrs?|y)[-\s]?old|age[:\s]*(\d+)`)
	amountPattern = regexp.MustCompile(`(?:\brs\.?|₹|\binr)\s*(\d[\d,]*)|(\d[\d,]*)\s*(?:rs\b\.?|₹|inr\b)`)
)

// Extract parses query into QueryEntities. Fields without a match stay unset.
func Extract(query string) entities.QueryEntities {
	q := strings.ToLower(query)

	e := entities.QueryEntities{
		MedicalProcedures: containedTerms(q, ProcedureTerms),
		Conditions:        containedTerms(q, ConditionTerms),
		Age:               firstInt(agePattern, q),
		Amount:            firstInt(amountPattern, q),
	}

	switch {
	case strings.Contains(q, "female"):
		e.Gender = "female"
	case strings.Contains(q, "male"):
		e.Gender = "male"
	}

	for _, term := range UrgencyTerms {
		if strings.Contains(q, term) {
			e.Urgency = term
			break
		}
	}

	return e
}

func containedTerms(q string, vocabulary []string) []string {
	found := []string{}
	for _, term := range vocabulary {
		if strings.Contains(q, term) {
			found = append(found, term)
		}
	}
	return found
}

// firstInt returns the first non-empty capture group of the leftmost match,
// with thousands separators removed.
func firstInt(re *regexp.Regexp, s string) *int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(g, ",", ""))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}
