package usecases

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

const systemPrompt = "You are an insurance assistant that explains coverage decisions clearly and briefly in human language."

const notSpecified = "Not specified"

const analysisInstructions = `
ANALYSIS INSTRUCTIONS:
1. Carefully review each policy clause for coverage of the requested procedure/condition
2. Consider any age restrictions, waiting periods, or exclusions mentioned
3. Look for specific coverage amounts or limits
4. Check for emergency/urgency considerations if applicable
5. Determine if the claim falls under covered benefits or exclusions

Provide your decision in this exact JSON format:
{
  "decision": "Yes" or "No",
  "amount": "₹X,XXX" (if covered) or "Not covered" (if not covered),
  "justification": "Clear explanation referencing specific policy clauses and why this claim is/isn't covered"
}

IMPORTANT GUIDELINES:
- Use only "Yes" or "No" for the decision field
- Base your decision strictly on the provided policy clauses
- If coverage is conditional, still answer "Yes" but explain conditions in justification
- Include specific clause references in your justification
- Consider the complete context of the natural language query
`

// buildPrompt embeds the query, its entities and the ranked clauses into the analyst prompt.
func buildPrompt(query string, e entities.QueryEntities, clauses []entities.Clause) string {
	var sb strings.Builder
	sb.WriteString("\nYou are an expert insurance claims analyst for Indian health insurance policies.\n")
	sb.WriteString("Analyze the following claim request against the provided policy clauses.\n\n")

	sb.WriteString("CLAIM DETAILS:\n")
	sb.WriteString("Original Query: \"" + query + "\"\n\n")

	sb.WriteString("Extracted Information:\n")
	sb.WriteString("- Medical Procedures: " + listOrUnspecified(e.MedicalProcedures) + "\n")
	sb.WriteString("- Medical Conditions: " + listOrUnspecified(e.Conditions) + "\n")
	sb.WriteString("- Patient Age: " + intOrUnspecified(e.Age, strconv.Itoa) + "\n")
	sb.WriteString("- Gender: " + stringOrUnspecified(e.Gender) + "\n")
	sb.WriteString("- Urgency Level: " + stringOrUnspecified(e.Urgency) + "\n")
	sb.WriteString("- Claim Amount: " + intOrUnspecified(e.Amount, FormatRupees) + "\n\n")

	sb.WriteString("RELEVANT POLICY CLAUSES:\n")
	sb.WriteString(clausesJSON(clauses))
	sb.WriteString("\n")
	sb.WriteString(analysisInstructions)
	return sb.String()
}

func clausesJSON(clauses []entities.Clause) string {
	if clauses == nil {
		clauses = []entities.Clause{}
	}
	b, err := json.MarshalIndent(clauses, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func listOrUnspecified(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func stringOrUnspecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

// intOrUnspecified treats nil and zero alike.
func intOrUnspecified(n *int, format func(int) string) string {
	if n == nil || *n == 0 {
		return notSpecified
	}
	return format(*n)
}

// FormatRupees renders n as "₹" followed by comma-grouped thousands.
func FormatRupees(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)

	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return sign + "₹" + sb.String()
}
