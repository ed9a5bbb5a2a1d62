package ranking

// KeywordSynonyms expands one domain keyword into related vocabulary.
type KeywordSynonyms struct {
	Keyword  string
	Synonyms []string
}

// DomainKeywords drives synonym expansion and the substring bonus.
var DomainKeywords = []KeywordSynonyms{
	{"surgery", []string{"operation", "surgical", "procedure", "operative", "invasive"}},
	{"ambulance", []string{"emergency transport", "medical transport", "air ambulance", "evacuation"}},
	{"emergency", []string{"urgent", "critical", "immediate", "acute", "life-threatening"}},
	{"treatment", []string{"therapy", "care", "medical care", "intervention", "management"}},
	{"hospital", []string{"medical facility", "healthcare", "clinic", "medical center", "facility"}},
	{"coverage", []string{"cover", "benefit", "reimbursement", "claim", "eligible", "payable"}},
	{"exclude", []string{"exclusion", "not covered", "limitation", "restricted", "excluded"}},
	{"heart", []string{"cardiac", "coronary", "cardiovascular"}},
	{"cancer", []string{"oncology", "tumor", "malignant", "chemotherapy", "radiotherapy"}},
	{"diabetes", []string{"diabetic", "blood sugar", "insulin"}},
	{"accident", []string{"accidental", "injury", "trauma", "mishap"}},
	{"maternity", []string{"pregnancy", "delivery", "birth", "prenatal", "postnatal"}},
	{"dental", []string{"teeth", "oral", "mouth"}},
	{"eye", []string{"vision", "optical", "sight", "ophthalmology"}},
}

// Scenario groups phrases that signal one common insurance situation.
type Scenario struct {
	Name     string
	Keywords []string
}

// Scenarios earn a bonus when query and clause both mention the same situation.
var Scenarios = []Scenario{
	{"ambulance", []string{"air ambulance", "emergency transport", "medical evacuation"}},
	{"surgery", []string{"surgical procedure", "operation", "invasive treatment"}},
	{"maternity", []string{"pregnancy", "delivery", "childbirth", "maternal"}},
	{"dental", []string{"dental treatment", "oral care", "teeth"}},
	{"accident", []string{"accidental injury", "trauma", "emergency care"}},
}

// Signal weights and per-hit bonuses.
const (
	weightDirect    = 0.25
	weightExpanded  = 0.25
	weightTitle     = 0.15
	weightSubstring = 0.15
	weightEntity    = 0.15
	weightScenario  = 0.05

	titleHitBonus     = 0.5
	substringHitBonus = 0.2
	entityHitBonus    = 0.3
	urgencyHitBonus   = 0.2
	scenarioHitBonus  = 0.4

	// MinScore is the exclusive threshold a clause must beat to be returned.
	MinScore = 0.05

	// FallbackCount clauses are returned unfiltered when nothing beats MinScore.
	FallbackCount = 3
)

var synonymIndex = func() map[string][]string {
	idx := make(map[string][]string, len(DomainKeywords))
	for _, k := range DomainKeywords {
		idx[k.Keyword] = k.Synonyms
	}
	return idx
}()
