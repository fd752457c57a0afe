package models

// CrisisType identifies the category of a detected crisis. The declaration
// order is the fixed arbitration priority: when a message carries evidence
// for more than one category, the highest-priority category governs.
type CrisisType string

const (
	CrisisSuicide        CrisisType = "suicide"
	CrisisSelfHarm       CrisisType = "self_harm"
	CrisisEatingDisorder CrisisType = "eating_disorder"
	CrisisSubstanceUse   CrisisType = "substance_use"
	CrisisGeneral        CrisisType = "general_crisis"
)

// CrisisTypePriority lists crisis types from highest to lowest life-safety
// priority for arbitration.
var CrisisTypePriority = []CrisisType{
	CrisisSuicide,
	CrisisSelfHarm,
	CrisisEatingDisorder,
	CrisisSubstanceUse,
	CrisisGeneral,
}

// Valid reports whether t is a known crisis type.
func (t CrisisType) Valid() bool {
	switch t {
	case CrisisSuicide, CrisisSelfHarm, CrisisEatingDisorder, CrisisSubstanceUse, CrisisGeneral:
		return true
	}
	return false
}

// HighRisk reports whether this category triggers callback phone number
// collection.
func (t CrisisType) HighRisk() bool {
	switch t {
	case CrisisSuicide, CrisisSelfHarm, CrisisGeneral:
		return true
	}
	return false
}

// Severity grades how acute a detected crisis is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityModerate: 1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Valid reports whether s is a known severity grade.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// MatchEvidence records a single pattern hit from the classifier. Evidence is
// retained for audit and explainability only; it is never shown to the user.
type MatchEvidence struct {
	Category    CrisisType `json:"category"`
	PatternID   string     `json:"pattern_id"`
	MatchedText string     `json:"matched_text"`
}
