// Package arbiter resolves a single governing crisis classification when a
// message carries evidence for more than one category. Priority reflects
// life-safety ranking, never match count.
package arbiter

import (
	"github.com/cvmhw/rogercore/internal/classifier"
	"github.com/cvmhw/rogercore/internal/models"
)

// Result is the arbitrated classification for one user turn.
type Result struct {
	Type     models.CrisisType
	Severity models.Severity
	Evidence []models.MatchEvidence
}

// severityCeiling is the maximum severity each category can reach when
// escalation phrases or heavy evidence are present.
var severityCeiling = map[models.CrisisType]models.Severity{
	models.CrisisSuicide:        models.SeverityCritical,
	models.CrisisSelfHarm:       models.SeverityHigh,
	models.CrisisEatingDisorder: models.SeverityHigh,
	models.CrisisSubstanceUse:   models.SeverityHigh,
	models.CrisisGeneral:        models.SeverityHigh,
}

// escalationMatchCount is the evidence cardinality that alone forces the
// category ceiling.
const escalationMatchCount = 3

// Arbitrate selects exactly one (type, severity) pair from classifier
// evidence. Returns ok=false when there is no evidence. Deterministic: the
// highest-priority category present governs, and general_crisis fires only
// when no specific category matched.
func Arbitrate(evidence []models.MatchEvidence) (Result, bool) {
	if len(evidence) == 0 {
		return Result{}, false
	}

	byCategory := make(map[models.CrisisType][]models.MatchEvidence)
	for _, ev := range evidence {
		byCategory[ev.Category] = append(byCategory[ev.Category], ev)
	}

	for _, category := range models.CrisisTypePriority {
		matches, ok := byCategory[category]
		if !ok {
			continue
		}
		return Result{
			Type:     category,
			Severity: deriveSeverity(category, matches),
			Evidence: matches,
		}, true
	}

	return Result{}, false
}

func deriveSeverity(category models.CrisisType, matches []models.MatchEvidence) models.Severity {
	escalated := false
	for _, m := range matches {
		if classifier.IsEscalationPattern(m.PatternID) {
			escalated = true
			break
		}
	}

	switch {
	case escalated || len(matches) >= escalationMatchCount:
		return severityCeiling[category]
	case len(matches) >= 2:
		return models.SeverityModerate
	default:
		return models.SeverityLow
	}
}
