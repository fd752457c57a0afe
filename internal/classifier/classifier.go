package classifier

import (
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/pkg/utils"
)

// Classifier maps free text to crisis-category match evidence. It is pure
// and total: identical input yields identical evidence, and invalid or empty
// input yields no evidence rather than an error.
type Classifier struct {
	foodTalkSuppressionThreshold float64
}

// New creates a classifier. The threshold controls when benign food small
// talk suppresses a weak eating-concern score; explicit high-risk phrases
// always override suppression.
func New(foodTalkSuppressionThreshold float64) *Classifier {
	return &Classifier{foodTalkSuppressionThreshold: foodTalkSuppressionThreshold}
}

// Classify analyzes text and returns all accumulated category evidence. A
// message may legitimately carry evidence for more than one category; the
// arbiter resolves the collision later.
func (c *Classifier) Classify(text string) []models.MatchEvidence {
	normalized := utils.NormalizeText(text)
	if normalized == "" {
		return nil
	}

	var evidence []models.MatchEvidence

	for _, category := range models.CrisisTypePriority {
		if category == models.CrisisEatingDisorder {
			continue
		}
		for _, rule := range categoryRules[category] {
			if matched, ok := rule.match(normalized); ok {
				evidence = append(evidence, models.MatchEvidence{
					Category:    category,
					PatternID:   rule.ID,
					MatchedText: matched,
				})
			}
		}
	}

	evidence = append(evidence, c.assessEatingConcern(normalized).evidence()...)

	return evidence
}

func (r Rule) match(text string) (string, bool) {
	if r.Pattern != nil {
		if m := r.Pattern.FindString(text); m != "" {
			return m, true
		}
		return "", false
	}
	if r.Phrase != "" && utils.ContainsAny(text, []string{r.Phrase}) {
		return r.Phrase, true
	}
	return "", false
}
