package classifier

import (
	"strings"

	"github.com/cvmhw/rogercore/internal/models"
)

// Signal weights for the eating-concern sub-classifier. Exact high-risk
// phrases count as full matches, bare keywords as half weight, contextual
// risk markers as partial weight.
const (
	eatingHighRiskWeight = 1.0
	eatingKeywordWeight  = 0.5
	eatingContextWeight  = 0.25
)

// minEatingSignalScore is the floor below which keyword-only chatter about
// food produces no evidence at all. A lone mention of "food" is not a crisis
// signal.
const minEatingSignalScore = 1.0

type weightedPhrase struct {
	ID     string
	Phrase string
}

// eatingHighRiskPhrases are explicit risk statements. Their presence
// overrides small-talk suppression unconditionally: a specialized domain must
// never downgrade an explicit high-severity phrase.
var eatingHighRiskPhrases = []weightedPhrase{
	{ID: "eating.risk.havent_eaten", Phrase: "haven't eaten"},
	{ID: "eating.risk.not_eating", Phrase: "not eating"},
	{ID: "eating.risk.stopped_eating", Phrase: "stopped eating"},
	{ID: "eating.risk.refuse_to_eat", Phrase: "refuse to eat"},
	{ID: "eating.risk.wont_eat", Phrase: "won't let myself eat"},
	{ID: "eating.risk.starve", Phrase: "starve myself"},
	{ID: "eating.risk.starving", Phrase: "starving myself"},
	{ID: "eating.risk.purge", Phrase: "purge"},
	{ID: "eating.risk.throw_up_after", Phrase: "throw up after"},
	{ID: "eating.risk.make_myself_throw_up", Phrase: "make myself throw up"},
	{ID: "eating.risk.laxatives", Phrase: "laxatives to lose"},
	{ID: "eating.risk.binge", Phrase: "binge and"},
	{ID: "eating.risk.count_every", Phrase: "count every calorie"},
}

var eatingKeywords = []weightedPhrase{
	{ID: "eating.keyword.calorie", Phrase: "calorie"},
	{ID: "eating.keyword.weight", Phrase: "weight"},
	{ID: "eating.keyword.diet", Phrase: "diet"},
	{ID: "eating.keyword.fat", Phrase: "fat"},
	{ID: "eating.keyword.skinny", Phrase: "skinny"},
	{ID: "eating.keyword.thin", Phrase: "too thin"},
	{ID: "eating.keyword.eat", Phrase: "eat"},
	{ID: "eating.keyword.food", Phrase: "food"},
	{ID: "eating.keyword.body", Phrase: "my body"},
}

// Contextual risk markers: absolutist language, restriction language, and
// self-criticism each add partial weight.
var eatingContextMarkers = []weightedPhrase{
	{ID: "eating.context.always", Phrase: "always"},
	{ID: "eating.context.never", Phrase: "never"},
	{ID: "eating.context.every_time", Phrase: "every time"},
	{ID: "eating.context.cant_eat", Phrase: "can't eat"},
	{ID: "eating.context.not_allowed", Phrase: "not allowed to"},
	{ID: "eating.context.dont_deserve", Phrase: "don't deserve"},
	{ID: "eating.context.hate_my_body", Phrase: "hate my body"},
	{ID: "eating.context.disgusting", Phrase: "disgusting"},
	{ID: "eating.context.gross", Phrase: "so gross"},
	{ID: "eating.context.ugly", Phrase: "ugly"},
}

// foodSmallTalkPhrases mark benign food and culture chatter, e.g. praise for
// a local restaurant or market. They suppress weak scores only; see
// assessEatingConcern.
var foodSmallTalkPhrases = []string{
	"restaurant",
	"west side market",
	"food truck",
	"recipe",
	"cooking",
	"delicious",
	"tasty",
	"love the food",
	"great food",
	"favorite food",
	"brunch",
	"dinner with",
	"lunch with",
	"food scene",
}

type eatingAssessment struct {
	hits         []models.MatchEvidence
	score        float64
	explicitRisk bool
	smallTalk    bool
	threshold    float64
}

// assessEatingConcern scores the text by weighted signal accumulation.
// Suppression rule: benign food small talk cancels the assessment when the
// score sits below the configured threshold, unless an explicit high-risk
// phrase is present. The override is a hard rule, not a tunable.
func (c *Classifier) assessEatingConcern(normalized string) eatingAssessment {
	a := eatingAssessment{threshold: c.foodTalkSuppressionThreshold}

	for _, p := range eatingHighRiskPhrases {
		if strings.Contains(normalized, p.Phrase) {
			a.hits = append(a.hits, models.MatchEvidence{
				Category:    models.CrisisEatingDisorder,
				PatternID:   p.ID,
				MatchedText: p.Phrase,
			})
			a.score += eatingHighRiskWeight
			a.explicitRisk = true
		}
	}

	for _, p := range eatingKeywords {
		if strings.Contains(normalized, p.Phrase) {
			a.hits = append(a.hits, models.MatchEvidence{
				Category:    models.CrisisEatingDisorder,
				PatternID:   p.ID,
				MatchedText: p.Phrase,
			})
			a.score += eatingKeywordWeight
		}
	}

	for _, p := range eatingContextMarkers {
		if strings.Contains(normalized, p.Phrase) {
			a.hits = append(a.hits, models.MatchEvidence{
				Category:    models.CrisisEatingDisorder,
				PatternID:   p.ID,
				MatchedText: p.Phrase,
			})
			a.score += eatingContextWeight
		}
	}

	for _, phrase := range foodSmallTalkPhrases {
		if strings.Contains(normalized, phrase) {
			a.smallTalk = true
			break
		}
	}

	return a
}

// evidence applies the emission floor and the small-talk suppression rule.
func (a eatingAssessment) evidence() []models.MatchEvidence {
	if a.explicitRisk {
		return a.hits
	}
	if a.score < minEatingSignalScore {
		return nil
	}
	if a.smallTalk && a.score < a.threshold {
		return nil
	}
	return a.hits
}
