package classifier

import (
	"regexp"

	"github.com/cvmhw/rogercore/internal/models"
)

// Rule is a single detection pattern within a category rule set. Phrase rules
// match as substrings of normalized text; Pattern rules match as regexes.
// Escalation rules mark explicit intent or method language that forces the
// category's severity ceiling during arbitration.
type Rule struct {
	ID         string
	Phrase     string
	Pattern    *regexp.Regexp
	Escalation bool
}

// categoryRules is the canonical rule table. The source history carried many
// near-duplicate detector variants; their phrase lists are consolidated here
// and exercised as fixtures in the package tests.
var categoryRules = map[models.CrisisType][]Rule{
	models.CrisisSuicide: {
		{ID: "suicide.kill_myself", Phrase: "kill myself", Escalation: true},
		{ID: "suicide.end_my_life", Phrase: "end my life", Escalation: true},
		{ID: "suicide.take_my_own_life", Phrase: "take my own life", Escalation: true},
		{ID: "suicide.want_to_die", Phrase: "want to die", Escalation: true},
		{ID: "suicide.end_it_all", Phrase: "end it all", Escalation: true},
		{ID: "suicide.word", Pattern: regexp.MustCompile(`\bsuicidal?\b`), Escalation: true},
		{ID: "suicide.method_hang", Phrase: "hang myself", Escalation: true},
		{ID: "suicide.method_shoot", Phrase: "shoot myself", Escalation: true},
		{ID: "suicide.method_jump", Phrase: "jump off a bridge", Escalation: true},
		{ID: "suicide.method_pills", Phrase: "overdose on pills", Escalation: true},
		{ID: "suicide.tonight", Phrase: "tonight is the night", Escalation: true},
		{ID: "suicide.better_off_dead", Phrase: "better off dead"},
		{ID: "suicide.better_without_me", Phrase: "better off without me"},
		{ID: "suicide.no_reason_to_live", Phrase: "no reason to live"},
		{ID: "suicide.not_worth_living", Phrase: "not worth living"},
		{ID: "suicide.wish_i_was_dead", Phrase: "wish i was dead"},
		{ID: "suicide.wish_i_were_dead", Phrase: "wish i were dead"},
		{ID: "suicide.dont_want_to_be_here", Phrase: "don't want to be here anymore"},
	},
	models.CrisisSelfHarm: {
		{ID: "selfharm.cut_myself", Phrase: "cut myself", Escalation: true},
		{ID: "selfharm.cutting_myself", Phrase: "cutting myself", Escalation: true},
		{ID: "selfharm.burn_myself", Phrase: "burn myself", Escalation: true},
		{ID: "selfharm.hurt_myself", Phrase: "hurt myself", Escalation: true},
		{ID: "selfharm.hurting_myself", Phrase: "hurting myself", Escalation: true},
		{ID: "selfharm.word", Pattern: regexp.MustCompile(`\bself[- ]harm`)},
		{ID: "selfharm.started_cutting", Phrase: "started cutting"},
		{ID: "selfharm.punish_myself", Phrase: "punish myself"},
		{ID: "selfharm.deserve_pain", Phrase: "deserve the pain"},
		{ID: "selfharm.feel_something", Phrase: "just to feel something"},
	},
	models.CrisisSubstanceUse: {
		{ID: "substance.overdose", Pattern: regexp.MustCompile(`\boverdos(e|ed|ing)\b`), Escalation: true},
		{ID: "substance.cant_stop_drinking", Phrase: "can't stop drinking", Escalation: true},
		{ID: "substance.cant_stop_using", Phrase: "can't stop using", Escalation: true},
		{ID: "substance.relapse", Pattern: regexp.MustCompile(`\brelaps(e|ed|ing)\b`), Escalation: true},
		{ID: "substance.drink_to_cope", Phrase: "drink to cope"},
		{ID: "substance.drinking_again", Phrase: "drinking again"},
		{ID: "substance.using_again", Phrase: "using again"},
		{ID: "substance.blackout", Pattern: regexp.MustCompile(`\bblack(ed)? ?out\b`)},
		{ID: "substance.withdrawal", Phrase: "withdrawal"},
		{ID: "substance.high_all_the_time", Phrase: "high all the time"},
		{ID: "substance.need_a_drink", Phrase: "need a drink to"},
	},
	models.CrisisGeneral: {
		{ID: "general.cant_keep_safe", Phrase: "can't keep myself safe", Escalation: true},
		{ID: "general.scared_what_i_might_do", Phrase: "scared of what i might do", Escalation: true},
		{ID: "general.scared_i_might", Phrase: "scared i might do something", Escalation: true},
		{ID: "general.cant_go_on", Phrase: "can't go on"},
		{ID: "general.cant_do_this_anymore", Phrase: "can't do this anymore"},
		{ID: "general.falling_apart", Phrase: "falling apart"},
		{ID: "general.hopeless", Pattern: regexp.MustCompile(`\bhopeless(ness)?\b`)},
		{ID: "general.in_crisis", Phrase: "in crisis"},
		{ID: "general.emergency", Phrase: "this is an emergency"},
		{ID: "general.cant_cope", Phrase: "can't cope"},
		{ID: "general.breaking_down", Phrase: "breaking down"},
		{ID: "general.losing_control", Phrase: "losing control"},
		{ID: "general.nobody_can_help", Phrase: "nobody can help me"},
	},
}

// escalationPatternIDs is derived from the rule table, including the
// eating-concern high-risk phrases defined in eating.go.
var escalationPatternIDs = buildEscalationSet()

func buildEscalationSet() map[string]bool {
	set := make(map[string]bool)
	for _, rules := range categoryRules {
		for _, r := range rules {
			if r.Escalation {
				set[r.ID] = true
			}
		}
	}
	for _, p := range eatingHighRiskPhrases {
		set[p.ID] = true
	}
	return set
}

// IsEscalationPattern reports whether a pattern ID marks explicit intent or
// method language. The arbiter uses this to force the category's severity
// ceiling.
func IsEscalationPattern(patternID string) bool {
	return escalationPatternIDs[patternID]
}
