package responder

import "github.com/cvmhw/rogercore/internal/models"

// Phrasing tiers. Tone escalates with repeated same-category detections in a
// session; it is bounded at escalated and never regresses.
const (
	TierInitial = iota
	TierFollowup
	TierEscalated
)

// baseScripts hold the crisis acknowledgement for each category and tier.
var baseScripts = map[models.CrisisType][3]string{
	models.CrisisSuicide: {
		"I'm really glad you told me. What you're feeling matters, and you don't have to carry it alone. Please reach out to someone who can support you right now.",
		"I hear you, and I'm still here with you. These thoughts are serious, and you deserve real support. Please connect with a crisis counselor now.",
		"I'm very concerned about your safety right now. Please contact a crisis counselor immediately, and if you are in immediate danger, call 911.",
	},
	models.CrisisSelfHarm: {
		"Thank you for trusting me with this. Hurting yourself is a sign of real pain, and there are people who can help you through it without judgment.",
		"I hear that the urge to hurt yourself is still with you. You deserve care, not punishment. Please reach out to a counselor who works with self-harm.",
		"I'm worried about how much you're hurting. Please talk to a crisis counselor right away so you can stay safe tonight.",
	},
	models.CrisisEatingDisorder: {
		"It takes courage to talk about struggles with food and eating. What you're describing sounds really hard, and specialized support can make a difference.",
		"I hear that food is still a real struggle for you. This deserves proper care from people who specialize in eating concerns.",
		"What you're describing worries me, and it can affect your health quickly. Please reach out to an eating disorder specialist or helpline today.",
	},
	models.CrisisSubstanceUse: {
		"Thank you for being honest about this. Struggles with substances are heavy to carry alone, and support is available without judgment.",
		"I hear that this is still weighing on you. Recovery support can meet you wherever you are. Please consider reaching out today.",
		"I'm concerned about your safety with what you're describing. Please contact a substance use helpline now, and call 911 if you feel physically unwell.",
	},
	models.CrisisGeneral: {
		"It sounds like you're going through something really overwhelming. You don't have to face it alone, and talking to someone can help right now.",
		"I can hear how much you're still struggling. Please consider reaching out to a crisis counselor who can give you more support than I can.",
		"I'm genuinely concerned about how you're doing. Please connect with a crisis counselor right away so someone can help you through tonight.",
	},
}

// criticalSafetyLine is appended whenever severity reaches critical.
const criticalSafetyLine = "If you are in immediate danger, please call 911 or go to your nearest emergency room."

// locationInquiries ask once per session, phrased per category so the ask
// feels connected to what the person shared.
var locationInquiries = map[models.CrisisType]string{
	models.CrisisSuicide:        "So I can share crisis resources close to you, could you tell me what city or area you're in?",
	models.CrisisSelfHarm:       "If you're comfortable sharing what city or area you're in, I can point you to local support for this.",
	models.CrisisEatingDisorder: "Could you share what city or area you're in? Some eating disorder programs are local, and I'd like to find one near you.",
	models.CrisisSubstanceUse:   "If you tell me what city or area you're in, I can look up recovery support near you.",
	models.CrisisGeneral:        "Would you share what city or area you're in? I can find support options close to you.",
}

// safetyFallbackResponse is returned when the pipeline itself fails. It
// assumes a possible crisis rather than assuming none.
const safetyFallbackResponse = "I'm having trouble processing that right now, but your safety matters most. " +
	"If you're struggling or in crisis, please call or text 988 to reach the Suicide & Crisis Lifeline, " +
	"or text HOME to 741741 to reach the Crisis Text Line. If you are in immediate danger, call 911."

// SafetyFallback returns the generic safety-oriented response used when the
// pipeline cannot produce a specific one.
func SafetyFallback() string {
	return safetyFallbackResponse
}
