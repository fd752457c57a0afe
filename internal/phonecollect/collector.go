// Package phonecollect runs the callback-number collection state machine.
// Every inbound message is scanned for a phone number regardless of crisis
// state; requests for a number are only made after high-risk detections, at
// most three times per session, with phrasing that firms up on each ask.
package phonecollect

import (
	"time"

	"github.com/cvmhw/rogercore/internal/models"
)

// Request phrasings by persistence level. Level 0 is a gentle offer, level 1
// is direct, level 2 is structured and names the reason for asking.
var requestScripts = [3]string{
	"If you'd feel okay sharing a phone number, someone from our team could check in with you. No pressure at all.",
	"I'd really like to have someone reach out to you directly. Could you share a phone number where you can be reached?",
	"I want to be direct with you: I'm asking for your phone number because I'm concerned about your safety, and a real person checking in can make a difference. Would you share a number where our team can reach you?",
}

const providedAcknowledgement = "Thank you for trusting me with that. Someone from our team will reach out to you soon."

// Observe scans a message for a phone number and records the first one
// provided. It reports the number and whether this message is the one that
// provided it; a session's number is captured exactly once.
func Observe(text string, state *models.SessionState) (string, bool) {
	phone, ok := Extract(text)
	if !ok {
		return "", false
	}
	if state.Phone.HasProvidedNumber {
		return state.Phone.PhoneNumber, false
	}
	state.Phone.HasProvidedNumber = true
	state.Phone.PhoneNumber = phone
	return phone, true
}

// RequestPrompt decides whether this turn should ask for a callback number
// and returns the scripted ask. Only high-risk categories enter collection,
// and the per-session cap is enforced here.
func RequestPrompt(t models.CrisisType, state *models.SessionState) (string, bool) {
	if !t.HighRisk() {
		return "", false
	}
	if !state.Phone.CanRequest() {
		return "", false
	}
	state.Phone.RequestCount++
	state.Phone.LastRequestTime = time.Now().UTC()
	return requestScripts[state.Phone.PersistenceLevel()], true
}

// Acknowledgement returns the line appended when a number was just provided.
func Acknowledgement() string {
	return providedAcknowledgement
}
