package notifier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/resources"
)

// Subject lines are fixed templates. Clinicians triage from the subject alone,
// so the wording stays stable across releases.
var subjectTemplates = map[models.CrisisType]string{
	models.CrisisSuicide:        "CRISIS ALERT: Suicide risk indicators detected",
	models.CrisisSelfHarm:       "CRISIS ALERT: Self-harm indicators detected",
	models.CrisisEatingDisorder: "CRISIS ALERT: Eating disorder indicators detected",
	models.CrisisSubstanceUse:   "CRISIS ALERT: Substance use crisis indicators detected",
	models.CrisisGeneral:        "CRISIS ALERT: Crisis indicators detected",
}

const phoneSubject = "URGENT: User provided phone number for crisis follow-up"

// Subject builds the alert subject for an event. Severity and location are
// appended so the inbox sorts by urgency without opening the message.
func Subject(ev *models.CrisisEvent) string {
	subject, ok := subjectTemplates[ev.CrisisType]
	if !ok {
		subject = subjectTemplates[models.CrisisGeneral]
	}
	subject += " [" + strings.ToUpper(string(ev.Severity)) + "]"
	if place := ev.Location.Display(); place != "" {
		subject += " - " + place
	}
	return subject
}

// MailtoFallback composes a mailto URL carrying the full alert so a clinician
// can be reached manually when the delivery provider is down.
func MailtoFallback(recipient string, ev *models.CrisisEvent) string {
	body := fmt.Sprintf(
		"Crisis type: %s\nSeverity: %s\nSession: %s\nTime: %s\n\nUser message:\n%s\n\nResponse sent:\n%s\n",
		ev.CrisisType, ev.Severity, ev.SessionID,
		ev.Timestamp.Format("2006-01-02 15:04:05 MST"),
		ev.UserText, ev.ResponseText,
	)
	if place := ev.Location.Display(); place != "" {
		body += "\nLocation: " + place + "\n"
	}
	body += "\nClinical guidance:\n" + resources.GuidanceFor(ev.CrisisType) + "\n"

	params := url.Values{}
	params.Set("subject", Subject(ev))
	params.Set("body", body)
	return "mailto:" + recipient + "?" + params.Encode()
}

// PhoneMailtoFallback is the manual-delivery form of the phone-provided alert.
func PhoneMailtoFallback(recipient, sessionID, phone string) string {
	params := url.Values{}
	params.Set("subject", phoneSubject)
	params.Set("body", fmt.Sprintf("Session: %s\nPhone number: %s\n\nPlease follow up as soon as possible.\n", sessionID, phone))
	return "mailto:" + recipient + "?" + params.Encode()
}
