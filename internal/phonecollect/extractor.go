package phonecollect

import (
	"regexp"
	"strings"
)

// The extraction pattern is deliberately permissive: users in crisis type
// numbers with parentheses, dots, dashes, spaces, or nothing at all. A missed
// number costs a callback opportunity; a false positive only costs a clinician
// a glance.
var phonePattern = regexp.MustCompile(`(?:\+?1[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)

var digitsOnly = regexp.MustCompile(`\D`)

// Extract scans a message for a US phone number and returns it in canonical
// XXX-XXX-XXXX form.
func Extract(text string) (string, bool) {
	match := phonePattern.FindString(text)
	if match == "" {
		return "", false
	}

	digits := digitsOnly.ReplaceAllString(match, "")
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:10], true
}
