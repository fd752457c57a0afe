package utils

import "strings"

var apostropheReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"ʼ", "'",
	"`", "'",
	"´", "'",
)

// NormalizeText lowercases the input, folds unicode apostrophe variants to
// ASCII, and collapses runs of whitespace so pattern matching sees one
// canonical form.
func NormalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = apostropheReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// ContainsAny checks if the text contains any of the given keywords
func ContainsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// CountContained returns how many of the keywords appear in the text
func CountContained(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
