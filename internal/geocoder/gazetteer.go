package geocoder

import (
	"strings"

	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/pkg/utils"
)

type gazetteerEntry struct {
	name string
	loc  models.LocationInfo
}

// The gazetteer is weighted toward Northeast Ohio, where most users are, but
// carries every US state so out-of-area mentions still resolve to a region.
// Order matters: the first match wins, so lookup is deterministic.
var knownCities = []gazetteerEntry{
	{"cleveland", models.LocationInfo{City: "Cleveland", Region: "Ohio", Country: "United States"}},
	{"lakewood", models.LocationInfo{City: "Lakewood", Region: "Ohio", Country: "United States"}},
	{"parma", models.LocationInfo{City: "Parma", Region: "Ohio", Country: "United States"}},
	{"akron", models.LocationInfo{City: "Akron", Region: "Ohio", Country: "United States"}},
	{"canton", models.LocationInfo{City: "Canton", Region: "Ohio", Country: "United States"}},
	{"youngstown", models.LocationInfo{City: "Youngstown", Region: "Ohio", Country: "United States"}},
	{"cuyahoga falls", models.LocationInfo{City: "Cuyahoga Falls", Region: "Ohio", Country: "United States"}},
	{"mentor", models.LocationInfo{City: "Mentor", Region: "Ohio", Country: "United States"}},
	{"elyria", models.LocationInfo{City: "Elyria", Region: "Ohio", Country: "United States"}},
	{"lorain", models.LocationInfo{City: "Lorain", Region: "Ohio", Country: "United States"}},
	{"columbus", models.LocationInfo{City: "Columbus", Region: "Ohio", Country: "United States"}},
	{"cincinnati", models.LocationInfo{City: "Cincinnati", Region: "Ohio", Country: "United States"}},
	{"toledo", models.LocationInfo{City: "Toledo", Region: "Ohio", Country: "United States"}},
	{"dayton", models.LocationInfo{City: "Dayton", Region: "Ohio", Country: "United States"}},
}

var knownRegions = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire",
	"new jersey", "new mexico", "new york", "north carolina", "north dakota",
	"ohio", "oklahoma", "oregon", "pennsylvania", "rhode island",
	"south carolina", "south dakota", "tennessee", "texas", "utah", "vermont",
	"virginia", "washington", "west virginia", "wisconsin", "wyoming",
}

// FromText extracts a location by gazetteer lookup. Synchronous, cheap, and
// privacy-preserving; returns nil when no known place is mentioned.
func FromText(text string) *models.LocationInfo {
	normalized := utils.NormalizeText(text)
	if normalized == "" {
		return nil
	}

	for _, entry := range knownCities {
		if containsPlace(normalized, entry.name) {
			out := entry.loc
			return &out
		}
	}

	for _, region := range knownRegions {
		if containsPlace(normalized, region) {
			return &models.LocationInfo{
				Region:  titleCase(region),
				Country: "United States",
			}
		}
	}

	return nil
}

// containsPlace matches a place name on word boundaries so "canton" does not
// fire inside "cantonese".
func containsPlace(text, place string) bool {
	idx := strings.Index(text, place)
	for idx >= 0 {
		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		end := idx + len(place)
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(text[idx+1:], place)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
