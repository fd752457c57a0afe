// Package resources maps a crisis type and a resolved location to hotline
// numbers and local program names. Lookups are total: every known crisis
// type has a national default bundle, so a caller always has something safe
// to offer.
package resources

import (
	"strings"

	"github.com/cvmhw/rogercore/internal/models"
)

// Bundle is a set of resources for one crisis type in one region. Region is
// empty for the national defaults.
type Bundle struct {
	Region   string
	Hotlines []string
	Programs []string
}

// Local reports whether the bundle carries region-specific programs.
func (b Bundle) Local() bool {
	return b.Region != ""
}

// regionKey is the fixed set of served regions.
type regionKey string

const (
	regionCleveland   regionKey = "cleveland"
	regionAkronCanton regionKey = "akron_canton"
	regionColumbus    regionKey = "columbus"
)

// cityRegions maps normalized city names to a served region.
var cityRegions = map[string]regionKey{
	"cleveland":      regionCleveland,
	"lakewood":       regionCleveland,
	"parma":          regionCleveland,
	"mentor":         regionCleveland,
	"elyria":         regionCleveland,
	"lorain":         regionCleveland,
	"cuyahoga falls": regionAkronCanton,
	"akron":          regionAkronCanton,
	"canton":         regionAkronCanton,
	"youngstown":     regionAkronCanton,
	"columbus":       regionColumbus,
}

var nationalHotlines = map[models.CrisisType][]string{
	models.CrisisSuicide: {
		"988 Suicide & Crisis Lifeline: call or text 988",
		"Crisis Text Line: text HOME to 741741",
	},
	models.CrisisSelfHarm: {
		"988 Suicide & Crisis Lifeline: call or text 988",
		"Crisis Text Line: text HOME to 741741",
	},
	models.CrisisEatingDisorder: {
		"NEDA Helpline: 1-800-931-2237",
		"Crisis Text Line: text NEDA to 741741",
	},
	models.CrisisSubstanceUse: {
		"SAMHSA National Helpline: 1-800-662-4357",
		"988 Suicide & Crisis Lifeline: call or text 988",
	},
	models.CrisisGeneral: {
		"988 Suicide & Crisis Lifeline: call or text 988",
		"Crisis Text Line: text HOME to 741741",
	},
}

var regionalPrograms = map[regionKey]map[models.CrisisType][]string{
	regionCleveland: {
		models.CrisisSuicide: {
			"Frontline Service 24/7 Crisis Line: 216-623-6888",
		},
		models.CrisisSelfHarm: {
			"Frontline Service 24/7 Crisis Line: 216-623-6888",
		},
		models.CrisisEatingDisorder: {
			"The Emily Program - Cleveland: 1-888-364-5977",
		},
		models.CrisisSubstanceUse: {
			"Stella Maris Cleveland detox services: 216-781-0550",
		},
		models.CrisisGeneral: {
			"Frontline Service 24/7 Crisis Line: 216-623-6888",
		},
	},
	regionAkronCanton: {
		models.CrisisSuicide: {
			"Portage Path Psychiatric Emergency Services: 330-762-6110",
		},
		models.CrisisSelfHarm: {
			"Portage Path Psychiatric Emergency Services: 330-762-6110",
		},
		models.CrisisSubstanceUse: {
			"Summit County ADM Crisis Center: 330-996-7730",
		},
		models.CrisisGeneral: {
			"Portage Path Psychiatric Emergency Services: 330-762-6110",
		},
	},
	regionColumbus: {
		models.CrisisSuicide: {
			"Netcare Access 24/7 Crisis Line: 614-276-2273",
		},
		models.CrisisSelfHarm: {
			"Netcare Access 24/7 Crisis Line: 614-276-2273",
		},
		models.CrisisSubstanceUse: {
			"Netcare Access 24/7 Crisis Line: 614-276-2273",
		},
		models.CrisisGeneral: {
			"Netcare Access 24/7 Crisis Line: 614-276-2273",
		},
	},
}

var regionDisplayNames = map[regionKey]string{
	regionCleveland:   "Greater Cleveland",
	regionAkronCanton: "Akron-Canton",
	regionColumbus:    "Columbus",
}

// For returns the resource bundle for a crisis type and location. An
// unmatched or absent location falls back to the national defaults.
func For(t models.CrisisType, loc *models.LocationInfo) Bundle {
	bundle := Bundle{
		Hotlines: nationalHotlines[t],
	}
	if bundle.Hotlines == nil {
		// Unknown type still gets a safe default.
		bundle.Hotlines = nationalHotlines[models.CrisisGeneral]
	}

	key, ok := resolveRegion(loc)
	if !ok {
		return bundle
	}

	programs := regionalPrograms[key][t]
	if len(programs) == 0 {
		return bundle
	}

	bundle.Region = regionDisplayNames[key]
	bundle.Programs = programs
	return bundle
}

// resolveRegion normalizes the city and region strings against the served
// areas. Some geocoders report a metro name in Region rather than City, so
// both are consulted. State-level regions like "Ohio" span multiple served
// areas and resolve to the national bundle.
func resolveRegion(loc *models.LocationInfo) (regionKey, bool) {
	if !loc.Sufficient() {
		return "", false
	}
	for _, place := range []string{loc.City, loc.Region} {
		if place == "" {
			continue
		}
		if key, ok := cityRegions[strings.ToLower(strings.TrimSpace(place))]; ok {
			return key, true
		}
	}
	return "", false
}

// clinicalGuidance is the crisis-specific guidance text attached to
// clinician notifications.
var clinicalGuidance = map[models.CrisisType]string{
	models.CrisisSuicide:        "Immediate risk assessment indicated. Review for ideation with plan or means; follow the safety-plan protocol and consider emergency services if the client discloses imminent intent.",
	models.CrisisSelfHarm:       "Assess wound care needs and self-harm frequency. Explore function of the behavior and introduce harm-reduction and distress-tolerance alternatives.",
	models.CrisisEatingDisorder: "Screen for medical instability (syncope, electrolyte disturbance, rapid weight change). Coordinate with primary care; consider referral to a specialized eating disorder program.",
	models.CrisisSubstanceUse:   "Assess for withdrawal risk and overdose exposure. Review recent use pattern; consider detox referral and harm-reduction counseling.",
	models.CrisisGeneral:        "Broad distress indicators without a specific category. Conduct a general risk screen and identify the primary stressor before the next session.",
}

// GuidanceFor returns clinical guidance text for the clinician notification.
// Total for every known crisis type.
func GuidanceFor(t models.CrisisType) string {
	if g, ok := clinicalGuidance[t]; ok {
		return g
	}
	return clinicalGuidance[models.CrisisGeneral]
}

// Catalog is the injectable form of the package lookups, for components that
// take the catalog as a constructor dependency.
type Catalog struct{}

func (Catalog) For(t models.CrisisType, loc *models.LocationInfo) Bundle {
	return For(t, loc)
}

func (Catalog) GuidanceFor(t models.CrisisType) string {
	return GuidanceFor(t)
}
