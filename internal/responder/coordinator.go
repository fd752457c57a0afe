// Package responder composes the user-facing crisis response for a turn:
// base script selected by phrasing tier, plus local resources when the
// location is known, or a single location inquiry when it is not.
package responder

import (
	"strings"

	"github.com/cvmhw/rogercore/internal/arbiter"
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/resources"
)

// Catalog is the resource lookup the coordinator depends on. Injected so the
// coordinator has no hidden load-order coupling with the catalog.
type Catalog interface {
	For(t models.CrisisType, loc *models.LocationInfo) resources.Bundle
}

// Composition is the coordinator's output for one turn.
type Composition struct {
	ResponseText      string
	NeedsLocation     bool
	HasLocalResources bool
}

// Coordinator composes responses. Stateless across turns; session-scoped
// state (asked-once flag, phrasing tiers) lives in the SessionState it is
// handed.
type Coordinator struct {
	catalog Catalog
}

// New creates a coordinator over the given resource catalog.
func New(catalog Catalog) *Coordinator {
	return &Coordinator{catalog: catalog}
}

// Compose builds the response for an arbitrated crisis turn and advances the
// session's phrasing tier for the detected category. The base script always
// carries hotlines (national by default, local when the location resolves to
// a served region), so no crisis response is ever bare. The location inquiry
// is emitted at most once per session, ever.
func (c *Coordinator) Compose(result arbiter.Result, loc *models.LocationInfo, sess *models.SessionState) Composition {
	var out Composition
	var parts []string

	tier := sess.Tier(result.Type)
	parts = append(parts, baseScripts[result.Type][tier])
	sess.AdvanceTier(result.Type)

	if result.Severity == models.SeverityCritical {
		parts = append(parts, criticalSafetyLine)
	}

	bundle := c.catalog.For(result.Type, loc)
	parts = append(parts, renderBundle(bundle))
	out.HasLocalResources = bundle.Local()

	if !loc.Sufficient() && !sess.AskedLocation {
		parts = append(parts, locationInquiries[result.Type])
		sess.AskedLocation = true
		out.NeedsLocation = true
	}

	out.ResponseText = strings.Join(parts, "\n\n")
	return out
}

func renderBundle(bundle resources.Bundle) string {
	var b strings.Builder
	if bundle.Local() {
		b.WriteString("Support near you (")
		b.WriteString(bundle.Region)
		b.WriteString("):")
	} else {
		b.WriteString("Support available right now:")
	}
	for _, hotline := range bundle.Hotlines {
		b.WriteString("\n- ")
		b.WriteString(hotline)
	}
	for _, program := range bundle.Programs {
		b.WriteString("\n- ")
		b.WriteString(program)
	}
	return b.String()
}
