package responder

import (
	"strings"
	"testing"

	"github.com/cvmhw/rogercore/internal/arbiter"
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/resources"
)

func newTestCoordinator() *Coordinator {
	return New(resources.Catalog{})
}

func suicideResult(severity models.Severity) arbiter.Result {
	return arbiter.Result{Type: models.CrisisSuicide, Severity: severity}
}

func TestCompose_WithLocation(t *testing.T) {
	c := newTestCoordinator()
	sess := models.NewSessionState("sess-1")
	loc := &models.LocationInfo{City: "Cleveland", Region: "Ohio"}

	out := c.Compose(suicideResult(models.SeverityCritical), loc, sess)

	if !strings.Contains(out.ResponseText, "988") {
		t.Error("Expected 988 lifeline in response")
	}
	if !strings.Contains(out.ResponseText, "Frontline Service") {
		t.Error("Expected Cleveland program in response")
	}
	if !out.HasLocalResources {
		t.Error("Expected HasLocalResources for served city")
	}
	if out.NeedsLocation {
		t.Error("Expected no location inquiry with known location")
	}
	if sess.AskedLocation {
		t.Error("Expected asked-location flag untouched with known location")
	}
}

func TestCompose_LocationInquiryOncePerSession(t *testing.T) {
	c := newTestCoordinator()
	sess := models.NewSessionState("sess-1")
	inquiry := locationInquiries[models.CrisisSuicide]

	first := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
	if !first.NeedsLocation {
		t.Fatal("Expected inquiry on first turn without location")
	}
	if !strings.Contains(first.ResponseText, inquiry) {
		t.Error("Expected inquiry text in first response")
	}
	if !strings.Contains(first.ResponseText, "988") {
		t.Error("Expected national hotline alongside inquiry")
	}

	// Many later turns, still no location: the inquiry never repeats.
	for i := 0; i < 5; i++ {
		out := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
		if out.NeedsLocation {
			t.Fatal("Expected no repeat inquiry")
		}
		if strings.Contains(out.ResponseText, inquiry) {
			t.Fatal("Expected inquiry text to never repeat")
		}
	}
}

func TestCompose_TierAdvancesWithoutRegressing(t *testing.T) {
	c := newTestCoordinator()
	sess := models.NewSessionState("sess-1")

	first := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
	if !strings.Contains(first.ResponseText, baseScripts[models.CrisisSuicide][TierInitial]) {
		t.Error("Expected initial tier phrasing on first detection")
	}

	second := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
	if !strings.Contains(second.ResponseText, baseScripts[models.CrisisSuicide][TierFollowup]) {
		t.Error("Expected followup tier phrasing on second detection")
	}

	third := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
	fourth := c.Compose(suicideResult(models.SeverityCritical), nil, sess)
	for i, out := range []Composition{third, fourth} {
		if !strings.Contains(out.ResponseText, baseScripts[models.CrisisSuicide][TierEscalated]) {
			t.Errorf("Expected escalated tier phrasing on detection %d", i+3)
		}
	}
}

func TestCompose_TiersAreCategoryScoped(t *testing.T) {
	c := newTestCoordinator()
	sess := models.NewSessionState("sess-1")

	c.Compose(suicideResult(models.SeverityCritical), nil, sess)

	out := c.Compose(arbiter.Result{
		Type:     models.CrisisEatingDisorder,
		Severity: models.SeverityHigh,
	}, nil, sess)

	if !strings.Contains(out.ResponseText, baseScripts[models.CrisisEatingDisorder][TierInitial]) {
		t.Error("Expected a different category to start at the initial tier")
	}
}

func TestCompose_CriticalSeverityAddsSafetyLine(t *testing.T) {
	c := newTestCoordinator()

	critical := c.Compose(suicideResult(models.SeverityCritical), nil, models.NewSessionState("a"))
	if !strings.Contains(critical.ResponseText, "911") {
		t.Error("Expected 911 language at critical severity")
	}

	moderate := c.Compose(arbiter.Result{
		Type:     models.CrisisGeneral,
		Severity: models.SeverityModerate,
	}, nil, models.NewSessionState("b"))
	if strings.Contains(moderate.ResponseText, criticalSafetyLine) {
		t.Error("Expected no critical safety line at moderate severity")
	}
}

func TestCompose_EatingDisorderIncludesNEDA(t *testing.T) {
	c := newTestCoordinator()
	out := c.Compose(arbiter.Result{
		Type:     models.CrisisEatingDisorder,
		Severity: models.SeverityHigh,
	}, nil, models.NewSessionState("sess-1"))

	if !strings.Contains(out.ResponseText, "NEDA") {
		t.Error("Expected NEDA helpline for eating disorder response")
	}
}

func TestCompose_UnknownCityFallsBackToNational(t *testing.T) {
	c := newTestCoordinator()
	sess := models.NewSessionState("sess-1")
	loc := &models.LocationInfo{City: "Portland", Region: "Oregon"}

	out := c.Compose(suicideResult(models.SeverityHigh), loc, sess)

	if out.HasLocalResources {
		t.Error("Expected no local resources for unserved city")
	}
	if !strings.Contains(out.ResponseText, "988") {
		t.Error("Expected national hotline fallback")
	}
	if out.NeedsLocation {
		t.Error("Expected no inquiry when a location is already known")
	}
}

func TestSafetyFallback(t *testing.T) {
	text := SafetyFallback()
	if !strings.Contains(text, "988") || !strings.Contains(text, "911") {
		t.Error("Expected fallback response to carry crisis lines")
	}
}
