package classifier

import (
	"testing"

	"github.com/cvmhw/rogercore/internal/models"
)

func hasEatingEvidence(c *Classifier, text string) bool {
	for _, ev := range c.Classify(text) {
		if ev.Category == models.CrisisEatingDisorder {
			return true
		}
	}
	return false
}

func TestEatingConcern_ExplicitPhrasesDetected(t *testing.T) {
	c := newTestClassifier()

	tests := []string{
		"I haven't eaten in three days and I'm scared",
		"I make myself throw up after every meal",
		"I've been starving myself all week",
		"I refuse to eat anything my mom cooks",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if !hasEatingEvidence(c, text) {
				t.Errorf("Expected eating evidence for %q", text)
			}
		})
	}
}

func TestEatingConcern_SmallTalkSuppressed(t *testing.T) {
	c := newTestClassifier()

	tests := []string{
		"I love the food at the West Side Market",
		"That restaurant has delicious food",
		"We had a great brunch downtown",
		"Trying a new recipe for dinner with friends",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if hasEatingEvidence(c, text) {
				t.Errorf("Expected small talk suppression for %q", text)
			}
		})
	}
}

func TestEatingConcern_ExplicitPhraseOverridesSmallTalk(t *testing.T) {
	c := newTestClassifier()

	// Small-talk context must never downgrade an explicit high-risk phrase.
	text := "We went to a restaurant but I make myself throw up after eating"
	if !hasEatingEvidence(c, text) {
		t.Errorf("Expected explicit risk phrase to override small talk in %q", text)
	}
}

func TestEatingConcern_LoneKeywordBelowFloor(t *testing.T) {
	c := newTestClassifier()

	if hasEatingEvidence(c, "I bought food on the way home") {
		t.Error("Expected a lone food keyword to stay below the signal floor")
	}
}

func TestEatingConcern_AccumulatedSignalsEmit(t *testing.T) {
	c := newTestClassifier()

	// Keywords plus self-criticism markers accumulate past the floor without
	// any single explicit phrase.
	text := "I hate my body, I'm disgusting, all I think about is my weight and my diet"
	if !hasEatingEvidence(c, text) {
		t.Errorf("Expected accumulated weak signals to emit evidence for %q", text)
	}
}

func TestEatingConcern_ThresholdIsConfigurable(t *testing.T) {
	// At a permissive threshold, moderate scores survive small talk; at a
	// strict one, the same message is suppressed.
	text := "The restaurant food was fine but I always feel fat and hate my body"

	permissive := New(1.0)
	if !hasEatingEvidence(permissive, text) {
		t.Error("Expected evidence to survive at permissive threshold")
	}

	strict := New(5.0)
	if hasEatingEvidence(strict, text) {
		t.Error("Expected suppression at strict threshold")
	}
}
